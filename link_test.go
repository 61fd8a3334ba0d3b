package secguide_test

import (
	"testing"

	"github.com/fwojciec/secguide"
	"github.com/stretchr/testify/assert"
)

func TestShouldFollow(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty and blank hrefs", func(t *testing.T) {
		t.Parallel()

		assert.False(t, secguide.ShouldFollow(""))
		assert.False(t, secguide.ShouldFollow("   "))
	})

	t.Run("rejects non-navigational prefixes", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"mailto:security@example.com",
			"tel:+441234567890",
			"#main-content",
			"javascript:void(0)",
			"JavaScript:alert(1)",
		} {
			assert.False(t, secguide.ShouldFollow(href), href)
		}
	})

	t.Run("rejects absolute and protocol-relative URLs", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"https://external.example/",
			"http://security-guidance.service.justice.gov.uk/policy",
			"//cdn.example.com/page",
		} {
			assert.False(t, secguide.ShouldFollow(href), href)
		}
	})

	t.Run("rejects any other scheme", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"ftp://example.com/a",
			"FTP://x/y",
			"data:text/html,hi",
			"sms:+441234",
			"file:///etc/passwd",
		} {
			assert.False(t, secguide.ShouldFollow(href), href)
		}
	})

	t.Run("rejects document and image extensions", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"/files/policy.pdf",
			"report.doc",
			"/a/b.docx",
			"/sheet.xls",
			"/sheet.XLSX",
			"/img/logo.png",
			"/img/photo.jpg",
			"/img/photo.jpeg?w=200",
			"/anim.gif#frame",
		} {
			assert.False(t, secguide.ShouldFollow(href), href)
		}
	})

	t.Run("follows same-origin relative document links", func(t *testing.T) {
		t.Parallel()

		for _, href := range []string{
			"/policy/passwords",
			"passwords",
			"../guidance/",
			"/policy/passwords#section-2",
			"/search?q=pdf",
			"/guides/index.html",
		} {
			assert.True(t, secguide.ShouldFollow(href), href)
		}
	})
}
