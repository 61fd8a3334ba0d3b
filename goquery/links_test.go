package goquery_test

import (
	"testing"

	"github.com/fwojciec/secguide"
	"github.com/fwojciec/secguide/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	const base = "https://security-guidance.service.justice.gov.uk/policy/"

	t.Run("resolves relative links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<nav><a href="/passwords">Passwords</a></nav>
<main><a href="mfa">MFA</a><a href="../guidance/laptops">Laptops</a></main>
</body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://security-guidance.service.justice.gov.uk/passwords",
			"https://security-guidance.service.justice.gov.uk/policy/mfa",
			"https://security-guidance.service.justice.gov.uk/guidance/laptops",
		}, links)
	})

	t.Run("drops links rejected by the link filter", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="https://external.example/">External</a>
<a href="//cdn.example/x">CDN</a>
<a href="mailto:security@example.com">Mail</a>
<a href="#top">Top</a>
<a href="/policy.pdf">PDF</a>
<a href="/kept">Kept</a>
</body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://security-guidance.service.justice.gov.uk/kept"}, links)
	})

	t.Run("strips fragments and deduplicates", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/a#one">1</a><a href="/a#two">2</a><a href="/a">3</a><a href="/b">4</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://security-guidance.service.justice.gov.uk/a",
			"https://security-guidance.service.justice.gov.uk/b",
		}, links)
	})

	t.Run("drops links back to the page itself", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/policy/">Self</a><a href="/other">Other</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, base)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://security-guidance.service.justice.gov.uk/other"}, links)
	})

	t.Run("returns empty for page without links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewLinkExtractor().ExtractLinks(`<p>text</p>`, base)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("returns EINVALID for invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor().ExtractLinks(`<a href="/x">x</a>`, "://bad")

		assert.Equal(t, secguide.EINVALID, secguide.ErrorCode(err))
	})
}
