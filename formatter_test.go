package secguide_test

import (
	"testing"

	"github.com/fwojciec/secguide"
	"github.com/stretchr/testify/assert"
)

func TestFormatContext(t *testing.T) {
	t.Parallel()

	t.Run("formats single passage", func(t *testing.T) {
		t.Parallel()

		passages := []*secguide.Passage{
			{URL: "https://example.com/passwords", Title: "Passwords", Content: "Use a password manager."},
		}

		result := secguide.FormatContext(passages)

		expected := "URL: https://example.com/passwords\nTitle: Passwords\nContent: Use a password manager."
		assert.Equal(t, expected, result)
	})

	t.Run("separates passages with a blank line", func(t *testing.T) {
		t.Parallel()

		passages := []*secguide.Passage{
			{URL: "https://example.com/a", Title: "A", Content: "First."},
			{URL: "https://example.com/b", Title: "B", Content: "Second."},
		}

		result := secguide.FormatContext(passages)

		expected := "URL: https://example.com/a\nTitle: A\nContent: First.\n\n" +
			"URL: https://example.com/b\nTitle: B\nContent: Second."
		assert.Equal(t, expected, result)
	})

	t.Run("returns empty string for empty slice", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, secguide.FormatContext([]*secguide.Passage{}))
	})

	t.Run("returns empty string for nil slice", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, secguide.FormatContext(nil))
	})
}
