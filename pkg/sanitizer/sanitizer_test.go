package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/soda/pkg/sanitizer"
)

func TestEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ann@example.com", sanitizer.Email("  Ann@Example.COM "))
}

func TestName(t *testing.T) {
	t.Parallel()

	decomposed := "Jose\u0301"
	composed := "Jos\u00e9"
	assert.Equal(t, composed, sanitizer.Name("  "+decomposed+" "))
	assert.Equal(t, "Mary Ann", sanitizer.Name("Mary \t  Ann"))
	assert.Empty(t, sanitizer.Name("   "))
}

func TestText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "line one\nline two", sanitizer.Text("  line one\nline two \n"))
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"plain":                          "plain",
		"<b>Bold</b> R&D":                "Bold R&D",
		"<script>alert(1)</script>Hello": "Hello",
		"a < b":                          "a < b",
		"line one\nline two":             "line one\nline two",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizer.StripHTML(in), in)
	}
}

func TestStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"https://a.com", "https://b.com"},
		sanitizer.Strings([]string{" https://a.com", "", "https://b.com", "https://a.com "}),
	)
	assert.Nil(t, sanitizer.Strings(nil))
	assert.Empty(t, sanitizer.Strings([]string{" "}))
}

func TestApply(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ABC", sanitizer.Apply(" abc ", strings.TrimSpace, strings.ToUpper))
}
