package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-query-service/config"
)

func TestRenderVerifyEmail(t *testing.T) {
	cfg := &config.Config{AppName: "Accounts", CompanyName: "Acme", VerifyEmailURL: "https://app.example.com/verify"}
	data := NewVerifyEmailData(cfg, "Alice", "alice+test@example.com")

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)
	assert.Equal(t, "Verify your email address for Accounts", subject)
	assert.Contains(t, text, "Hi Alice,")
	assert.Contains(t, text, "https://app.example.com/verify?email=alice%2Btest%40example.com")
	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "Acme")
}

func TestRenderEscapesHTML(t *testing.T) {
	data := ToMap(EmailData{Name: "<script>x</script>", Email: "a@example.com"})
	_, _, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "The team")
}

func TestVerifyLink(t *testing.T) {
	assert.Empty(t, VerifyLink("", "a@example.com"))
	assert.Equal(t, "https://x.test/v?email=a%40example.com&lang=en", VerifyLink("https://x.test/v?lang=en", "a@example.com"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
