package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderVerificationEmail(t *testing.T) {
	html := RenderVerificationEmail("Andi", "andi@example.com", "https://verify.link/abc", false)

	assert.Contains(t, html, "Verifikasi Email Anda")
	assert.Contains(t, html, "Halo <strong>Andi</strong>")
	assert.Contains(t, html, "andi@example.com")
	assert.Contains(t, html, `href="https://verify.link/abc"`)
	assert.Contains(t, html, "Terima kasih telah mendaftar")
	assert.NotContains(t, html, "verifikasi ulang")
}

func TestRenderVerificationEmail_Resend(t *testing.T) {
	html := RenderVerificationEmail("Budi", "budi@example.com", "https://verify.link/xyz", true)

	assert.Contains(t, html, "verifikasi ulang")
	assert.NotContains(t, html, "Terima kasih telah mendaftar")
}

func TestRenderVerificationEmail_EscapesUserContent(t *testing.T) {
	html := RenderVerificationEmail("<script>alert(1)</script>", "a&b@example.com", "https://verify.link", false)

	assert.False(t, strings.Contains(html, "<script>"))
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "a&amp;b@example.com")
}
