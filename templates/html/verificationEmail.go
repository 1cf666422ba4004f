package templates

import (
	"fmt"
	"html"
)

// RenderVerificationEmail generates the branded Finblood verification email.
// intro differs between the first send and a re-send; displayName and email
// are escaped before embedding.
func RenderVerificationEmail(displayName, email, verificationLink string, resend bool) string {
	safeName := html.EscapeString(displayName)
	safeEmail := html.EscapeString(email)

	intro := "Terima kasih telah mendaftar di <strong>Finblood</strong>."
	if resend {
		intro = "Ini adalah email verifikasi ulang untuk akun <strong>Finblood</strong> Anda."
	}

	return fmt.Sprintf(`<table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f4f4;padding:20px;font-family:Arial,sans-serif;">
  <tr>
    <td align="center">
      <table width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;padding:30px;border-radius:10px;">
        <tr>
          <td align="center" style="padding-bottom:20px;">
            <img src="https://i.imgur.com/HUuWVrW.png" alt="Logo" width="150" style="margin-bottom:20px;" />
            <h2 style="color:#6C1022;margin:0;">Verifikasi Email Anda</h2>
          </td>
        </tr>
        <tr>
          <td style="color:#555555;font-size:16px;line-height:1.5;padding-bottom:20px;">
            Halo <strong>%s</strong>,<br><br>
            %s<br>
            Untuk memverifikasi email Anda <strong>%s</strong>, silakan klik tombol di bawah ini:
          </td>
        </tr>
        <tr>
          <td align="center" style="padding:20px 0;">
            <a href="%s" style="background-color:#6C1022;color:#ffffff;text-decoration:none;padding:12px 24px;border-radius:6px;display:inline-block;font-weight:bold;">
              Verifikasi Email
            </a>
          </td>
        </tr>
        <tr>
          <td style="color:#555555;font-size:14px;line-height:1.5;">
            Jika Anda tidak merasa mendaftar di Finblood, abaikan saja email ini.
          </td>
        </tr>
        <tr>
          <td style="padding-top:30px;color:#888888;font-size:14px;text-align:center;">
            Terima kasih,<br>
            Tim <strong>Finblood</strong>
          </td>
        </tr>
      </table>
    </td>
  </tr>
</table>`, safeName, intro, safeEmail, verificationLink)
}
