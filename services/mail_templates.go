package services

import (
	"bytes"
	"fmt"
	"html/template"
)

// BuildOTPEmail creates the verification-code email sent during
// registration and password reset
func BuildOTPEmail(to, code string) Email {
	var buf bytes.Buffer
	_ = otpTemplate.Execute(&buf, map[string]string{"Code": code})
	return Email{
		To:       to,
		Subject:  "Verification Code - Portal Registration",
		HTMLBody: buf.String(),
	}
}

// BuildWelcomeEmail creates the registration confirmation email
func BuildWelcomeEmail(to, firstName, role string) Email {
	var buf bytes.Buffer
	_ = welcomeTemplate.Execute(&buf, map[string]string{
		"FirstName": firstName,
		"Role":      role,
	})
	return Email{
		To:       to,
		Subject:  fmt.Sprintf("Welcome to the Portal, %s!", firstName),
		HTMLBody: buf.String(),
	}
}

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151;">
                Your verification code is:
              </p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; text-align: center;">
                <span style="font-size: 32px; font-weight: 700; letter-spacing: 8px; color: #1f2937; font-family: 'Courier New', monospace;">{{.Code}}</span>
              </div>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                This code expires in 10 minutes. If you did not request it, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px;">
              <h1 style="margin: 0 0 16px; font-size: 22px; color: #1f2937;">Welcome, {{.FirstName}}!</h1>
              <p style="margin: 0 0 16px; font-size: 15px; color: #374151;">
                Your {{.Role}} account has been created. You can now log in and
                start collaborating on production orders.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))
