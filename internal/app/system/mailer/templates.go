// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// AccountCreatedEmailData holds data for the new-account notification.
type AccountCreatedEmailData struct {
	SiteName  string
	Username  string
	GroupName string
	LoginURL  string
}

// BuildAccountCreatedEmail creates the welcome email sent after a
// registration is submitted, with both HTML and text bodies.
func BuildAccountCreatedEmail(data AccountCreatedEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Your %s account has been created", data.SiteName),
		TextBody: buildAccountCreatedText(data),
		HTMLBody: buildAccountCreatedHTML(data),
	}
}

func buildAccountCreatedText(data AccountCreatedEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Welcome to %s, %s!\n\n", data.SiteName, data.Username))
	buf.WriteString(fmt.Sprintf("Your account has been created and your request to join %s is awaiting approval.\n\n", data.GroupName))
	buf.WriteString("You will be able to sign in here once an administrator approves your request:\n")
	buf.WriteString(data.LoginURL + "\n\n")
	buf.WriteString("If you did not create this account, you can safely ignore this email.\n")
	return buf.String()
}

func buildAccountCreatedHTML(data AccountCreatedEmailData) string {
	tmpl := template.Must(template.New("account_created").Parse(accountCreatedHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const accountCreatedHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Account Created</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <!-- Header -->
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>

          <!-- Content -->
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Welcome, {{.Username}}! Your account has been created and your request to join
                <strong>{{.GroupName}}</strong> is awaiting approval.
              </p>

              <p style="margin: 0 0 24px; font-size: 14px; color: #6b7280; text-align: center;">
                Once an administrator approves your request, you can sign in below:
              </p>

              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.LoginURL}}" style="display: inline-block; padding: 14px 32px; background-color: #4f46e5; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Sign In
                    </a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you did not create this account, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
