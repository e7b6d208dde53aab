// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// DigestEmailData holds data for the unread-activity digest templates.
type DigestEmailData struct {
	SiteName    string
	GroupName   string
	GroupURL    string
	TotalUnread int64
	Items       []DigestEmailItem
}

// DigestEmailItem is one discussion row inside the digest email.
type DigestEmailItem struct {
	Name   string
	URL    string
	Unread int64
}

// BuildDigestEmail creates a digest email with both HTML and text bodies.
func BuildDigestEmail(data DigestEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("New activity in %s", data.GroupName),
		TextBody: buildDigestText(data),
		HTMLBody: buildDigestHTML(data),
	}
}

func buildDigestText(data DigestEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("There are %d unread comments in %s.\n\n", data.TotalUnread, data.GroupName))
	for _, it := range data.Items {
		buf.WriteString(fmt.Sprintf("- %s (%d unread)\n  %s\n", it.Name, it.Unread, it.URL))
	}
	buf.WriteString(fmt.Sprintf("\nVisit %s to catch up.\n", data.GroupURL))
	return buf.String()
}

func buildDigestHTML(data DigestEmailData) string {
	tmpl := template.Must(template.New("digest").Parse(digestHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Group Activity</title>
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
                There are <strong>{{.TotalUnread}}</strong> unread comments in <strong>{{.GroupName}}</strong>:
              </p>

              <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="margin-bottom: 24px;">
                {{range .Items}}
                <tr>
                  <td style="padding: 8px 0; border-bottom: 1px solid #f3f4f6;">
                    <a href="{{.URL}}" style="font-size: 15px; color: #4f46e5; text-decoration: none;">{{.Name}}</a>
                    <span style="font-size: 13px; color: #6b7280;"> — {{.Unread}} unread</span>
                  </td>
                </tr>
                {{end}}
              </table>

              <!-- Button -->
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.GroupURL}}" style="display: inline-block; padding: 12px 32px; background-color: #4f46e5; color: #ffffff; font-size: 15px; font-weight: 600; text-decoration: none; border-radius: 6px;">Open {{.GroupName}}</a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>

          <!-- Footer -->
          <tr>
            <td style="padding: 24px 32px; border-top: 1px solid #e5e7eb; text-align: center;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af;">
                You receive these digests because you are a member of {{.GroupName}}. Mute the group to stop them.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// VerificationEmailData holds data for account verification email templates.
type VerificationEmailData struct {
	SiteName   string
	VerifyLink string
}

// BuildVerificationEmail creates the account confirmation email.
// Until the link is followed the account stays unverified and receives
// no digests.
func BuildVerificationEmail(data VerificationEmailData) Email {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Welcome to %s.\n\n", data.SiteName))
	buf.WriteString("Click this link to confirm your email address:\n")
	buf.WriteString(data.VerifyLink + "\n\n")
	buf.WriteString("If you did not create this account, you can safely ignore this email.\n")

	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Confirm your %s account", data.SiteName),
		TextBody: buf.String(),
	}
}
