package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// TemplateLinks are optional footer links appended to outgoing mail.
type TemplateLinks struct {
	TermsURL   string
	PrivacyURL string
}

// RenderCodeTemplate renders the verification-code email body.
func RenderCodeTemplate(code string, ttl time.Duration, links TemplateLinks) (string, error) {
	tmpl := `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Your Verification Code</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #591C0B;">Your Verification Code</h1>
		<p>Hello,</p>
		<p>Use this code to finish verifying your email address on the Discord server:</p>
		<div style="text-align: center; margin: 30px 0;">
			<span style="background-color: #591C0B; color: white; padding: 12px 30px; border-radius: 5px; display: inline-block; font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</span>
		</div>
		<p>This code will expire in {{.TTL}}.</p>
		<p>If you didn't request a verification code, please ignore this email.</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
		<p style="color: #999; font-size: 12px;">This is an automated message, please do not reply.</p>
		{{if or .TermsURL .PrivacyURL}}<p style="color: #999; font-size: 12px;">{{if .TermsURL}}<a href="{{.TermsURL}}" style="color: #999;">Terms</a>{{end}}{{if and .TermsURL .PrivacyURL}} &middot; {{end}}{{if .PrivacyURL}}<a href="{{.PrivacyURL}}" style="color: #999;">Privacy</a>{{end}}</p>{{end}}
	</div>
</body>
</html>`

	t, err := template.New("code").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := struct {
		Code       string
		TTL        string
		TermsURL   string
		PrivacyURL string
	}{
		Code:       code,
		TTL:        formatTTL(ttl),
		TermsURL:   links.TermsURL,
		PrivacyURL: links.PrivacyURL,
	}

	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatTTL(ttl time.Duration) string {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	m := int(ttl.Round(time.Minute) / time.Minute)
	if m <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
