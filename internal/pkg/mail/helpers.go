package mail

import (
	"bytes"
	"html/template"
	"regexp"
)

const welcomeTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h1 style="color:#333">Welcome to Our Newsletter! 🎉</h1>
  <p>Thank you for subscribing to our newsletter. We're excited to have you join our community!</p>
  <p>You'll now receive our latest updates, articles, and insights directly in your inbox.</p>
  <p>If you ever want to unsubscribe, you can click the unsubscribe link at the bottom of any newsletter.</p>
  <br>
  <p>Best regards,</p>
  <p>Your Blog Team</p>
</div>
</body>
</html>`

const confirmedTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h1 style="color:#333">Subscription Confirmed!</h1>
  <p>Thank you for confirming your subscription to our newsletter.</p>
  <p>You'll now receive our latest updates and news directly in your inbox.</p>
  <p>If you ever want to unsubscribe, you can click the unsubscribe link at the bottom of any newsletter.</p>
</div>
</body>
</html>`

const newsletterTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
{{.Content}}
<hr style="border:none;border-top:1px solid #eaeaea;margin:26px 0" />
<p style="color:#9ca3af;font-size:12px">You are receiving this because you subscribed to the newsletter.</p>
</div>
</body>
</html>`

var (
	welcomeT    = template.Must(template.New("welcome").Parse(welcomeTpl))
	confirmedT  = template.Must(template.New("confirmed").Parse(confirmedTpl))
	newsletterT = template.Must(template.New("newsletter").Parse(newsletterTpl))

	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

// WelcomeMessage builds the welcome email sent after a new subscription.
func WelcomeMessage(to string) Message {
	return Message{
		To:      []string{to},
		Subject: "Welcome to Our Newsletter!",
		HTML:    render(welcomeT, nil),
	}
}

// ConfirmedMessage builds the email sent after a confirmation token is redeemed.
func ConfirmedMessage(to string) Message {
	return Message{
		To:      []string{to},
		Subject: "Welcome to Our Newsletter!",
		HTML:    render(confirmedT, nil),
	}
}

// NewsletterMessage wraps a newsletter body in the standard frame and derives
// a plain-text alternative by stripping tags.
func NewsletterMessage(to, subject, content string) Message {
	return Message{
		To:      []string{to},
		Subject: subject,
		HTML:    render(newsletterT, map[string]interface{}{"Content": template.HTML(content)}),
		Text:    StripTags(content),
	}
}

// StripTags removes HTML tags for the text/plain body.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

func render(t *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
