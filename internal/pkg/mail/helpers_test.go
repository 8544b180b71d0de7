package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	cases := map[string]string{
		"<p>hello <b>world</b></p>": "hello world",
		"no markup at all":          "no markup at all",
		`<a href="https://x">go</a>`: "go",
		"":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripTags(in))
	}
}

func TestWelcomeMessage(t *testing.T) {
	msg := WelcomeMessage("alice@example.com")

	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Equal(t, "Welcome to Our Newsletter!", msg.Subject)
	assert.Contains(t, msg.HTML, "Thank you for subscribing")
}

func TestConfirmedMessage(t *testing.T) {
	msg := ConfirmedMessage("alice@example.com")

	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Contains(t, msg.HTML, "Subscription Confirmed")
}

func TestNewsletterMessageWrapsContent(t *testing.T) {
	msg := NewsletterMessage("bob@example.com", "March Issue", "<h2>News</h2><p>lots of it</p>")

	assert.Equal(t, []string{"bob@example.com"}, msg.To)
	assert.Equal(t, "March Issue", msg.Subject)

	// The body HTML passes through unescaped inside the frame.
	require.Contains(t, msg.HTML, "<h2>News</h2>")
	assert.Contains(t, msg.HTML, "because you subscribed")

	assert.Equal(t, "Newslots of it", msg.Text)
}

func TestDisabledSenderIsNoOp(t *testing.T) {
	s := New(Config{Enable: false})
	assert.NoError(t, s.Send(NewsletterMessage("x@example.com", "s", "c")))
}
