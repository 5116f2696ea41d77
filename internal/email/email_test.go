package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaflist/leaflist-server/internal/config"
)

func TestSendWithoutSMTPIsNoop(t *testing.T) {
	svc := NewService(config.SMTPConfig{}, nil)

	err := svc.SendVerificationEmail(context.Background(), "alice@example.com", "Alice", "http://localhost/verify/abc")
	require.NoError(t, err)
}

func TestVerificationBodies(t *testing.T) {
	text := verificationText("Alice", "http://localhost/verify/abc")
	assert.Contains(t, text, "Hi Alice")
	assert.Contains(t, text, "http://localhost/verify/abc")

	htmlBody := verificationHTML("Alice", "http://localhost/verify/abc")
	assert.Contains(t, htmlBody, `href="http://localhost/verify/abc"`)
}

func TestVerificationHTMLEscapesName(t *testing.T) {
	htmlBody := verificationHTML("<script>alert(1)</script>", "http://localhost/verify/abc")
	assert.False(t, strings.Contains(htmlBody, "<script>"))
}
