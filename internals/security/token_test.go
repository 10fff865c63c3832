package security

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionToken(t *testing.T) {
	// links already mailed out depend on this exact encoding
	assert.Equal(t, "/Mqo2yH0QgDytVpmJhxPaE36fR9YYF4mJyAMtmlLUAY=", SubscriptionToken("user@example.com", "salt"))
	assert.Equal(t, "QKpKgM7DctfFtBuSVoEwDs110c6k1MEaDBoJy99KFiw=", SubscriptionToken("jane@example.com", "pepper"))
	assert.Equal(t, SubscriptionToken("a@b.c", "s"), SubscriptionToken("a@b.c", "s"), "token must be deterministic")
	assert.NotEqual(t, SubscriptionToken("a@b.c", "s1"), SubscriptionToken("a@b.c", "s2"))
}

func TestVerifyToken(t *testing.T) {
	token := SubscriptionToken("jane@example.com", "pepper")

	tests := []struct {
		name  string
		email string
		salt  string
		token string
		want  bool
	}{
		{"matching", "jane@example.com", "pepper", token, true},
		{"other email", "john@example.com", "pepper", token, false},
		{"other salt", "jane@example.com", "salt", token, false},
		{"empty token", "jane@example.com", "pepper", "", false},
		{"truncated token", "jane@example.com", "pepper", token[:10], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyToken(tt.email, tt.salt, tt.token))
		})
	}
}

func TestSubscriptionLink(t *testing.T) {
	link := SubscriptionLink("https://status.example.com/", "/api/unsubscribe", "a+b@example.com", "pepper")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "status.example.com", u.Host)
	assert.Equal(t, "/api/unsubscribe", u.Path)
	assert.Equal(t, "a+b@example.com", u.Query().Get("email"))
	assert.True(t, VerifyToken(u.Query().Get("email"), "pepper", u.Query().Get("hash")))
}
