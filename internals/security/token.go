package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"strings"
)

// SubscriptionToken derives the confirm/unsubscribe token for an address:
// base64(sha256(email + salt)). Links built from it must stay valid across
// restarts, so nothing about the token is stored.
func SubscriptionToken(email, salt string) string {
	sum := sha256.Sum256([]byte(email + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyToken recomputes the token for email and compares it in constant time.
func VerifyToken(email, salt, token string) bool {
	want := SubscriptionToken(email, salt)
	return subtle.ConstantTimeCompare([]byte(want), []byte(token)) == 1
}

// SubscriptionLink builds a confirm or unsubscribe link carrying the email
// and its token as query parameters.
func SubscriptionLink(baseURL, path, email, salt string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("hash", SubscriptionToken(email, salt))
	return strings.TrimRight(baseURL, "/") + path + "?" + q.Encode()
}
