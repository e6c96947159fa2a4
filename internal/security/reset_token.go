package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/tripmate/accounts-api/internal/model"
)

// ResetTokenGenerator issues and checks stateless password-reset tokens.
//
// A token is an HMAC-SHA256 over the user id, a fingerprint of the current
// password hash, and a coarse time bucket, keyed with a server-side secret.
// Nothing is persisted: validation refetches the user and recomputes the
// expected value. Because the password hash is part of the MAC input, any
// password change invalidates every token issued before it, which stands in
// for a single-use revocation list.
type ResetTokenGenerator struct {
	key    []byte
	bucket time.Duration
	window int

	now func() time.Time
}

// NewResetTokenGenerator creates a generator. bucket is the width of the
// validity time bucket and window the number of preceding buckets still
// accepted during validation.
func NewResetTokenGenerator(secret string, bucket time.Duration, window int) *ResetTokenGenerator {
	return &ResetTokenGenerator{
		key:    []byte(secret),
		bucket: bucket,
		window: window,
		now:    time.Now,
	}
}

// Generate computes the reset token for the user's current password hash and
// the current time bucket.
func (g *ResetTokenGenerator) Generate(user *model.User) string {
	return g.mac(user, g.currentBucket())
}

// Check reports whether token matches a recomputation for the current bucket
// or any of the preceding window buckets. A mismatch everywhere means the
// token is forged, expired, or was issued before a password change.
func (g *ResetTokenGenerator) Check(user *model.User, token string) bool {
	if token == "" {
		return false
	}

	current := g.currentBucket()
	for i := 0; i <= g.window; i++ {
		expected := g.mac(user, current-int64(i))
		if hmac.Equal([]byte(token), []byte(expected)) {
			return true
		}
	}

	return false
}

func (g *ResetTokenGenerator) currentBucket() int64 {
	return g.now().Unix() / int64(g.bucket/time.Second)
}

func (g *ResetTokenGenerator) mac(user *model.User, bucket int64) string {
	mac := hmac.New(sha256.New, g.key)
	fmt.Fprintf(mac, "%s|%s|%d", user.ID.Hex(), user.PasswordHash, bucket)
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeUID encodes a user id for use in a reset link, keeping raw ids out
// of URLs and referrer logs.
func EncodeUID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

// DecodeUID reverses EncodeUID. Any malformed input is an error; callers
// treat it the same as an invalid token.
func DecodeUID(encoded string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.New("malformed uid")
	}
	return string(decoded), nil
}
