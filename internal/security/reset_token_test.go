package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tripmate/accounts-api/internal/model"
)

const bucketWidth = 24 * time.Hour

func newTestGenerator(at time.Time) *ResetTokenGenerator {
	g := NewResetTokenGenerator("test-secret", bucketWidth, 1)
	g.now = func() time.Time { return at }
	return g
}

func newTestUser() *model.User {
	return &model.User{
		ID:           bson.NewObjectID(),
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
	}
}

func TestResetToken_ValidWithinBucket(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	user := newTestUser()

	g := newTestGenerator(issued)
	token := g.Generate(user)
	require.NotEmpty(t, token)

	assert.True(t, g.Check(user, token))

	// Still valid just before a full bucket width has passed.
	g.now = func() time.Time { return issued.Add(bucketWidth - time.Second) }
	assert.True(t, g.Check(user, token))
}

func TestResetToken_ExpiredAfterWindow(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	user := newTestUser()

	g := newTestGenerator(issued)
	token := g.Generate(user)

	g.now = func() time.Time { return issued.Add(2 * bucketWidth) }
	assert.False(t, g.Check(user, token))
}

func TestResetToken_InvalidatedByPasswordChange(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	user := newTestUser()

	g := newTestGenerator(issued)
	token := g.Generate(user)
	require.True(t, g.Check(user, token))

	user.PasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$b3RoZXI$b3RoZXI"
	assert.False(t, g.Check(user, token))
}

func TestResetToken_RejectsTampering(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	user := newTestUser()

	g := newTestGenerator(issued)
	token := g.Generate(user)

	tampered := "0" + token[1:]
	if tampered == token {
		tampered = "1" + token[1:]
	}
	assert.False(t, g.Check(user, tampered))
	assert.False(t, g.Check(user, ""))

	other := newTestUser()
	assert.False(t, g.Check(other, token))
}

func TestResetToken_KeyedBySecret(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	user := newTestUser()

	g := newTestGenerator(issued)
	token := g.Generate(user)

	otherKey := NewResetTokenGenerator("other-secret", bucketWidth, 1)
	otherKey.now = g.now
	assert.False(t, otherKey.Check(user, token))
}

func TestEncodeUID_RoundTrip(t *testing.T) {
	id := bson.NewObjectID().Hex()

	encoded := EncodeUID(id)
	assert.NotEqual(t, id, encoded)

	decoded, err := DecodeUID(encoded)
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestDecodeUID_Malformed(t *testing.T) {
	_, err := DecodeUID("%%%not-base64%%%")
	assert.Error(t, err)
}
