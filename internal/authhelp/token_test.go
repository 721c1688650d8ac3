package authhelp

import (
	"context"
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cssocial/desk/internal/localdb"
)

func testStore(t *testing.T) *localdb.Store {
	t.Helper()
	db, err := localdb.Open(filepath.Join(t.TempDir(), "desk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSessionTokenRoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("encrypted with key", func(t *testing.T) {
		db := testStore(t)
		key := testKey(t)

		require.NoError(t, SaveSessionToken(ctx, db, "u1", "amy", "secret-token", key))

		// The stored payload must not be the raw token.
		sess, err := db.GetSession(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, []byte("secret-token"), sess.EncryptedToken)
		assert.NotEmpty(t, sess.Nonce)

		viewerID, username, token, err := LoadSessionToken(ctx, db, key)
		require.NoError(t, err)
		assert.Equal(t, "u1", viewerID)
		assert.Equal(t, "amy", username)
		assert.Equal(t, "secret-token", token)
	})

	t.Run("plaintext without key", func(t *testing.T) {
		db := testStore(t)

		require.NoError(t, SaveSessionToken(ctx, db, "u1", "amy", "secret-token", nil))

		viewerID, _, token, err := LoadSessionToken(ctx, db, nil)
		require.NoError(t, err)
		assert.Equal(t, "u1", viewerID)
		assert.Equal(t, "secret-token", token)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		db := testStore(t)

		require.NoError(t, SaveSessionToken(ctx, db, "u1", "amy", "secret-token", testKey(t)))

		_, _, _, err := LoadSessionToken(ctx, db, testKey(t))
		assert.Error(t, err)
	})

	t.Run("encrypted token without key is rejected", func(t *testing.T) {
		db := testStore(t)

		require.NoError(t, SaveSessionToken(ctx, db, "u1", "amy", "secret-token", testKey(t)))

		_, _, _, err := LoadSessionToken(ctx, db, nil)
		assert.Error(t, err)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		db := testStore(t)
		assert.Error(t, SaveSessionToken(ctx, db, "u1", "amy", "", nil))
	})
}

func TestPassphrase(t *testing.T) {
	hash, err := HashPassphrase("s3cret!")
	require.NoError(t, err)

	assert.True(t, CheckPassphrase(hash, "s3cret!"))
	assert.False(t, CheckPassphrase(hash, "wrong"))
}

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong", "Str0ng!pass", true},
		{"too short", "S1!a", false},
		{"no upper", "weak1pass!", false},
		{"no lower", "WEAK1PASS!", false},
		{"no number", "Weakpass!!", false},
		{"no special", "Weakpass11", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tc.password)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
