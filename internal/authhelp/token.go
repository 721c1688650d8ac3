// SPDX-License-Identifier: AGPL-3.0-only
package authhelp

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"

	"github.com/cssocial/desk/internal/localdb"
)

// The bearer token from the CSSocial API is kept in the local store,
// AES-GCM encrypted when a key is configured. An empty key stores the
// token as-is with a nil nonce; the settings page warns about that mode.

func encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	if len(key) != 32 {
		return nil, nil, errors.New("encryption key must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}

	ciphertext = gcm.Seal(nil, nonce, plaintext, nil)
	return
}

func decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return gcm.Open(nil, nonce, ciphertext, nil)
}

func SaveSessionToken(ctx context.Context, db *localdb.Store, viewerID, username, accessToken string, encryptionKey []byte) error {
	if accessToken == "" {
		return errors.New("access token is empty")
	}

	payload := []byte(accessToken)
	var nonce []byte
	if len(encryptionKey) > 0 {
		var err error
		payload, nonce, err = encrypt(payload, encryptionKey)
		if err != nil {
			return err
		}
	}

	return db.SaveSession(ctx, localdb.Session{
		ViewerID:       viewerID,
		Username:       username,
		EncryptedToken: payload,
		Nonce:          nonce,
	})
}

func LoadSessionToken(ctx context.Context, db *localdb.Store, encryptionKey []byte) (viewerID, username, accessToken string, err error) {
	sess, err := db.GetSession(ctx)
	if err != nil {
		return "", "", "", err
	}

	payload := sess.EncryptedToken
	if len(sess.Nonce) > 0 {
		if len(encryptionKey) == 0 {
			return "", "", "", errors.New("stored token is encrypted but no TOKEN_KEY is configured")
		}
		payload, err = decrypt(sess.EncryptedToken, sess.Nonce, encryptionKey)
		if err != nil {
			return "", "", "", err
		}
	}

	return sess.ViewerID, sess.Username, string(payload), nil
}
