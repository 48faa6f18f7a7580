package crypto

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSignature = "0x5f1b2c7e9d4a3b6c8e0f1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f7a1b2c3d4e5f60718293a4b5c6d7e8f9001122334455667788990aabbccddeeff1b"

func TestDeriveKey(t *testing.T) {
	key := DeriveKey(testSignature)
	require.Len(t, key, 32)
	require.Equal(t, key, DeriveKey(testSignature))

	// the text is hashed, so a different encoding of the same bytes gives a different key
	require.NotEqual(t, key, DeriveKey(testSignature[2:]))
}

func TestPayloadRoundTrip(t *testing.T) {
	key := DeriveKey(testSignature)
	nonce := bytes.Repeat([]byte{7}, PayloadNonceSize)
	plaintext := []byte("the quick brown fox")

	payload, err := SealPayload(key, nonce, plaintext)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	require.Equal(t, nonce, raw[:PayloadNonceSize])

	got, err := DecryptPayload(key, payload)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)

	random, err := EncryptPayload(key, plaintext)
	require.NoError(t, err)
	got, err = DecryptPayload(key, random+"\n")
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestDecryptPayloadTooShort(t *testing.T) {
	// a key of the wrong size would fail in aes.NewCipher, so reaching that step would
	// surface a different error than the length check
	badKey := []byte("short")
	for _, n := range []int{0, 1, 11, 12} {
		payload := base64.StdEncoding.EncodeToString(make([]byte, n))
		_, err := DecryptPayload(badKey, payload)
		require.ErrorIs(t, err, ErrPayloadTooShort)
	}
}

func TestDecryptPayloadErrors(t *testing.T) {
	key := DeriveKey(testSignature)
	payload, err := EncryptPayload(key, []byte("secret"))
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := DecryptPayload(DeriveKey("0xother"), payload)
		require.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		raw, _ := base64.StdEncoding.DecodeString(payload)
		raw[len(raw)-1] ^= 0xff
		_, err := DecryptPayload(key, base64.StdEncoding.EncodeToString(raw))
		require.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecryptPayload(key, "%%%")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to decode payload")
	})
}

func TestSealPayloadNonceLength(t *testing.T) {
	_, err := SealPayload(DeriveKey(testSignature), []byte{1, 2, 3}, []byte("x"))
	require.Error(t, err)
}
