package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/riteshkumar/bank-ledger/internal/errors"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func newTestCipher(t *testing.T, opts ...CipherOption) *CredentialCipher {
	t.Helper()
	c, err := NewCredentialCipher("test-passphrase", "test-salt", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), opts...)
	require.NoError(t, err)
	return c
}

func TestEncryptProducesFreshEnvelopes(t *testing.T) {
	c := newTestCipher(t)

	first := c.Encrypt(12345)
	second := c.Encrypt(12345)
	assert.NotEqual(t, first, second)

	for _, encoded := range []string{first, second} {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Len(t, raw, NonceSize+len("12345")+TagSize)
	}
}

func TestEncryptRoundTripsUnderDerivedKey(t *testing.T) {
	c := newTestCipher(t)

	raw, err := base64.StdEncoding.DecodeString(c.Encrypt(987654321))
	require.NoError(t, err)

	key := pbkdf2.Key([]byte("test-passphrase"), []byte("test-salt"), KeyIterations, KeySize, sha256.New)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	plaintext, err := gcm.Open(nil, raw[:NonceSize], raw[NonceSize:], nil)
	require.NoError(t, err)
	assert.Equal(t, "987654321", string(plaintext))
}

func TestEncryptSentinel(t *testing.T) {
	c := newTestCipher(t)
	assert.Equal(t, "Not set", c.Encrypt(NoCredential))
	assert.Equal(t, "Not set", c.Encrypt(NoCredential))
}

func TestEncryptFallsBackToMask(t *testing.T) {
	var logs bytes.Buffer
	c, err := NewCredentialCipher("test-passphrase", "test-salt", slog.New(slog.NewTextHandler(&logs, nil)), WithRandom(failingReader{}))
	require.NoError(t, err)

	assert.Equal(t, Masked, c.Encrypt(4111))
	assert.Contains(t, logs.String(), "credential encryption failed")
	assert.NotContains(t, logs.String(), "4111")
	assert.NotContains(t, logs.String(), "entropy unavailable")
}

func TestNewCredentialCipherRequiresKeyAndSalt(t *testing.T) {
	_, err := NewCredentialCipher("", "salt", nil)
	assert.ErrorIs(t, err, apperrors.ErrMissingEncryptionKey)

	_, err = NewCredentialCipher("key", "", nil)
	assert.ErrorIs(t, err, apperrors.ErrMissingEncryptionKey)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "Not set", Mask(NoCredential))
	assert.Equal(t, "[MASKED]", Mask(12345678))
}

func TestMaskUPI(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"", "Not set"},
		{"ab", "**"},
		{"abcd", "****"},
		{"abcde", "ab*de"},
		{"asha@okbank", "as*******nk"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, MaskUPI(tc.in))
		})
	}
}
