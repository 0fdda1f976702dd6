package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/riteshkumar/bank-ledger/internal/errors"
)

const (
	// NoCredential is the sentinel for an account without a card number.
	NoCredential int64 = -1

	NotSet = "Not set"
	Masked = "[MASKED]"

	KeyIterations = 65536
	KeySize       = 32
	NonceSize     = 12
	TagSize       = 16
)

// CredentialCipher seals card numbers for the audit log. The key is derived
// once from the configured passphrase and salt.
type CredentialCipher struct {
	key    []byte
	random io.Reader
	logger *slog.Logger
}

type CipherOption func(*CredentialCipher)

// WithRandom replaces the nonce source. Used by tests.
func WithRandom(r io.Reader) CipherOption {
	return func(c *CredentialCipher) {
		c.random = r
	}
}

func NewCredentialCipher(passphrase, salt string, logger *slog.Logger, opts ...CipherOption) (*CredentialCipher, error) {
	if passphrase == "" || salt == "" {
		return nil, errors.ErrMissingEncryptionKey
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &CredentialCipher{
		key:    pbkdf2.Key([]byte(passphrase), []byte(salt), KeyIterations, KeySize, sha256.New),
		random: rand.Reader,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encrypt returns base64(nonce || ciphertext || tag) for the secret's decimal
// form. Every call uses a fresh nonce. Failures fall back to Mask.
func (c *CredentialCipher) Encrypt(secret int64) string {
	if secret == NoCredential {
		return NotSet
	}

	sealed, err := c.seal([]byte(strconv.FormatInt(secret, 10)))
	if err != nil {
		c.logger.Warn("credential encryption failed, writing masked value")
		return Mask(secret)
	}
	return base64.StdEncoding.EncodeToString(sealed)
}

func (c *CredentialCipher) seal(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("%w: create cipher: %v", errors.ErrEncryptionFailure, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: create GCM: %v", errors.ErrEncryptionFailure, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return nil, fmt.Errorf("%w: read nonce: %v", errors.ErrEncryptionFailure, err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Mask is the display-only form of a card number. It never reveals any digit.
func Mask(secret int64) string {
	if secret == NoCredential {
		return NotSet
	}
	return Masked
}

// MaskUPI keeps the first two and last two characters of a UPI id visible.
// Ids of four characters or fewer are fully starred.
func MaskUPI(upi string) string {
	if upi == "" {
		return NotSet
	}
	runes := []rune(upi)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}
