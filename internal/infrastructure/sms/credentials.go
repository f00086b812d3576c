package sms

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/notification"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// SecretBox encrypts and decrypts gateway API secrets with AES-GCM. The key
// comes from configuration and must be 16, 24 or 32 bytes.
type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox creates a SecretBox from a raw key
func NewSecretBox(key []byte) (*SecretBox, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("sms: invalid secret key: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("sms: init cipher: %w", err)
	}
	return &SecretBox{aead: aead}, nil
}

// Seal encrypts a plaintext secret. The nonce is prepended to the ciphertext.
func (b *SecretBox) Seal(plaintext string) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("sms: generate nonce: %w", err)
	}
	return b.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Open decrypts a ciphertext produced by Seal
func (b *SecretBox) Open(ciphertext []byte) (string, error) {
	if len(ciphertext) < b.aead.NonceSize() {
		return "", fmt.Errorf("sms: ciphertext too short")
	}
	nonce, sealed := ciphertext[:b.aead.NonceSize()], ciphertext[b.aead.NonceSize():]
	plaintext, err := b.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("sms: decrypt secret: %w", err)
	}
	return string(plaintext), nil
}

// StoreCredentialSource resolves gateway credentials from each center's stored
// settings, decrypting the API secret, and falls back to shared environment
// credentials when a center has none of its own.
type StoreCredentialSource struct {
	settings notification.GatewaySettingsRepository
	box      *SecretBox
	fallback notification.Credentials
}

// NewStoreCredentialSource creates a credential source backed by the settings
// store. fallback may be zero when no shared credentials exist.
func NewStoreCredentialSource(
	settings notification.GatewaySettingsRepository,
	box *SecretBox,
	fallback notification.Credentials,
) *StoreCredentialSource {
	return &StoreCredentialSource{settings: settings, box: box, fallback: fallback}
}

// Resolve returns the center's credentials, or the fallback set, or an error
// when neither is usable
func (s *StoreCredentialSource) Resolve(ctx context.Context, centerID uuid.UUID) (notification.Credentials, error) {
	stored, err := s.settings.FindActiveForCenter(ctx, centerID)
	if err != nil {
		if !shared.IsNotFound(err) {
			return notification.Credentials{}, err
		}
	} else if stored != nil {
		secret, err := s.box.Open(stored.EncryptedSecret)
		if err != nil {
			return notification.Credentials{}, err
		}
		return notification.Credentials{
			APIKey:       stored.APIKey,
			APISecret:    secret,
			SenderNumber: stored.SenderNumber,
		}, nil
	}

	if s.fallback.IsZero() {
		return notification.Credentials{}, shared.NewDomainError("NO_CREDENTIALS", "No SMS credentials configured for this center")
	}
	return s.fallback, nil
}

var _ notification.CredentialSource = (*StoreCredentialSource)(nil)
