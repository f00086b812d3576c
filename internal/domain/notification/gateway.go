package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/domain/shared"
)

// Credentials authenticate against the SMS gateway on behalf of one center
type Credentials struct {
	APIKey       string
	APISecret    string
	SenderNumber string
}

// IsZero reports whether no credentials are set
func (c Credentials) IsZero() bool {
	return c.APIKey == "" && c.APISecret == "" && c.SenderNumber == ""
}

// Gateway sends one SMS. Implementations carry their own bounded timeout;
// nothing in the attendance path awaits the result synchronously.
type Gateway interface {
	Send(ctx context.Context, creds Credentials, to, text string) error
}

// CredentialSource resolves gateway credentials for a center: explicit
// center-level credentials from the store, else the environment fallback.
type CredentialSource interface {
	Resolve(ctx context.Context, centerID uuid.UUID) (Credentials, error)
}

// GatewaySettings is a center's stored gateway configuration. Secrets are
// encrypted at rest; EncryptedSecret holds the AES-GCM ciphertext of the API
// secret and is decrypted only inside the credential source.
type GatewaySettings struct {
	shared.CenterAggregateRoot
	APIKey          string
	EncryptedSecret []byte
	SenderNumber    string
	IsActive        bool
}

// NewGatewaySettings stores a center's gateway configuration
func NewGatewaySettings(centerID uuid.UUID, apiKey string, encryptedSecret []byte, senderNumber string) (*GatewaySettings, error) {
	if apiKey == "" || len(encryptedSecret) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Gateway API key and secret are required")
	}
	return &GatewaySettings{
		CenterAggregateRoot: shared.NewCenterAggregateRoot(centerID),
		APIKey:              apiKey,
		EncryptedSecret:     encryptedSecret,
		SenderNumber:        senderNumber,
		IsActive:            true,
	}, nil
}

// Deactivate disables the center's own credentials, falling back to the
// environment set
func (g *GatewaySettings) Deactivate() {
	g.IsActive = false
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}
