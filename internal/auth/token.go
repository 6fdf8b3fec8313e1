package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

// Token format: af_{ulid}_{secret}
// Example: af_01HV3K8Q2W5E7R9T1Y3U5I7O9P_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	TokenPrefix    = "af_"
	TokenSecretLen = 32 // hex encoded 16 bytes
)

var (
	// ErrInvalidTokenFormat indicates the token is not a session token.
	ErrInvalidTokenFormat = errors.New("invalid token format")

	tokenFormatRegex = regexp.MustCompile(`^af_([0-9A-HJKMNP-TV-Z]{26})_([a-f0-9]{32})$`)
)

// IssuedToken is a freshly minted session token.
type IssuedToken struct {
	ID        string // ULID, safe to log
	Plaintext string // returned to the client once
	Hash      string // lookup key for storage
	IssuedAt  time.Time
}

// NewToken mints an opaque bearer token.
func NewToken(now time.Time) (*IssuedToken, error) {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate token id: %w", err)
	}

	secret := make([]byte, TokenSecretLen/2)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}

	plaintext := TokenPrefix + id.String() + "_" + hex.EncodeToString(secret)
	return &IssuedToken{
		ID:        id.String(),
		Plaintext: plaintext,
		Hash:      HashToken(plaintext),
		IssuedAt:  now,
	}, nil
}

// ParseTokenID returns the ULID part of a token.
func ParseTokenID(token string) (string, error) {
	m := tokenFormatRegex.FindStringSubmatch(token)
	if m == nil {
		return "", ErrInvalidTokenFormat
	}
	return m[1], nil
}

// HashToken returns the SHA256 hex digest used to look tokens up.
// Tokens carry 128 random bits, so a fast hash is enough here.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
