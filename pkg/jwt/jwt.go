package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingKey is reported when the service is created without a
	// signing key.
	ErrMissingKey = errors.New("signing key is required")

	// ErrInvalidToken is reported for tokens that are structurally broken:
	// wrong segment count, bad base64, or malformed JSON.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidSignature is reported when the token signature does not
	// verify against the signing key.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpiredToken is reported when the exp claim is in the past.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is reported when the nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrUnsupportedAlgorithm is reported for tokens whose header declares
	// anything other than HS256.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// StandardClaims are the RFC 7519 registered claims. Embed it in a custom
// claims struct to add application fields.
type StandardClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ID        string `json:"jti,omitempty"`
}

// Valid checks the temporal claims against the current time. Zero claims are
// skipped.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt != 0 && now >= c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore != 0 && now < c.NotBefore {
		return ErrTokenNotYetValid
	}
	return nil
}

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Service generates and parses HMAC-SHA256 signed tokens.
type Service struct {
	key []byte
}

// New creates a token service with the given signing key.
func New(key []byte) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	return &Service{key: key}, nil
}

// NewFromString creates a token service from a string key.
func NewFromString(key string) (*Service, error) {
	return New([]byte(key))
}

// Generate signs claims into a compact JWT. Claims can be StandardClaims or
// any JSON-serializable struct embedding it.
func (s *Service) Generate(claims any) (string, error) {
	headerJSON, err := json.Marshal(header{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signing := encodeSegment(headerJSON) + "." + encodeSegment(claimsJSON)
	return signing + "." + s.sign(signing), nil
}

// Parse verifies the token signature and temporal claims, then unmarshals
// the payload into claims.
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidToken, len(parts))
	}

	signing := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(s.sign(signing)), []byte(parts[2])) {
		return ErrInvalidSignature
	}

	headerJSON, err := decodeSegment(parts[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if h.Alg != "HS256" {
		return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, h.Alg)
	}

	claimsJSON, err := decodeSegment(parts[1])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var std StandardClaims
	if err := json.Unmarshal(claimsJSON, &std); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := std.Valid(); err != nil {
		return err
	}

	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

func (s *Service) sign(data string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
