// Package auth stores the optional bearer token sent to the task service.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"
	envToken     = "TADA_TOKEN"
)

// Token sources.
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

// ErrEmptyToken is returned when saving a blank token.
var ErrEmptyToken = errors.New("empty token")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional (JWT or server-provided)
}

func credFilePath() string {
	return filepath.Join(config.Home(), credFileName)
}

// GetToken returns the active token, or nil when not logged in.
// TADA_TOKEN takes precedence over the credentials file.
func GetToken() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(envToken)); env != "" {
		ti := &TokenInfo{Token: stripBearer(env), Source: SourceEnv}
		ti.ExpiresAt = expiryOf(ti.Token)
		return ti, nil
	}

	ti, err := jsonstore.Load[TokenInfo](credFilePath())
	if err != nil {
		if errors.Is(err, jsonstore.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// SetToken saves token to the credentials file (0600). When expires is nil and the
// token is a JWT carrying "exp", that expiry is recorded.
func SetToken(token string, expires *time.Time) error {
	token = stripBearer(token)
	if token == "" {
		return ErrEmptyToken
	}
	if expires == nil {
		expires = expiryOf(token)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	return jsonstore.Save(credFilePath(), ti, 0o600)
}

// DeleteToken removes the credentials file.
func DeleteToken() error {
	return jsonstore.Remove(credFilePath())
}

// Expired reports whether the token has a known expiry before now.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti != nil && ti.ExpiresAt != nil && ti.ExpiresAt.Before(now)
}

// Claims decodes a JWT's claims without verifying the signature; the server
// is the one that verifies. Opaque tokens return an error.
func Claims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("not a JWT: %w", err)
	}
	return claims, nil
}

func expiryOf(token string) *time.Time {
	claims, err := Claims(token)
	if err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func stripBearer(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "bearer") {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
