// Package auth keeps the backend-issued bearer token, the only state this
// client persists locally, and decodes its claims for role gating.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prasetyadi/absensi/internal/domain"
)

var ErrNoToken = errors.New("no auth token stored")

// TokenStore is a file-backed token holder. It implements api.TokenSource.
type TokenStore struct {
	path string

	mu     sync.Mutex
	cached string
	loaded bool
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Token returns the stored token, or the empty string when none exists.
func (s *TokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		data, err := os.ReadFile(s.path)
		if err == nil {
			s.cached = strings.TrimSpace(string(data))
		}
		s.loaded = true
	}
	return s.cached
}

func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	s.cached = token
	s.loaded = true
	return nil
}

func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// User decodes the stored token's claims. The token is issued and verified
// by the backend; client-side we only read the payload, like the
// dashboard's jwt-decode.
func (s *TokenStore) User() (domain.User, error) {
	token := s.Token()
	if token == "" {
		return domain.User{}, ErrNoToken
	}
	return DecodeUser(token)
}

// Expired reports whether the stored token carries an exp claim in the
// past. Tokens without an exp claim never expire client-side.
func (s *TokenStore) Expired(now time.Time) (bool, error) {
	token := s.Token()
	if token == "" {
		return false, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil {
		return false, nil
	}
	return exp.Time.Before(now), nil
}

// DecodeUser reads the user profile out of an unverified JWT payload.
func DecodeUser(token string) (domain.User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.User{}, fmt.Errorf("failed to parse token: %w", err)
	}

	user := domain.User{
		Name:     claimString(claims, "userName"),
		Email:    claimString(claims, "userEmail"),
		Role:     domain.Role(claimString(claims, "userRole")),
		DeviceID: claimString(claims, "userDeviceId"),
		Contact:  claimString(claims, "userContact"),
	}

	switch id := claims["userId"].(type) {
	case float64:
		user.ID = int64(id)
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return domain.User{}, fmt.Errorf("invalid userId claim %q", id)
		}
		user.ID = n
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
