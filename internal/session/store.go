package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "github.com/pradhanfinservdev/pradhanportal-client/pkg/errors"
)

// Profile is the signed-in user as the UI needs it.
type Profile struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

func (p Profile) IsAdmin() bool {
	return p.Role == "admin" || p.Role == "superadmin"
}

type state struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Store owns the auth token and user profile. It is the single writer of
// that pair: login sets both, Clear removes both, so a token can never
// outlive its profile or vice versa. Injected explicitly into the HTTP
// boundary and the UI instead of being read from ambient globals.
type Store struct {
	mu       sync.RWMutex
	st       state
	filePath string
	logger   *zap.Logger
}

func NewStore(filePath string, logger *zap.Logger) *Store {
	if filePath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			filePath = filepath.Join(dir, "pradhanportal", "session.json")
		} else {
			filePath = ".portal-session.json"
		}
	}
	s := &Store{filePath: filePath, logger: logger.Named("session")}
	s.loadFromDisk()
	return s
}

// Set stores a fresh login. Persisting is best effort: a read-only disk
// still leaves the in-memory session usable.
func (s *Store) Set(token string, user Profile) {
	s.mu.Lock()
	s.st = state{Token: token, User: user}
	s.mu.Unlock()
	s.persist()
}

// Clear is the only way the session is ever torn down, whether by logout,
// a pre-flight expiry check or the 401 handler.
func (s *Store) Clear() {
	s.mu.Lock()
	s.st = state{}
	s.mu.Unlock()
	s.persist()
}

// Token returns the stored bearer token, or an error when it is missing or
// already expired. Expiry is checked locally on every call by decoding the
// token's claims; a stale token is never handed out.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	token := s.st.Token
	s.mu.RUnlock()

	if token == "" {
		return "", apperrors.ErrTokenNotFound
	}
	if err := checkExpiry(token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) User() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.User, s.st.Token != ""
}

// checkExpiry decodes the claims without verifying the signature: the
// client has no signing secret, and the server remains the authority. The
// local check only prevents sending a token we already know is dead.
func checkExpiry(token string) error {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return apperrors.ErrInvalidToken
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return apperrors.ErrTokenExpired
	}
	return nil
}

func (s *Store) loadFromDisk() {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := json.Unmarshal(raw, &s.st); err != nil {
		s.logger.Warn("session file is corrupt, starting signed out", zap.Error(err))
		s.st = state{}
	}
}

func (s *Store) persist() {
	s.mu.RLock()
	raw, err := json.Marshal(s.st)
	s.mu.RUnlock()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		s.logger.Warn("could not create session dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.filePath, raw, 0o600); err != nil {
		s.logger.Warn("could not persist session", zap.Error(err))
	}
}
