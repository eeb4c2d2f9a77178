package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/pkg/config"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
)

// Credential is whatever a caller presented to prove moderator rights:
// the raw shared password, or claims from an already-validated session
// token. The zero value is anonymous.
type Credential struct {
	Password string
	Claims   *models.SessionClaims
}

// Present reports whether the caller attempted to authenticate at all.
func (c Credential) Present() bool {
	return c.Password != "" || c.Claims != nil
}

// AuthService verifies the moderator shared secret and issues session
// tokens for the manager panel. The configured password is kept only as a
// bcrypt hash after construction.
type AuthService struct {
	passwordHash  []byte
	sessionSecret []byte
	sessionTTL    time.Duration
	logger        *zap.Logger
}

// NewAuthService builds the service from moderator config. When no
// pre-computed hash is configured the plaintext password is hashed once and
// discarded.
func NewAuthService(cfg config.ModeratorConfig, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var hash []byte
	if cfg.PasswordHash != "" {
		hash = []byte(cfg.PasswordHash)
	} else {
		if cfg.Password == "" {
			return nil, errors.New("moderator password not configured")
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = generated
	}

	return &AuthService{
		passwordHash:  hash,
		sessionSecret: []byte(cfg.SessionSecret),
		sessionTTL:    cfg.SessionTTL,
		logger:        logger,
	}, nil
}

// Authorize gates every privileged operation. It runs before any record
// lookup so a wrong password learns nothing about the data.
func (s *AuthService) Authorize(cred Credential) error {
	if cred.Claims != nil && cred.Claims.Role == models.RoleModerator {
		return nil
	}
	if cred.Password == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")
	}
	return s.VerifyPassword(cred.Password)
}

// VerifyPassword compares the presented password against the stored hash.
func (s *AuthService) VerifyPassword(raw string) error {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(raw)); err != nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")
	}
	return nil
}

// LoginResponse carries an issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login exchanges the moderator password for a session token.
func (s *AuthService) Login(password string) (*LoginResponse, error) {
	if err := s.VerifyPassword(password); err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.sessionTTL)
	claims := models.SessionClaims{
		Role: models.RoleModerator,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.sessionSecret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue session token")
	}

	s.logger.Info("moderator session issued", zap.Time("expires_at", expiresAt))
	return &LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(raw string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.sessionSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return claims, nil
}
