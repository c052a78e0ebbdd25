package anonymous

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues guest-session tokens. Sessions are transient: tokens live
// in memory and the session id is only durable through the cart lines that
// reference it.
type Service struct {
	tokens    *tokenManager
	accessTTL time.Duration
}

func New() *Service {
	return &Service{
		tokens:    newTokenManager(),
		accessTTL: 72 * time.Hour,
	}
}

// Issue creates a new anonymous session and returns its token and id.
func (s *Service) Issue(ctx context.Context) (token, sessionID string, err error) {
	sessionID = uuid.NewString()
	token, err = s.tokens.Issue(sessionID, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}

// LookupByToken returns the session id bound to a valid token.
func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.SessionID, nil
}

// AccessTTLSeconds exposes the session token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
