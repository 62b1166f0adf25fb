// Package operatorservice authenticates the operator of the admin API.
package operatorservice

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/errorspkg"
	"github.com/go-petr/sms-ledger/pkg/passpkg"
	"github.com/go-petr/sms-ledger/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// Credentials are the configured operator username and bcrypt password hash.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Service facilitates operator login.
type Service struct {
	credentials    Credentials
	tokenMaker     tokenpkg.Maker
	accessDuration time.Duration
}

// New returns operator service struct.
func New(c Credentials, tm tokenpkg.Maker, accessDuration time.Duration) *Service {
	return &Service{
		credentials:    c,
		tokenMaker:     tm,
		accessDuration: accessDuration,
	}
}

// Login checks the operator credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (domain.OperatorSession, error) {
	l := zerolog.Ctx(ctx)

	if s.credentials.Username == "" || s.credentials.PasswordHash == "" {
		l.Warn().Msg("login attempt while operator credentials are not configured")
		return domain.OperatorSession{}, domain.ErrLoginDisabled
	}

	sameUser := subtle.ConstantTimeCompare([]byte(username), []byte(s.credentials.Username)) == 1

	// The hash is checked for unknown usernames too so both failures take the same time.
	err := passpkg.Check(password, s.credentials.PasswordHash)
	if !sameUser || err != nil {
		l.Warn().Err(err).Str("username", username).Msg("operator login failed")
		return domain.OperatorSession{}, domain.ErrWrongCredentials
	}

	token, payload, err := s.tokenMaker.CreateToken(username, s.accessDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.OperatorSession{}, errorspkg.ErrInternal
	}

	return domain.OperatorSession{
		Username:    payload.Username,
		AccessToken: token,
		ExpiresAt:   payload.ExpiredAt,
	}, nil
}
