package domain

import (
	"errors"
	"time"
)

var (
	// ErrWrongCredentials indicates an unknown operator or a wrong password.
	ErrWrongCredentials = errors.New("wrong username or password")
	// ErrLoginDisabled indicates that no operator password is configured.
	ErrLoginDisabled = errors.New("operator login is disabled")
)

// OperatorSession is an access token issued to an operator.
type OperatorSession struct {
	Username    string    `json:"username"`
	AccessToken string    `json:"-"`
	ExpiresAt   time.Time `json:"-"`
}
