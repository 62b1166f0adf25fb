package passpkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	const password = "operator-secret"

	hash, err := Hash(password)
	require.NoError(t, err)
	require.NotEqual(t, password, hash)

	testCases := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{name: "OK", password: password, hash: hash},
		{name: "WrongPassword", password: "operator-secreT", hash: hash, wantErr: bcrypt.ErrMismatchedHashAndPassword},
		{name: "EmptyPassword", password: "", hash: hash, wantErr: bcrypt.ErrMismatchedHashAndPassword},
		{name: "MalformedHash", password: password, hash: "not-a-bcrypt-hash", wantErr: bcrypt.ErrHashTooShort},
	}

	for _, tc := range testCases {
		err := Check(tc.password, tc.hash)
		assert.ErrorIs(t, err, tc.wantErr, tc.name)
	}

	// Every hash is salted.
	again, err := Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
	assert.NoError(t, Check(password, again))
}
