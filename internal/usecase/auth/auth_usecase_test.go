package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestUseCase(t *testing.T) *UseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewUseCase("admin", string(hash), testSecret, 60)
}

func TestLoginAndValidate(t *testing.T) {
	uc := newTestUseCase(t)

	token, expiresAt, err := uc.Login("admin", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	subject, err := uc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc := newTestUseCase(t)

	_, _, err := uc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = uc.Login("root", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateRejectsForeignToken(t *testing.T) {
	uc := newTestUseCase(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	other := NewUseCase("admin", string(hash), "another-secret-another-secret-32", 60)
	token, _, err := other.Login("admin", "s3cret")
	require.NoError(t, err)

	_, err = uc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	uc := newTestUseCase(t)

	_, err := uc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	uc := NewUseCase("admin", string(hash), testSecret, -1)

	token, _, err := uc.Login("admin", "s3cret")
	require.NoError(t, err)

	_, err = uc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
