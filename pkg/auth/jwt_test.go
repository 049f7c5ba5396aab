package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "todohub/pkg/auth"
)

func TestJWT_RoundTrip(t *testing.T) {
	jwt := NewJWT("secret", time.Hour)

	token, err := jwt.CreateToken(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := jwt.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWT("secret-a", time.Hour).CreateToken(42)
	assert.NoError(t, err)

	_, err = NewJWT("secret-b", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestJWT_RejectsExpiredToken(t *testing.T) {
	jwt := NewJWT("secret", time.Millisecond)

	token, err := jwt.CreateToken(42)
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = jwt.VerifyToken(token)
	assert.Error(t, err)
}

func TestJWT_RejectsGarbage(t *testing.T) {
	_, err := NewJWT("secret", time.Hour).VerifyToken("not-a-token")
	assert.Error(t, err)
}
