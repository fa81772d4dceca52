package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWTAuth_TokenRoundTrip(t *testing.T) {
	a := NewJWTAuth("test-secret", time.Hour)

	token, err := a.IssueToken(42, time.Now())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := a.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestJWTAuth_RejectsWrongSecret(t *testing.T) {
	issued, err := NewJWTAuth("secret-a", time.Hour).IssueToken(42, time.Now())
	assert.NoError(t, err)

	_, err = NewJWTAuth("secret-b", time.Hour).ParseToken(issued)
	assert.Error(t, err)
}

func TestJWTAuth_RejectsExpiredToken(t *testing.T) {
	a := NewJWTAuth("test-secret", time.Minute)

	token, err := a.IssueToken(42, time.Now().Add(-time.Hour))
	assert.NoError(t, err)

	_, err = a.ParseToken(token)
	assert.Error(t, err)
}
