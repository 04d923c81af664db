package util

import (
	"testing"
	"time"

	"habitloop_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Name:      "小明",
		Email:     "xiaoming@example.com",
		Role:      model.Member,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Member, claims.Role)
	assert.Equal(t, "xiaoming@example.com", claims.Email)
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.Member}

	token, err := GenerateJWT(user, "secret-a", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret-b")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.Member}

	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(7), MustParseUint("7"))
	assert.Equal(t, uint(0), MustParseUint("not-a-number"))
	assert.Equal(t, uint(0), MustParseUint(""))
}
