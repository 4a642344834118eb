package service

import (
	"testing"
	"time"

	"go-hpp-engine/internal/repository"
	"go-hpp-engine/pkg/apperror"
	"go-hpp-engine/pkg/database"
	"go-hpp-engine/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (AuthService, *jwt.Manager) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	tokens := jwt.NewManager("test-secret", "go-hpp-engine", time.Hour)
	return NewAuthService(repository.NewUserRepo(db), tokens, nil), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t)

	resp, err := svc.Register(RegisterRequest{Email: " Sari@Warung.id ", Password: "rahasia123", FullName: "Sari", BusinessName: "Warung Sari"})
	require.NoError(t, err)
	assert.Equal(t, "sari@warung.id", resp.User.Email)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.Register(RegisterRequest{Email: "sari@warung.id", Password: "rahasia123", FullName: "Sari lagi"})
	mustCode(t, err, apperror.CodeConflict)

	_, err = svc.Login("sari@warung.id", "salah")
	mustCode(t, err, apperror.CodeUnauthorized)

	again, err := svc.Login("sari@warung.id", "rahasia123")
	require.NoError(t, err)
	newClaims, err := tokens.ValidateToken(again.Token)
	require.NoError(t, err)
	assert.NotEqual(t, claims.TokenVersion, newClaims.TokenVersion, "login rotates the session")

	me, err := svc.Me(resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Warung Sari", me.BusinessName)
}

func TestRegisterValidates(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(RegisterRequest{Email: "bukan-email", Password: "pendek", FullName: ""})
	mustCode(t, err, apperror.CodeValidation)
}
