package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pos_backend/internal/models"
)

func registerUser(t *testing.T, env *testEnv, h *AuthHandler, email string) {
	t.Helper()
	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/register", map[string]any{
		"name":     "Ana",
		"email":    email,
		"password": "secreto123",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHandler{DB: env.DB, JWTSecret: []byte("test"), RefreshSecret: []byte("test2"), Producer: env.producer()}

	registerUser(t, env, h, "ana@example.com")

	var user models.User
	require.NoError(t, env.DB.Where("email = ?", "ana@example.com").First(&user).Error)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "secreto123", user.PasswordHash)

	rec, c := env.doJSON(t, http.MethodPost, "/api/v1/login", map[string]any{
		"email":    "ana@example.com",
		"password": "secreto123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHandler{DB: env.DB, JWTSecret: []byte("test"), RefreshSecret: []byte("test2"), Producer: env.producer()}

	registerUser(t, env, h, "ana@example.com")

	_, c := env.doJSON(t, http.MethodPost, "/api/v1/register", map[string]any{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "otra",
	})
	requireHTTPError(t, h.Register(c), http.StatusConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHandler{DB: env.DB, JWTSecret: []byte("test"), RefreshSecret: []byte("test2"), Producer: env.producer()}

	registerUser(t, env, h, "ana@example.com")

	_, c := env.doJSON(t, http.MethodPost, "/api/v1/login", map[string]any{
		"email":    "ana@example.com",
		"password": "equivocada",
	})
	requireHTTPError(t, h.Login(c), http.StatusUnauthorized)
}

func TestPatchUserRole(t *testing.T) {
	env := newTestEnv(t)
	h := &AuthHandler{DB: env.DB, JWTSecret: []byte("test"), RefreshSecret: []byte("test2"), Producer: env.producer()}

	registerUser(t, env, h, "ana@example.com")

	rec, c := env.doJSON(t, http.MethodPatch, "/api/v1/admin/users/1/role", map[string]any{
		"role": "admin",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchUserRole(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, env.DB.First(&user, 1).Error)
	require.Equal(t, "admin", user.Role)

	_, c = env.doJSON(t, http.MethodPatch, "/api/v1/admin/users/1/role", map[string]any{
		"role": "superuser",
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	requireHTTPError(t, h.PatchUserRole(c), http.StatusBadRequest)
}
