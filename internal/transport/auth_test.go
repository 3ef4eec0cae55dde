package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticToken_ResolveUser(t *testing.T) {
	resolver := StaticToken{Token: "secret"}

	user, err := resolver.ResolveUser(context.Background(), "secret")
	require.NoError(t, err)
	require.Equal(t, "operador", user)

	_, err = resolver.ResolveUser(context.Background(), "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	named := StaticToken{Token: "secret", User: "maria"}
	user, err = named.ResolveUser(context.Background(), "secret")
	require.NoError(t, err)
	require.Equal(t, "maria", user)
}

func TestStaticToken_EmptyTokenRejectsAll(t *testing.T) {
	_, err := StaticToken{}.ResolveUser(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthMiddleware(t *testing.T) {
	resolver := StaticToken{Token: "token", User: "maria"}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "maria", user)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	handler := AuthMiddleware(StaticToken{Token: "token"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws?token=token", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	handler := AuthMiddleware(StaticToken{Token: "token"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer other")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Missing(t *testing.T) {
	handler := AuthMiddleware(StaticToken{Token: "token"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
