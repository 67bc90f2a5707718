package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator maps literal token strings to user IDs.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]uuid.UUID)}
}

func (v *testTokenValidator) addValidToken(token string, userID uuid.UUID) {
	v.validTokens[token] = userID
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{userID: userID}, nil
}

type testClaims struct {
	userID uuid.UUID
}

func (c *testClaims) GetUserID() uuid.UUID {
	return c.userID
}

// serveAuth runs a request with the given Authorization header through the
// middleware and reports whether the inner handler ran.
func serveAuth(validator TokenValidator, authHeader string) (*httptest.ResponseRecorder, bool, uuid.UUID) {
	handlerCalled := false
	var contextUserID uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		contextUserID, _ = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	AuthMiddleware(validator)(handler).ServeHTTP(w, req)
	return w, handlerCalled, contextUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("plan-api-session-token", userID)

	w, handlerCalled, contextUserID := serveAuth(validator, "Bearer plan-api-session-token")

	assert.True(t, handlerCalled, "handler should run for a valid token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, contextUserID)
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.addValidToken("plan-api-session-token", userID)

	for _, prefix := range []string{"bearer", "BEARER", "BeArEr"} {
		t.Run(prefix, func(t *testing.T) {
			w, handlerCalled, contextUserID := serveAuth(validator, prefix+" plan-api-session-token")
			assert.True(t, handlerCalled)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, userID, contextUserID)
		})
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	w, handlerCalled, _ := serveAuth(newTestTokenValidator(), "")

	assert.False(t, handlerCalled, "handler should not run without a header")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"missing Bearer prefix", "sessiontoken"},
		{"empty token", "Bearer "},
		{"only Bearer", "Bearer"},
		{"unknown token", "Bearer unknown-token"},
		{"wrong signature", "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoiMTIzIn0.invalid"},
		{"malformed token", "Bearer not.a.valid.jwt.token"},
		// An unknown token stands in for the expired case; real expiry
		// needs clock control and belongs to integration tests.
		{"expired token", "Bearer invalid.expired.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, handlerCalled, _ := serveAuth(newTestTokenValidator(), tt.authHeader)
			assert.False(t, handlerCalled, "handler should not run")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
		})
	}
}

func TestGetUserID_Success(t *testing.T) {
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, userID))

	extracted, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, extracted)
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)

	userID, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, userID)
	assert.Contains(t, err.Error(), "user ID not found")
}

func TestGetUserID_WrongContextValueType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "not-a-uuid"))

	userID, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, userID)
}
