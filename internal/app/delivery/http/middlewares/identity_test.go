package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testMiddlewares(secret, apiKey string) *Middlewares {
	return &Middlewares{
		Log: zap.NewNop(),
		InternalConfig: &config.InternalConfig{
			App: config.App{SuperadminAPIKey: apiKey},
			JWT: config.AppJWT{Secret: secret},
		},
	}
}

func TestRequireIdentity(t *testing.T) {
	secret := "test-secret"
	m := testMiddlewares(secret, "")

	identityHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := utils.IdentityFromContext(r.Context())
		assert.True(t, ok, "identity should be in context")
		assert.Equal(t, "Patient/123", identity.Subject)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Valid Bearer Token", func(t *testing.T) {
		token, err := utils.GenerateIdentityJWT("Patient/123", "patient", secret, time.Hour)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/assessments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

		rr := httptest.NewRecorder()
		m.RequireIdentity(identityHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Missing Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/assessments", nil)

		rr := httptest.NewRecorder()
		m.RequireIdentity(identityHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Malformed Authorization Header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/assessments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Token something")

		rr := httptest.NewRecorder()
		m.RequireIdentity(identityHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Token Signed With Wrong Secret", func(t *testing.T) {
		token, err := utils.GenerateIdentityJWT("Patient/123", "patient", "other-secret", time.Hour)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/assessments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

		rr := httptest.NewRecorder()
		m.RequireIdentity(identityHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		token, err := utils.GenerateIdentityJWT("Patient/123", "patient", secret, -time.Minute)
		assert.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/v1/assessments", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

		rr := httptest.NewRecorder()
		m.RequireIdentity(identityHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	testAPIKey := "internal-key-12345"
	m := testMiddlewares("secret", testAPIKey)

	t.Run("Valid Key Grants Superadmin Identity", func(t *testing.T) {
		var captured *utils.IdentityClaims
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = utils.IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/documents", nil)
		req.Header.Set(constvars.HeaderXAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		m.APIKeyAuth(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotNil(t, captured)
		assert.Equal(t, "api-key-superadmin", captured.Subject)
		assert.Equal(t, constvars.HeartShieldRoleSuperadmin, captured.Role)
	})

	t.Run("No Key Falls Through", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.IdentityFromContext(r.Context())
			assert.False(t, ok, "no identity should be granted without a key")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/documents", nil)

		rr := httptest.NewRecorder()
		m.APIKeyAuth(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Wrong Key Is Rejected", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run")
		})

		req := httptest.NewRequest("GET", "/api/v1/documents", nil)
		req.Header.Set(constvars.HeaderXAPIKey, "wrong-key")

		rr := httptest.NewRecorder()
		m.APIKeyAuth(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Unconfigured Key Rejects All Keys", func(t *testing.T) {
		unconfigured := testMiddlewares("secret", "")
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run")
		})

		req := httptest.NewRequest("GET", "/api/v1/documents", nil)
		req.Header.Set(constvars.HeaderXAPIKey, "anything")

		rr := httptest.NewRecorder()
		unconfigured.APIKeyAuth(handler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	m := testMiddlewares("secret", "")

	t.Run("Generates Request ID When Absent", func(t *testing.T) {
		var requestID string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/health", nil)
		rr := httptest.NewRecorder()
		m.RequestIDMiddleware(handler).ServeHTTP(rr, req)

		assert.NotEmpty(t, requestID)
		assert.Contains(t, requestID, constvars.REQUEST_ID_PREFIX)
		assert.Equal(t, requestID, rr.Header().Get(constvars.HeaderXRequestID), "request ID should echo back")
	})

	t.Run("Keeps Client Supplied Request ID", func(t *testing.T) {
		var requestID string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/v1/health", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-supplied-id")
		rr := httptest.NewRecorder()
		m.RequestIDMiddleware(handler).ServeHTTP(rr, req)

		assert.Equal(t, "client-supplied-id", requestID)
	})
}
