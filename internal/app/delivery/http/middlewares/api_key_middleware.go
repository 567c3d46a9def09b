package middlewares

import (
	"context"
	"net/http"

	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/exceptions"
	"heartshield-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// APIKeyAuth grants superadmin identity to internal callers presenting the
// configured key. Requests without the header fall through to the bearer
// token check unchanged.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderXAPIKey)

		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		if m.InternalConfig.App.SuperadminAPIKey == "" || apiKey != m.InternalConfig.App.SuperadminAPIKey {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		identity := &utils.IdentityClaims{
			Subject: "api-key-superadmin",
			Role:    constvars.HeartShieldRoleSuperadmin,
		}
		ctx := context.WithValue(r.Context(), constvars.CONTEXT_IDENTITY_KEY, identity)

		m.Log.Info("API key authentication successful",
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
