package middlewares

import (
	"context"
	"net/http"
	"strings"

	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/exceptions"
	"heartshield-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// RequireIdentity admits requests carrying a gateway-signed bearer token and
// injects the caller identity into context. Authentication itself happens
// upstream; this service only verifies the gateway's signature. Requests
// already granted an identity by APIKeyAuth pass through untouched.
func (m *Middlewares) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.IdentityFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(constvars.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		identity, err := utils.ParseIdentityJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			m.Log.Warn("identity token rejected",
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_IDENTITY_KEY, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
