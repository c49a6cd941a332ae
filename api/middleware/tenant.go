package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/api/responses"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
)

const (
	tenantIDHeader = "X-Tenant-Id"
	buyerRefHeader = "X-Buyer-Ref"
)

// TenantContext resolves the acting tenant from the request header and makes
// it available to downstream handlers. Requests without a valid tenant id are
// rejected before they reach a controller.
func TenantContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(tenantIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant id header required"))
				return
			}
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant id must be a uuid"))
				return
			}

			ctx := WithTenantID(r.Context(), tenantID.String())
			if buyer := strings.TrimSpace(r.Header.Get(buyerRefHeader)); buyer != "" {
				ctx = WithBuyerRef(ctx, buyer)
			}
			if logg != nil {
				ctx = logg.WithTenantID(ctx, tenantID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
