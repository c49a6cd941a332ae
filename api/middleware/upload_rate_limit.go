package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/madebuy/madebuy-backend/api/responses"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// UploadRateLimitPolicy defines the per-tenant throttle for upload traffic.
type UploadRateLimitPolicy struct {
	window time.Duration
	limit  int
}

// NewUploadRateLimitPolicy builds a policy with the supplied window and limit.
func NewUploadRateLimitPolicy(window time.Duration, limit int) UploadRateLimitPolicy {
	return UploadRateLimitPolicy{window: window, limit: limit}
}

func (p UploadRateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

func (p UploadRateLimitPolicy) key(tenantID string) string {
	if tenantID == "" {
		return ""
	}
	return fmt.Sprintf("rl:upload:%s", tenantID)
}

// UploadRateLimit enforces a fixed-window counter per tenant on file uploads.
func UploadRateLimit(policy UploadRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := policy.key(TenantIDFromContext(ctx))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			count, err := store.IncrWithTTL(ctx, key, policy.window)
			if err != nil {
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if count > int64(policy.limit) {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "upload.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
