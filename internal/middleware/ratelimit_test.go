package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unitravel/tour-booking-api/internal/config"
)

func TestCurrentUserIDPrefersContext(t *testing.T) {
	c := browseCtx("/v1/bookings", "/v1/bookings", map[string]string{
		"Authorization": "Bearer some-token",
	})
	c.Set("user_id", uint64(42))
	assert.Equal(t, "42", currentUserID(c))
}

func TestCurrentUserIDFallsBackToBearerHash(t *testing.T) {
	// The limiter runs before JWTAuth, so the context carries no
	// user_id yet; the bearer token must still split callers apart.
	a := currentUserID(browseCtx("/", "/", map[string]string{"Authorization": "Bearer token-a"}))
	b := currentUserID(browseCtx("/", "/", map[string]string{"Authorization": "Bearer token-b"}))
	again := currentUserID(browseCtx("/", "/", map[string]string{"Authorization": "Bearer token-a"}))

	assert.NotEqual(t, "anon", a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, again)
}

func TestCurrentUserIDAnonymous(t *testing.T) {
	assert.Equal(t, "anon", currentUserID(browseCtx("/", "/", nil)))
}

func TestBuildRateKeySplitsAuthenticatedCallers(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	k1 := buildRateKey(cfg, browseCtx("/v1/bookings", "/v1/bookings", map[string]string{"Authorization": "Bearer token-a"}))
	k2 := buildRateKey(cfg, browseCtx("/v1/bookings", "/v1/bookings", map[string]string{"Authorization": "Bearer token-b"}))
	assert.NotEqual(t, k1, k2)
}
