package ratelimit

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
	"github.com/sahaya-relief/camp-api/pkg/response"
)

// Middleware throttles requests per client IP using an in-memory store.
// rate uses the limiter format, e.g. "30-M" for thirty requests a minute.
func Middleware(rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}
	instance := limiter.New(memory.NewStore(), parsed)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			response.Error(c, appErrors.Internal(err, "rate limiter unavailable"))
			c.Abort()
		}),
	), nil
}
