package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/appscope/appscope/internal/errors"
)

// Throttle rejects requests beyond rps (with the given burst) with 429
// RATE_LIMITED. It guards the API surface only; outbound catalog calls are
// paced separately by the shared sliding-window limiter. rps <= 0 disables
// the throttle.
func Throttle(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reservation := limiter.Reserve()
			if reservation.OK() && reservation.Delay() == 0 {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := time.Second
			if reservation.OK() {
				retryAfter = reservation.Delay()
				reservation.Cancel()
			}

			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			apperrors.RespondWithEnvelope(w, r, apperrors.NewRateLimitedError("too many requests"))
		})
	}
}
