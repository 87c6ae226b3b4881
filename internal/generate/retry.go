package generate

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type httpStatusCoder interface {
	HTTPStatusCode() int
}

func isRetryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// isRetryable reports whether err is worth another attempt. Cancellation of
// the caller's context is handled before this is consulted.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc httpStatusCoder
	if errors.As(err, &sc) {
		return isRetryableStatus(sc.HTTPStatusCode())
	}
	return false
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	secs, err := strconv.Atoi(ra)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// backoff doubles base per attempt. A server-provided hint wins. Both are
// capped at max.
func backoff(base, max time.Duration, attempt int, hint time.Duration) time.Duration {
	d := hint
	if d <= 0 {
		d = base << attempt
		if d <= 0 {
			d = max
		}
	}
	if max > 0 && d > max {
		d = max
	}
	return d
}

// jitter spreads d by ±20%.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	delta := d.Seconds() * 0.2
	low := d.Seconds() - delta
	v := low + rand.Float64()*(2*delta)
	return time.Duration(v * float64(time.Second))
}
