// Package retry decides retry-or-fail plus backoff wait, given an error
// and the current attempt index.
package retry

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/teco-project/teco-core-sub000/tcerr"
)

// DefaultMaxRetries and DefaultBase are the standard policies' shared
// upper bound and base duration.
const (
	DefaultMaxRetries = 4
	DefaultBase       = time.Second
)

// Decision is the outcome of Policy.Decide.
type Decision struct {
	Retry bool
	Wait  time.Duration
}

// stop is the canonical non-retry decision.
var stop = Decision{Retry: false}

// Classified is the input Decide classifies: either a transport-level
// error, or a decoded service/raw error carrying HTTP status and headers.
type Classified struct {
	Err            error
	HTTPStatus     int
	Headers        http.Header
	IsTransportErr bool
	// DebugBuild gates the "retry on remote connection closed" transport
	// rule, which the source only enables in debug builds.
	DebugBuild bool
}

// Policy decides whether to retry and how long to wait.
type Policy interface {
	Decide(c Classified, attempt int) Decision
}

// Backoff computes the wait duration for a given attempt index, given
// base and assuming the caller has already decided to retry.
type Backoff func(base time.Duration, attempt int) time.Duration

// Exponential backoff: wait = base * 2^attempt.
func Exponential(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<uint(attempt))
}

// JitteredExponential backoff (the default): wait is drawn uniformly
// from [base*2^attempt/2, base*2^attempt), smoothing thundering-herd
// retries across concurrent callers.
func JitteredExponential(base time.Duration, attempt int) time.Duration {
	full := base * time.Duration(1<<uint(attempt))
	half := full / 2
	if full <= half {
		return half
	}
	span := full - half
	return half + time.Duration(rand.Int63n(int64(span)))
}

// Standard is the shared retry classification logic (§4.G), parameterized
// by a Backoff and the upper bound/base duration.
type Standard struct {
	MaxRetries int
	Base       time.Duration
	Backoff    Backoff
}

// NewDefault returns the default policy: jittered exponential backoff,
// base 1s, max 4 retries.
func NewDefault() Standard {
	return Standard{MaxRetries: DefaultMaxRetries, Base: DefaultBase, Backoff: JitteredExponential}
}

// NewExponential returns a Standard policy using plain exponential
// backoff instead of jittered.
func NewExponential() Standard {
	return Standard{MaxRetries: DefaultMaxRetries, Base: DefaultBase, Backoff: Exponential}
}

func (p Standard) Decide(c Classified, attempt int) Decision {
	if attempt >= p.MaxRetries {
		return stop
	}

	if se, ok := tcerr.AsServiceError(c.Err); ok {
		if se.Code == "RequestLimitExceeded" {
			if wait, ok := retryAfter(c.Headers); ok {
				return Decision{Retry: true, Wait: wait}
			}
			return Decision{Retry: true, Wait: p.Backoff(p.Base, attempt)}
		}
		if wait, ok := retryAfter(c.Headers); ok {
			return Decision{Retry: true, Wait: wait}
		}
		if se.Code == "InternalError" {
			return Decision{Retry: true, Wait: p.Backoff(p.Base, attempt)}
		}
		return stop
	}

	if _, ok := tcerr.AsRawError(c.Err); ok {
		return stop
	}

	if c.IsTransportErr && c.DebugBuild && isRemoteConnectionClosed(c.Err) {
		return Decision{Retry: true, Wait: p.Backoff(p.Base, attempt)}
	}

	return stop
}

func retryAfter(h http.Header) (time.Duration, bool) {
	if h == nil {
		return 0, false
	}
	v := h.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func isRemoteConnectionClosed(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, sub := range []string{"connection reset by peer", "use of closed network connection", "EOF"} {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}

// NoRetry always returns stop, unconditionally.
type NoRetry struct{}

func (NoRetry) Decide(Classified, int) Decision {
	return stop
}
