// Package provider implements the pluggable, chained credential-provider
// system: static, environment, profile-file, CLI-profile,
// instance-metadata, OIDC-with-STS, and STS-assume-role providers, plus
// the Deferred and Temporary memoization wrappers and the Chain selector.
package provider

import (
	"context"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

// Logger is the contextual, structured logging contract every provider
// that does I/O logs through.
type Logger interface {
	Info(ctx context.Context, msg string, kv ...any)
	Debug(ctx context.Context, msg string, kv ...any)
	Trace(ctx context.Context, msg string, kv ...any)
	Error(ctx context.Context, msg string, err error, kv ...any)
}

// NopLogger discards every call. Useful as a default when a caller does
// not supply one.
type NopLogger struct{}

func (NopLogger) Info(context.Context, string, ...any) {}
func (NopLogger) Debug(context.Context, string, ...any) {}
func (NopLogger) Trace(context.Context, string, ...any) {}
func (NopLogger) Error(context.Context, string, error, ...any) {}

// Provider resolves an effective credential at call time and releases any
// nested resources it owns (e.g. an STS/OIDC provider's nested client) on
// Shutdown.
type Provider interface {
	GetCredential(ctx context.Context) *future.Future[credential.Credential]
	Shutdown(ctx context.Context) *future.Future[struct{}]
	Description() string
}

// ExpiringProvider is implemented by providers whose credential carries
// an expiration instant: instance metadata, OIDC-STS, and STS-assume-role.
// Temporary wraps an ExpiringProvider to add refresh-ahead-of-expiry
// semantics; GetCredential on these providers still satisfies Provider by
// projecting away the expiration.
type ExpiringProvider interface {
	Provider
	GetExpiringCredential(ctx context.Context) *future.Future[credential.Expiring]
}

// shutdownOK is the canonical value Shutdown futures resolve with on
// success.
var shutdownOK = struct{}{}

// resolvedShutdown returns an already-complete, successful shutdown
// future, the common case for providers with no nested resource.
func resolvedShutdown() *future.Future[struct{}] {
	return future.Resolved(shutdownOK, nil)
}
