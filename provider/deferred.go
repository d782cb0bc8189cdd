package provider

import (
	"context"
	"sync"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

// Deferred memoizes an inner provider's first resolution. Construction
// immediately launches that resolution on a goroutine; every subsequent
// call to GetCredential either observes the cached success or waits on
// the same in-flight future. A failed inner resolution is reported as
// no-provider and is not retried — Deferred has no TTL; wrap it in
// Temporary for that.
type Deferred struct {
	inner Provider
	first *future.Future[credential.Credential]

	mu       sync.Mutex
	resolved bool
	val      credential.Credential
	failed   bool
}

// NewDeferred wraps inner and eagerly launches its first resolution.
func NewDeferred(ctx context.Context, inner Provider) *Deferred {
	d := &Deferred{inner: inner}
	d.first = inner.GetCredential(ctx)
	return d
}

func (d *Deferred) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	d.mu.Lock()
	if d.resolved {
		val, failed := d.val, d.failed
		d.mu.Unlock()
		if failed {
			return future.Resolved(credential.Credential{}, noProviderErr())
		}
		return future.Resolved(val, nil)
	}
	d.mu.Unlock()

	return future.Go(func() (credential.Credential, error) {
		val, err := d.first.Wait(ctx)

		d.mu.Lock()
		d.resolved = true
		d.val = val
		d.failed = err != nil
		d.mu.Unlock()

		if err != nil {
			return credential.Credential{}, noProviderErr()
		}
		return val, nil
	})
}

func (d *Deferred) Shutdown(ctx context.Context) *future.Future[struct{}] {
	return d.inner.Shutdown(ctx)
}

func (d *Deferred) Description() string {
	return "deferred(" + d.inner.Description() + ")"
}
