package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

// DefaultHeadroom is the default "refresh before expiry" window.
const DefaultHeadroom = 5 * time.Minute

// Temporary wraps an ExpiringProvider, caching its credential and
// refreshing it once the cached value is within headroom of expiring. At
// most one refresh is ever in flight at a time; concurrent callers during
// a refresh all observe the same result via singleflight.
type Temporary struct {
	inner    ExpiringProvider
	headroom time.Duration
	group    singleflight.Group

	mu     sync.RWMutex
	cached credential.Expiring
	have   bool
}

// NewTemporary wraps inner with refresh-ahead-of-expiry caching. A zero
// headroom defaults to DefaultHeadroom.
func NewTemporary(inner ExpiringProvider, headroom time.Duration) *Temporary {
	if headroom <= 0 {
		headroom = DefaultHeadroom
	}
	return &Temporary{inner: inner, headroom: headroom}
}

func (t *Temporary) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	return future.Go(func() (credential.Credential, error) {
		exp, err := t.getOrRefresh(ctx)
		return exp.Credential, err
	})
}

func (t *Temporary) getOrRefresh(ctx context.Context) (credential.Expiring, error) {
	now := time.Now()

	t.mu.RLock()
	cached, have := t.cached, t.have
	t.mu.RUnlock()

	if have && !cached.IsExpiring(now, t.headroom) {
		return cached, nil
	}

	v, err, _ := t.group.Do("refresh", func() (any, error) {
		// Re-check under the singleflight key: another caller may have
		// already refreshed while we were waiting to enter Do.
		t.mu.RLock()
		cached, have := t.cached, t.have
		t.mu.RUnlock()
		if have && !cached.IsExpiring(time.Now(), t.headroom) {
			return cached, nil
		}

		fresh, err := t.inner.GetExpiringCredential(ctx).Wait(ctx)
		if err != nil {
			return credential.Expiring{}, err
		}

		t.mu.Lock()
		t.cached, t.have = fresh, true
		t.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return credential.Expiring{}, err
	}
	return v.(credential.Expiring), nil
}

func (t *Temporary) Shutdown(ctx context.Context) *future.Future[struct{}] {
	return t.inner.Shutdown(ctx)
}

func (t *Temporary) Description() string {
	return "temporary(" + t.inner.Description() + ")"
}
