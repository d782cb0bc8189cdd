package provider_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
	"github.com/teco-project/teco-core-sub000/provider"
)

// countingExpiringProvider resolves a fresh Expiring credential on every
// call to GetExpiringCredential, counting how many times it was invoked.
type countingExpiringProvider struct {
	calls int32
	ttl   time.Duration
}

func (c *countingExpiringProvider) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	exp, err := c.GetExpiringCredential(ctx).Wait(ctx)
	return future.Resolved(exp.Credential, err)
}

func (c *countingExpiringProvider) GetExpiringCredential(context.Context) *future.Future[credential.Expiring] {
	atomic.AddInt32(&c.calls, 1)
	cred := credential.New("id", "key")
	exp := credential.NewExpiring(cred, time.Now().Add(c.ttl))
	return future.Resolved(exp, nil)
}

func (c *countingExpiringProvider) Shutdown(context.Context) *future.Future[struct{}] {
	return future.Resolved(struct{}{}, nil)
}

func (c *countingExpiringProvider) Description() string { return "counting" }

var _ = Describe("Temporary", func() {
	var ctx = context.Background()

	When("the cached credential is far from expiring", func() {
		It("does not refresh on a second call", func() {
			inner := &countingExpiringProvider{ttl: time.Hour}
			temp := provider.NewTemporary(inner, provider.DefaultHeadroom)

			_, err := temp.GetCredential(ctx).Wait(ctx)
			Expect(err).ToNot(HaveOccurred())
			_, err = temp.GetCredential(ctx).Wait(ctx)
			Expect(err).ToNot(HaveOccurred())

			Expect(atomic.LoadInt32(&inner.calls)).To(Equal(int32(1)))
		})
	})

	When("the cached credential is within the refresh headroom", func() {
		It("refreshes on the next call", func() {
			inner := &countingExpiringProvider{ttl: time.Minute}
			temp := provider.NewTemporary(inner, provider.DefaultHeadroom)

			_, err := temp.GetCredential(ctx).Wait(ctx)
			Expect(err).ToNot(HaveOccurred())
			_, err = temp.GetCredential(ctx).Wait(ctx)
			Expect(err).ToNot(HaveOccurred())

			Expect(atomic.LoadInt32(&inner.calls)).To(Equal(int32(2)))
		})
	})
})
