package provider

import (
	"context"
	"runtime"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

// Chain tries a list of providers in order, eagerly, at construction
// time: NewChain calls GetCredential on each until one succeeds, then
// every subsequent call delegates to that chosen provider. This front-
// loads the cost of provider selection so later API calls never pay for
// a failed probe. Failure of every provider yields no-provider.
type Chain struct {
	candidates []Provider
	chosen     Provider
}

// NewChain resolves candidates in order and fixes the first one that
// succeeds.
func NewChain(ctx context.Context, candidates []Provider) *Chain {
	c := &Chain{candidates: candidates}
	for _, p := range candidates {
		if _, err := p.GetCredential(ctx).Wait(ctx); err == nil {
			c.chosen = p
			break
		}
	}
	return c
}

func (c *Chain) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	if c.chosen == nil {
		return future.Resolved(credential.Credential{}, noProviderErr())
	}
	return c.chosen.GetCredential(ctx)
}

func (c *Chain) Shutdown(ctx context.Context) *future.Future[struct{}] {
	if c.chosen == nil {
		return resolvedShutdown()
	}
	return c.chosen.Shutdown(ctx)
}

func (c *Chain) Description() string {
	if c.chosen == nil {
		return "provider chain (unresolved)"
	}
	return "provider chain -> " + c.chosen.Description()
}

// DefaultChainFactories is the platform-dependent default candidate list:
// {env, instance-metadata, oidc-sts, scf-env, profile-file, cli-profile}
// on Linux-like platforms, {env, profile-file, cli-profile} elsewhere
// (instance metadata and OIDC assume a CVM/TKE host environment that is
// Linux-only in practice).
func DefaultChainFactories(stsFactory func(roleArn, roleSessionName string) Provider, oidcInvoker STSInvoker) []Provider {
	if runtime.GOOS != "linux" {
		return []Provider{
			NewEnv(),
			NewProfile("", ""),
			NewCLIProfile("default", stsFactory),
		}
	}
	return []Provider{
		NewEnv(),
		NewInstanceMetadata(nil, ""),
		NewOIDCSTS(oidcInvoker),
		NewSCFEnv(),
		NewProfile("", ""),
		NewCLIProfile("default", stsFactory),
	}
}
