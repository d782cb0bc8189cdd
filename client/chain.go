package client

import (
	"context"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/endpoint"
	"github.com/teco-project/teco-core-sub000/future"
	"github.com/teco-project/teco-core-sub000/provider"
	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/serviceconfig"
	"github.com/teco-project/teco-core-sub000/signer"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// stsServiceVersion is the API version the STS nested client is built
// against; STS itself is a global service, so its endpoint strategy
// ignores region.
const stsServiceVersion = "2018-08-13"

// DefaultCredentialChain builds the platform-dependent default provider
// chain (§4.F "Default chain"), wiring each STS- or OIDC-backed
// candidate to its own nested Client: an unsigned one (mode skip) for
// OIDC's AssumeRoleWithWebIdentity call, since there is no credential
// yet to sign with, and one signed by the environment provider for
// STS-assume-role, since a role-assumption call must itself be
// authenticated by some upstream credential.
//
// The nested clients this constructs are never handed back to the
// caller. provider.Chain.Shutdown only tears down the candidate it
// ultimately selected, which in the common case (the env provider
// winning) is neither of them, so DefaultCredentialChain wraps the
// chain in defaultChain to also close both nested clients directly on
// Shutdown, regardless of which candidate was chosen.
func DefaultCredentialChain(ctx context.Context, r region.Region) provider.Provider {
	stsConfig := serviceconfig.New("sts", stsServiceVersion, r, endpoint.NewGlobal(""))

	unsignedSTSClient := New(stsConfig, provider.NewStatic(credential.Credential{}), WithSigningMode(signer.ModeSkip), WithCanBeShutdown(true))

	envUpstream := provider.NewEnv()
	signedSTSClient := New(stsConfig, envUpstream, WithCanBeShutdown(true))

	stsFactory := func(roleArn, roleSessionName string) provider.Provider {
		return provider.NewSTSAssumeRole(signedSTSClient, provider.STSAssumeRoleParams{
			RoleArn:         roleArn,
			RoleSessionName: roleSessionName,
		})
	}

	candidates := provider.DefaultChainFactories(stsFactory, unsignedSTSClient)
	chain := provider.NewChain(ctx, candidates)

	return &defaultChain{
		Chain:  chain,
		nested: []*Client{unsignedSTSClient, signedSTSClient},
	}
}

// defaultChain wraps a provider.Chain to additionally own the nested STS
// clients DefaultCredentialChain built for it, since the chain itself
// only shuts down whichever single candidate it selected.
type defaultChain struct {
	*provider.Chain
	nested []*Client
}

// Shutdown tears down the selected candidate, then each nested client in
// turn. A nested client already torn down via the selected candidate's
// own Shutdown reports already-shut-down here, which is expected rather
// than a real failure and is not propagated.
func (d *defaultChain) Shutdown(ctx context.Context) *future.Future[struct{}] {
	return future.Go(func() (struct{}, error) {
		_, firstErr := d.Chain.Shutdown(ctx).Wait(ctx)
		if ce, ok := firstErr.(*tcerr.ClientError); ok && ce.Kind == "already-shut-down" {
			firstErr = nil
		}

		for _, c := range d.nested {
			_, err := c.Shutdown(ctx).Wait(ctx)
			if ce, ok := err.(*tcerr.ClientError); ok && ce.Kind == "already-shut-down" {
				continue
			}
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return struct{}{}, firstErr
	})
}
