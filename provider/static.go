package provider

import (
	"context"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

// Static returns a fixed credential, synchronously, every time.
type Static struct {
	cred credential.Credential
}

// NewStatic wraps a fixed credential in a Provider.
func NewStatic(cred credential.Credential) *Static {
	return &Static{cred: cred}
}

func (s *Static) GetCredential(context.Context) *future.Future[credential.Credential] {
	return future.Resolved(s.cred, nil)
}

func (s *Static) Shutdown(context.Context) *future.Future[struct{}] {
	return resolvedShutdown()
}

func (s *Static) Description() string {
	return "static credential provider"
}

// Null always fails with no-provider. It is useful as an explicit
// terminator in a hand-assembled provider list.
type Null struct{}

func NewNull() *Null {
	return &Null{}
}

func (n *Null) GetCredential(context.Context) *future.Future[credential.Credential] {
	return future.Resolved(credential.Credential{}, noProviderErr())
}

func (n *Null) Shutdown(context.Context) *future.Future[struct{}] {
	return resolvedShutdown()
}

func (n *Null) Description() string {
	return "null credential provider"
}
