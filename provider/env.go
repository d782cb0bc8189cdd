package provider

import (
	"context"
	"os"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

// Env reads the primary static credential environment variables:
// TENCENTCLOUD_SECRET_ID, TENCENTCLOUD_SECRET_KEY, and the optional
// TENCENTCLOUD_TOKEN. It fails with no-provider if either required
// variable is unset.
type Env struct{}

func NewEnv() *Env {
	return &Env{}
}

func (e *Env) GetCredential(context.Context) *future.Future[credential.Credential] {
	id, key := os.Getenv("TENCENTCLOUD_SECRET_ID"), os.Getenv("TENCENTCLOUD_SECRET_KEY")
	if id == "" || key == "" {
		return future.Resolved(credential.Credential{}, noProviderErr())
	}
	token := os.Getenv("TENCENTCLOUD_TOKEN")
	return future.Resolved(credential.NewWithToken(id, key, token), nil)
}

func (e *Env) Shutdown(context.Context) *future.Future[struct{}] {
	return resolvedShutdown()
}

func (e *Env) Description() string {
	return "environment credential provider (TENCENTCLOUD_SECRET_ID/KEY)"
}

// SCFEnv reads the serverless-environment variant of the same variables:
// TENCENTCLOUD_SECRETID, TENCENTCLOUD_SECRETKEY, TENCENTCLOUD_SESSIONTOKEN.
type SCFEnv struct{}

func NewSCFEnv() *SCFEnv {
	return &SCFEnv{}
}

func (e *SCFEnv) GetCredential(context.Context) *future.Future[credential.Credential] {
	id, key := os.Getenv("TENCENTCLOUD_SECRETID"), os.Getenv("TENCENTCLOUD_SECRETKEY")
	if id == "" || key == "" {
		return future.Resolved(credential.Credential{}, noProviderErr())
	}
	token := os.Getenv("TENCENTCLOUD_SESSIONTOKEN")
	return future.Resolved(credential.NewWithToken(id, key, token), nil)
}

func (e *SCFEnv) Shutdown(context.Context) *future.Future[struct{}] {
	return resolvedShutdown()
}

func (e *SCFEnv) Description() string {
	return "serverless-environment credential provider (TENCENTCLOUD_SECRETID/KEY)"
}

// DefaultRegion returns the fallback region from TENCENTCLOUD_REGION, and
// whether it was set at all.
func DefaultRegion() (string, bool) {
	r := os.Getenv("TENCENTCLOUD_REGION")
	return r, r != ""
}
