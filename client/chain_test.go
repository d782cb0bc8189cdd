package client_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teco-project/teco-core-sub000/client"
	"github.com/teco-project/teco-core-sub000/region"
)

// TestDefaultCredentialChainReportsNoProviderWithoutAmbientCredentials
// exercises DefaultCredentialChain end to end with every ambient source
// (env vars, CLI profile file, instance metadata, OIDC token file)
// absent, which every candidate in the chain treats as "try the next
// one" rather than a hard error.
func TestDefaultCredentialChainReportsNoProviderWithoutAmbientCredentials(t *testing.T) {
	for _, key := range []string{
		"TENCENTCLOUD_SECRET_ID", "TENCENTCLOUD_SECRET_KEY", "TENCENTCLOUD_TOKEN",
		"TENCENTCLOUD_SECRETID", "TENCENTCLOUD_SECRETKEY", "TENCENTCLOUD_SESSIONTOKEN",
		"TENCENTCLOUD_CREDENTIALS_FILE", "TKE_PROVIDER_ID", "TKE_ROLE_ARN", "TKE_IDENTITY_TOKEN_FILE",
	} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		if had {
			defer os.Setenv(key, old)
		}
	}

	chain := client.DefaultCredentialChain(context.Background(), region.New("ap-guangzhou"))
	require.NotNil(t, chain)

	_, err := chain.GetCredential(context.Background()).Wait(context.Background())
	assert.Error(t, err)

	_, err = chain.Shutdown(context.Background()).Wait(context.Background())
	assert.NoError(t, err)
}
