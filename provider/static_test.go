package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/provider"
)

func TestStaticReturnsFixedCredential(t *testing.T) {
	ctx := context.Background()
	cred := credential.New("id", "key")
	p := provider.NewStatic(cred)

	got, err := p.GetCredential(ctx).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, cred, got)
}

func TestNullAlwaysFails(t *testing.T) {
	ctx := context.Background()
	p := provider.NewNull()

	_, err := p.GetCredential(ctx).Wait(ctx)
	require.Error(t, err)
}

func TestEnvFailsWhenUnset(t *testing.T) {
	ctx := context.Background()
	t.Setenv("TENCENTCLOUD_SECRET_ID", "")
	t.Setenv("TENCENTCLOUD_SECRET_KEY", "")

	p := provider.NewEnv()
	_, err := p.GetCredential(ctx).Wait(ctx)
	require.Error(t, err)
}

func TestEnvResolvesWhenSet(t *testing.T) {
	ctx := context.Background()
	t.Setenv("TENCENTCLOUD_SECRET_ID", "id")
	t.Setenv("TENCENTCLOUD_SECRET_KEY", "key")
	t.Setenv("TENCENTCLOUD_TOKEN", "tok")

	p := provider.NewEnv()
	got, err := p.GetCredential(ctx).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, credential.NewWithToken("id", "key", "tok"), got)
}
