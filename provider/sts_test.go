package provider_test

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teco-project/teco-core-sub000/future"
	"github.com/teco-project/teco-core-sub000/provider"
)

type capturingSTSInvoker struct {
	gotParams url.Values
	fields    map[string]string
	err       error
}

func (c *capturingSTSInvoker) InvokeSTS(ctx context.Context, action string, params url.Values) (map[string]string, error) {
	c.gotParams = params
	return c.fields, c.err
}

func (c *capturingSTSInvoker) Shutdown(ctx context.Context) *future.Future[struct{}] {
	return future.Resolved(struct{}{}, nil)
}

func TestSTSAssumeRolePercentEncodesPolicyBeforeSending(t *testing.T) {
	rawPolicy := `{"version":"2.0","statement":[{"effect":"allow"}]}`
	invoker := &capturingSTSInvoker{
		fields: map[string]string{
			"TmpSecretId":  "id",
			"TmpSecretKey": "key",
			"Token":        "tok",
			"Expiration":   strconv.FormatInt(time.Now().Unix(), 10),
		},
	}

	sts := provider.NewSTSAssumeRole(invoker, provider.STSAssumeRoleParams{
		RoleArn:         "qcs::cam::uin/1:role/role-name",
		RoleSessionName: "session",
		Policy:          rawPolicy,
	})

	_, err := sts.GetCredential(context.Background()).Wait(context.Background())
	require.NoError(t, err)

	require.NotNil(t, invoker.gotParams)
	assert.Equal(t, url.QueryEscape(rawPolicy), invoker.gotParams.Get("Policy"))
	assert.NotEqual(t, rawPolicy, invoker.gotParams.Get("Policy"))
}

func TestSTSAssumeRoleOmitsPolicyWhenUnset(t *testing.T) {
	invoker := &capturingSTSInvoker{
		fields: map[string]string{
			"TmpSecretId":  "id",
			"TmpSecretKey": "key",
			"Token":        "tok",
			"Expiration":   strconv.FormatInt(time.Now().Unix(), 10),
		},
	}

	sts := provider.NewSTSAssumeRole(invoker, provider.STSAssumeRoleParams{
		RoleArn:         "qcs::cam::uin/1:role/role-name",
		RoleSessionName: "session",
	})

	_, err := sts.GetCredential(context.Background()).Wait(context.Background())
	require.NoError(t, err)

	assert.False(t, invoker.gotParams.Has("Policy"))
}
