package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teco-project/teco-core-sub000/endpoint"
	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/request"
	"github.com/teco-project/teco-core-sub000/serviceconfig"
)

func testConfig() *serviceconfig.Config {
	return serviceconfig.New("cvm", "2017-03-12", region.New("ap-guangzhou"), endpoint.NewRegional(""))
}

func TestBuildPOSTSetsJSONContentTypeAndBody(t *testing.T) {
	env, err := request.Build(request.Input{
		Action: "DescribeInstances",
		Method: "POST",
		Body:   map[string]string{"Limit": "10"},
		Config: testConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cvm.ap-guangzhou.tencentcloudapi.com/", env.URL)
	assert.Equal(t, "application/json", env.Headers["content-type"])
	assert.Equal(t, "DescribeInstances", env.Headers["x-tc-action"])
	assert.Equal(t, "2017-03-12", env.Headers["x-tc-version"])
	assert.Equal(t, "ap-guangzhou", env.Headers["x-tc-region"])
	assert.Equal(t, request.UserAgent, env.Headers["user-agent"])
	assert.JSONEq(t, `{"Limit":"10"}`, string(env.Body))
}

func TestBuildGETSetsFormContentTypeAndNoBody(t *testing.T) {
	env, err := request.Build(request.Input{
		Action: "DescribeInstances",
		Method: "GET",
		Config: testConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", env.Headers["content-type"])
	assert.Empty(t, env.Body)
}

func TestBuildPerCallRegionOverridesConfigDefault(t *testing.T) {
	env, err := request.Build(request.Input{
		Action: "DescribeInstances",
		Method: "POST",
		Region: region.New("ap-shanghai"),
		Config: testConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "ap-shanghai", env.Headers["x-tc-region"])
	assert.Equal(t, "https://cvm.ap-shanghai.tencentcloudapi.com/", env.URL)
}

func TestBuildWithByteSliceBodySendsItVerbatim(t *testing.T) {
	env, err := request.Build(request.Input{
		Action: "PutObject",
		Method: "POST",
		Body:   []byte{0x00, 0xff, 0x10, 0x02},
		Config: testConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "application/octet-stream", env.Headers["content-type"])
	assert.Equal(t, []byte{0x00, 0xff, 0x10, 0x02}, env.Body)
}

func TestBuildWithEmptyHostFails(t *testing.T) {
	_, err := request.Build(request.Input{
		Action: "DescribeInstances",
		Method: "POST",
		Config: serviceconfig.New("cvm", "2017-03-12", region.Region{}, endpoint.Func{
			Fn:   func(service string, r region.Region) string { return "" },
			Desc: "empty",
		}),
	})
	assert.Error(t, err)
}
