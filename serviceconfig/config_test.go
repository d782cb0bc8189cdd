package serviceconfig_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teco-project/teco-core-sub000/endpoint"
	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/serviceconfig"
)

func TestWithEmptyPatchPreservesDefaultEndpoint(t *testing.T) {
	cfg := serviceconfig.New("cvm", "2017-03-12", region.New("ap-guangzhou"), endpoint.NewRegional(""))

	derived := cfg.With(serviceconfig.Patch{})

	assert.Equal(t, cfg.DefaultEndpoint(), derived.DefaultEndpoint())
	assert.Equal(t, cfg.Service, derived.Service)
	assert.Equal(t, cfg.Region, derived.Region)
}

func TestWithRegionRecomputesDefaultEndpoint(t *testing.T) {
	cfg := serviceconfig.New("cvm", "2017-03-12", region.New("ap-guangzhou"), endpoint.NewRegional(""))

	newRegion := region.New("ap-shanghai")
	derived := cfg.With(serviceconfig.Patch{Region: &newRegion})

	assert.Equal(t, "https://cvm.ap-shanghai.tencentcloudapi.com", derived.DefaultEndpoint())
	assert.Equal(t, "https://cvm.ap-guangzhou.tencentcloudapi.com", cfg.DefaultEndpoint())
}

func TestWithTimeoutOnlyLeavesEndpointAlone(t *testing.T) {
	cfg := serviceconfig.New("cvm", "2017-03-12", region.New("ap-guangzhou"), endpoint.NewRegional(""))
	timeout := 5 * time.Second

	derived := cfg.With(serviceconfig.Patch{Timeout: &timeout})

	assert.Equal(t, timeout, derived.Timeout)
	assert.Equal(t, cfg.DefaultEndpoint(), derived.DefaultEndpoint())
}

func TestDefaultTimeoutIsTwentySeconds(t *testing.T) {
	cfg := serviceconfig.New("cvm", "2017-03-12", region.New("ap-guangzhou"), endpoint.NewRegional(""))
	assert.Equal(t, 20*time.Second, cfg.Timeout)
}
