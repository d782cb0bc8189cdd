package endpoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teco-project/teco-core-sub000/endpoint"
	"github.com/teco-project/teco-core-sub000/region"
)

func TestRegionalResolve(t *testing.T) {
	s := endpoint.NewRegional("")
	got := s.Resolve("cvm", region.New("ap-guangzhou"))
	assert.Equal(t, "https://cvm.ap-guangzhou.tencentcloudapi.com", got)
}

func TestRegionalResolveIsPure(t *testing.T) {
	s := endpoint.NewRegional("")
	r := region.New("ap-shanghai")
	first := s.Resolve("cvm", r)
	second := s.Resolve("cvm", r)
	assert.Equal(t, first, second)
}

func TestGlobalPreferredFallsBackForRegionalRegion(t *testing.T) {
	s := endpoint.NewGlobalPreferred("")
	got := s.Resolve("region", region.New("ap-guangzhou"))
	assert.Equal(t, "https://region.ap-guangzhou.tencentcloudapi.com", got)
}

func TestGlobalPreferredUsesGlobalForZeroRegion(t *testing.T) {
	s := endpoint.NewGlobalPreferred("")
	got := s.Resolve("region", region.Region{})
	assert.Equal(t, "https://region.tencentcloudapi.com", got)
}

func TestStaticRejectsNonHTTPScheme(t *testing.T) {
	_, err := endpoint.NewStatic("ftp://example.com")
	require.Error(t, err)
}

func TestStaticAcceptsHTTPS(t *testing.T) {
	s, err := endpoint.NewStatic("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", s.Resolve("anything", region.Region{}))
}

func TestPinnedRegionalIgnoresCallSiteRegion(t *testing.T) {
	s := endpoint.NewPinnedRegional("", region.New("ap-guangzhou"))
	got := s.Resolve("cvm", region.New("ap-shanghai"))
	assert.Equal(t, "https://cvm.ap-guangzhou.tencentcloudapi.com", got)
}
