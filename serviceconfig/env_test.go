package serviceconfig_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teco-project/teco-core-sub000/serviceconfig"
)

func TestLoadEnvOverridesAppliesDeclaredDefaults(t *testing.T) {
	for _, key := range []string{"TC_LANGUAGE", "TC_DEBUG", "TC_TIMEOUT"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		if had {
			defer os.Setenv(key, old)
		}
	}

	o, err := serviceconfig.LoadEnvOverrides()
	require.NoError(t, err)
	assert.Equal(t, "en-US", o.Language)
	assert.False(t, o.Debug)
	assert.Equal(t, 20*time.Second, o.Timeout)
}

func TestLoadEnvOverridesReadsSetVariables(t *testing.T) {
	t.Setenv("TC_LANGUAGE", "zh-CN")
	t.Setenv("TC_DEBUG", "true")
	t.Setenv("TC_TIMEOUT", "5s")

	o, err := serviceconfig.LoadEnvOverrides()
	require.NoError(t, err)
	assert.Equal(t, "zh-CN", o.Language)
	assert.True(t, o.Debug)
	assert.Equal(t, 5*time.Second, o.Timeout)
}

func TestApplyEnvOverridesLeavesExplicitPatchFieldsAlone(t *testing.T) {
	o := &serviceconfig.EnvOverrides{Language: "zh-CN", Timeout: 5 * time.Second}

	explicit := "ja-JP"
	patch := o.ApplyEnvOverrides(serviceconfig.Patch{Language: &explicit})

	assert.Equal(t, "ja-JP", *patch.Language)
	assert.Equal(t, 5*time.Second, *patch.Timeout)
}
