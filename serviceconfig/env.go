package serviceconfig

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvOverrides is the ambient, process-wide configuration a calling
// application may set through the environment instead of code, tagged
// for github.com/kelseyhightower/envconfig the same way objsto tags its
// own Config for the library its launcher uses.
type EnvOverrides struct {
	Language string        `envconfig:"LANGUAGE" default:"en-US"`
	Debug    bool          `envconfig:"DEBUG" default:"false"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"20s"`
}

// LoadEnvOverrides reads TC_LANGUAGE, TC_DEBUG, and TC_TIMEOUT, applying
// each variable's declared default when unset.
func LoadEnvOverrides() (*EnvOverrides, error) {
	var e EnvOverrides
	if err := envconfig.Process("TC", &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ApplyEnvOverrides folds o into patch, leaving fields patch already set
// untouched so an explicit caller override always wins over the
// environment.
func (o *EnvOverrides) ApplyEnvOverrides(patch Patch) Patch {
	if patch.Language == nil {
		patch.Language = &o.Language
	}
	if patch.Timeout == nil {
		patch.Timeout = &o.Timeout
	}
	return patch
}
