package provider

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// Profile resolves credentials from an INI-formatted profile file,
// selecting a named section ("[profile]\nsecret_id=...\nsecret_key=...").
//
// Search order for the file path, first non-empty wins: an explicit
// override passed to NewProfile, TENCENTCLOUD_CREDENTIALS_FILE,
// ~/.tencentcloud/credentials, /etc/tencentcloud/credentials.
type Profile struct {
	path        string
	profileName string
}

// NewProfile builds a Profile provider. path and profileName may be
// empty, in which case the file search order above and the section name
// "default" apply.
func NewProfile(path, profileName string) *Profile {
	if profileName == "" {
		profileName = "default"
	}
	return &Profile{path: path, profileName: profileName}
}

func (p *Profile) resolvePath() (string, bool) {
	if p.path != "" {
		return p.path, true
	}
	if env := os.Getenv("TENCENTCLOUD_CREDENTIALS_FILE"); env != "" {
		return env, true
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".tencentcloud", "credentials")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	const systemWide = "/etc/tencentcloud/credentials"
	if _, err := os.Stat(systemWide); err == nil {
		return systemWide, true
	}
	return "", false
}

func (p *Profile) GetCredential(context.Context) *future.Future[credential.Credential] {
	path, ok := p.resolvePath()
	if !ok {
		return future.Resolved(credential.Credential{}, noProviderErr())
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return future.Resolved(credential.Credential{}, tcerr.NewInvalidCredentialFile(errors.Wrapf(err, "failed to parse %q", path).Error()))
	}

	if !cfg.HasSection(p.profileName) {
		return future.Resolved(credential.Credential{}, tcerr.NewMissingProfile(p.profileName))
	}
	section := cfg.Section(p.profileName)

	secretID := section.Key("secret_id").String()
	if secretID == "" {
		return future.Resolved(credential.Credential{}, tcerr.NewMissingSecretID())
	}
	secretKey := section.Key("secret_key").String()
	if secretKey == "" {
		return future.Resolved(credential.Credential{}, tcerr.NewMissingSecretKey())
	}

	return future.Resolved(credential.New(secretID, secretKey), nil)
}

func (p *Profile) Shutdown(context.Context) *future.Future[struct{}] {
	return resolvedShutdown()
}

func (p *Profile) Description() string {
	return "profile-file credential provider (" + p.profileName + ")"
}
