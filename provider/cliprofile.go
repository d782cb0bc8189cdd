package provider

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

// cliCredentialFile is the JSON shape of ~/.tccli/<profile>.credential:
// either a static secretId/secretKey pair, or a role to assume.
type cliCredentialFile struct {
	SecretID        string `json:"secretId"`
	SecretKey       string `json:"secretKey"`
	RoleArn         string `json:"role-arn"`
	RoleSessionName string `json:"role-session-name"`
}

// CLIProfile reads a single-profile JSON file written by the tccli tool.
// If the file names a role-arn, GetCredential delegates to an internally
// constructed STS-assume-role provider instead of returning the file's
// (placeholder) static fields.
type CLIProfile struct {
	profileName string
	stsFactory  func(roleArn, roleSessionName string) Provider

	inner Provider
}

// NewCLIProfile builds a CLIProfile provider for the named tccli profile.
// stsFactory constructs the nested STS provider used when the file names
// a role to assume, typically a closure over NewSTSAssumeRole (as
// client.DefaultCredentialChain builds).
func NewCLIProfile(profileName string, stsFactory func(roleArn, roleSessionName string) Provider) *CLIProfile {
	return &CLIProfile{profileName: profileName, stsFactory: stsFactory}
}

func (p *CLIProfile) path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".tccli", p.profileName+".credential"), nil
}

func (p *CLIProfile) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	path, err := p.path()
	if err != nil {
		return future.Resolved(credential.Credential{}, noProviderErr())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return future.Resolved(credential.Credential{}, noProviderErr())
	}

	var file cliCredentialFile
	if err := json.Unmarshal(data, &file); err != nil {
		return future.Resolved(credential.Credential{}, wrap(err, "failed to parse %q", path))
	}

	if file.RoleArn != "" {
		p.inner = p.stsFactory(file.RoleArn, file.RoleSessionName)
		return p.inner.GetCredential(ctx)
	}

	if file.SecretID == "" || file.SecretKey == "" {
		return future.Resolved(credential.Credential{}, noProviderErr())
	}
	return future.Resolved(credential.New(file.SecretID, file.SecretKey), nil)
}

func (p *CLIProfile) Shutdown(ctx context.Context) *future.Future[struct{}] {
	if p.inner != nil {
		return p.inner.Shutdown(ctx)
	}
	return resolvedShutdown()
}

func (p *CLIProfile) Description() string {
	return "cli-profile credential provider (" + p.profileName + ")"
}
