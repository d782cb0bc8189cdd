package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// metadataBaseURL is the fixed instance-metadata endpoint every CVM
// instance exposes.
const metadataBaseURL = "http://metadata.tencentyun.com/latest/meta-data/cam/security-credentials"

// metadataTimeout bounds every metadata HTTP GET.
const metadataTimeout = 2 * time.Second

// metadataRoleCredentials is the JSON body the metadata endpoint returns
// for a given role.
type metadataRoleCredentials struct {
	TmpSecretID  string `json:"TmpSecretId"`
	TmpSecretKey string `json:"TmpSecretKey"`
	Token        string `json:"Token"`
	ExpiredTime  int64  `json:"ExpiredTime"`
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// InstanceMetadata resolves credentials bound to the instance's attached
// CAM role by polling the local metadata service: first the role name
// (unless supplied), then that role's credential payload.
type InstanceMetadata struct {
	client HTTPDoer
	role   string
}

// NewInstanceMetadata builds an InstanceMetadata provider. role may be
// empty, in which case the role name is fetched from the endpoint first.
func NewInstanceMetadata(client HTTPDoer, role string) *InstanceMetadata {
	if client == nil {
		client = &http.Client{Timeout: metadataTimeout}
	}
	return &InstanceMetadata{client: client, role: role}
}

func (m *InstanceMetadata) fetch(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataBaseURL+path, nil)
	if err != nil {
		return "", tcerr.NewCouldNotGetMetadata(err.Error())
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", tcerr.NewCouldNotGetMetadata(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", tcerr.NewCouldNotGetMetadata(err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return "", tcerr.NewUnexpectedResponseStatus("status " + strconv.Itoa(resp.StatusCode) + " from " + path)
	}

	return string(body), nil
}

func (m *InstanceMetadata) resolveRole(ctx context.Context) (string, error) {
	if m.role != "" {
		return m.role, nil
	}
	role, err := m.fetch(ctx, "")
	if err != nil {
		return "", tcerr.NewCouldNotGetRoleName(err.Error())
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return "", tcerr.NewMissingMetadata("empty role name")
	}
	return role, nil
}

func (m *InstanceMetadata) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	return future.Go(func() (credential.Credential, error) {
		exp, err := m.GetExpiringCredential(ctx).Wait(ctx)
		return exp.Credential, err
	})
}

func (m *InstanceMetadata) GetExpiringCredential(ctx context.Context) *future.Future[credential.Expiring] {
	return future.Go(func() (credential.Expiring, error) {
		role, err := m.resolveRole(ctx)
		if err != nil {
			return credential.Expiring{}, err
		}

		body, err := m.fetch(ctx, "/"+role)
		if err != nil {
			return credential.Expiring{}, err
		}

		var payload metadataRoleCredentials
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			return credential.Expiring{}, tcerr.NewMissingMetadata("could not decode credential payload: " + err.Error())
		}
		if payload.TmpSecretID == "" || payload.TmpSecretKey == "" {
			return credential.Expiring{}, tcerr.NewMissingMetadata("credential payload missing TmpSecretId/TmpSecretKey")
		}

		cred := credential.NewWithToken(payload.TmpSecretID, payload.TmpSecretKey, payload.Token)
		return credential.NewExpiring(cred, time.Unix(payload.ExpiredTime, 0).UTC()), nil
	})
}

func (m *InstanceMetadata) Shutdown(context.Context) *future.Future[struct{}] {
	return resolvedShutdown()
}

func (m *InstanceMetadata) Description() string {
	return "instance-metadata credential provider"
}
