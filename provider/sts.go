package provider

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
)

var errUnexpectedSTSResponse = errors.New("unexpected STS response")

// STSInvoker is the nested-client contract an STS-backed provider calls
// through. It is satisfied by client.Client; kept as a narrow interface
// here so package provider never imports package client (which in turn
// depends on provider for its own default credential chain) — avoiding a
// construction-time cycle the design notes ask implementations to detect
// and refuse.
type STSInvoker interface {
	InvokeSTS(ctx context.Context, action string, params url.Values) (map[string]string, error)
	Shutdown(ctx context.Context) *future.Future[struct{}]
}

// STSAssumeRole exchanges an upstream credential for a short-lived one by
// invoking the AssumeRole action through a nested client configured with
// that upstream credential (so the STS call itself is signed).
type STSAssumeRole struct {
	invoker         STSInvoker
	roleArn         string
	roleSessionName string
	policy          string
	durationSeconds int
}

// STSAssumeRoleParams is the input to NewSTSAssumeRole.
type STSAssumeRoleParams struct {
	RoleArn         string
	RoleSessionName string
	Policy          string
	DurationSeconds int
}

// NewSTSAssumeRole builds an STSAssumeRole provider. invoker is a nested
// client whose own credential provider signs the AssumeRole call (an
// upstream provider, not this one — constructing one with itself as its
// own upstream is the cycle the design notes warn against).
func NewSTSAssumeRole(invoker STSInvoker, params STSAssumeRoleParams) *STSAssumeRole {
	duration := params.DurationSeconds
	if duration == 0 {
		duration = 3600
	}
	return &STSAssumeRole{
		invoker:         invoker,
		roleArn:         params.RoleArn,
		roleSessionName: params.RoleSessionName,
		policy:          params.Policy,
		durationSeconds: duration,
	}
}

func (s *STSAssumeRole) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	return future.Go(func() (credential.Credential, error) {
		exp, err := s.GetExpiringCredential(ctx).Wait(ctx)
		return exp.Credential, err
	})
}

func (s *STSAssumeRole) GetExpiringCredential(ctx context.Context) *future.Future[credential.Expiring] {
	return future.Go(func() (credential.Expiring, error) {
		params := url.Values{}
		params.Set("RoleArn", s.roleArn)
		params.Set("RoleSessionName", s.roleSessionName)
		params.Set("DurationSeconds", strconv.Itoa(s.durationSeconds))
		if s.policy != "" {
			// Policy is percent-encoded before use, per the STS wire
			// contract. InvokeSTS never form-encodes params (it reads
			// values back out with Get), so the encoding has to happen
			// here instead of relying on url.Values.Encode.
			params.Set("Policy", url.QueryEscape(s.policy))
		}

		fields, err := s.invoker.InvokeSTS(ctx, "AssumeRole", params)
		if err != nil {
			return credential.Expiring{}, wrap(err, "AssumeRole failed")
		}

		expiration, err := parseSTSExpiration(fields["Expiration"])
		if err != nil {
			return credential.Expiring{}, err
		}

		cred := credential.NewWithToken(fields["TmpSecretId"], fields["TmpSecretKey"], fields["Token"])
		return credential.NewExpiring(cred, expiration), nil
	})
}

func (s *STSAssumeRole) Shutdown(ctx context.Context) *future.Future[struct{}] {
	return s.invoker.Shutdown(ctx)
}

func (s *STSAssumeRole) Description() string {
	return "sts-assume-role credential provider (" + s.roleArn + ")"
}

func parseSTSExpiration(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, wrap(errUnexpectedSTSResponse, "AssumeRole response missing Expiration")
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, raw)
}
