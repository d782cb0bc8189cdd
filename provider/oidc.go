package provider

import (
	"context"
	"net/url"
	"os"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// OIDCSTS exchanges a Kubernetes OIDC identity token (TKE's managed
// federation surface) for a short-lived credential via an
// AssumeRoleWithWebIdentity-equivalent STS call. The call itself is
// unsigned/SKIP-authorized, since there is no credential yet to sign
// with; invoker must be a nested client configured with an empty
// credential and signing mode skip.
type OIDCSTS struct {
	invoker STSInvoker
}

// NewOIDCSTS builds an OIDCSTS provider against invoker, a nested client
// with an empty credential (signing mode skip).
func NewOIDCSTS(invoker STSInvoker) *OIDCSTS {
	return &OIDCSTS{invoker: invoker}
}

func (o *OIDCSTS) readInputs() (providerID, roleArn, tokenFilePath string, err error) {
	providerID = os.Getenv("TKE_PROVIDER_ID")
	if providerID == "" {
		return "", "", "", tcerr.NewMissingProviderID()
	}
	roleArn = os.Getenv("TKE_ROLE_ARN")
	if roleArn == "" {
		return "", "", "", tcerr.NewMissingRoleArn()
	}
	tokenFilePath = os.Getenv("TKE_IDENTITY_TOKEN_FILE")
	if tokenFilePath == "" {
		return "", "", "", tcerr.NewMissingIdentityTokenFile()
	}
	return providerID, roleArn, tokenFilePath, nil
}

func (o *OIDCSTS) GetCredential(ctx context.Context) *future.Future[credential.Credential] {
	return future.Go(func() (credential.Credential, error) {
		exp, err := o.GetExpiringCredential(ctx).Wait(ctx)
		return exp.Credential, err
	})
}

func (o *OIDCSTS) GetExpiringCredential(ctx context.Context) *future.Future[credential.Expiring] {
	return future.Go(func() (credential.Expiring, error) {
		providerID, roleArn, tokenFilePath, err := o.readInputs()
		if err != nil {
			return credential.Expiring{}, err
		}

		token, err := os.ReadFile(tokenFilePath)
		if err != nil {
			return credential.Expiring{}, tcerr.NewCouldNotReadIdentityTokenFile(wrap(err, "reading %q", tokenFilePath).Error())
		}

		params := url.Values{}
		params.Set("ProviderId", providerID)
		params.Set("RoleArn", roleArn)
		params.Set("WebIdentityToken", string(token))
		params.Set("RoleSessionName", "teco-core-oidc")

		fields, err := o.invoker.InvokeSTS(ctx, "AssumeRoleWithWebIdentity", params)
		if err != nil {
			return credential.Expiring{}, wrap(err, "AssumeRoleWithWebIdentity failed")
		}

		expiration, err := parseSTSExpiration(fields["Expiration"])
		if err != nil {
			return credential.Expiring{}, err
		}

		cred := credential.NewWithToken(fields["TmpSecretId"], fields["TmpSecretKey"], fields["Token"])
		return credential.NewExpiring(cred, expiration), nil
	})
}

func (o *OIDCSTS) Shutdown(ctx context.Context) *future.Future[struct{}] {
	return o.invoker.Shutdown(ctx)
}

func (o *OIDCSTS) Description() string {
	return "oidc-sts credential provider"
}

// OIDCRegion returns the TKE-specific region override, and whether it was
// set.
func OIDCRegion() (string, bool) {
	r := os.Getenv("TKE_REGION")
	return r, r != ""
}
