// Package tcerr defines the error taxonomy every other teco-core package
// returns: client errors, signer errors, credential errors, pagination
// errors, and the typed/raw service-error split the response decoder
// produces. Every kind here implements error; wrapping with
// github.com/pkg/errors happens at call sites that add context, not here.
package tcerr

import (
	"errors"
	"fmt"
)

// bugTrackerURL is the stable diagnostic pointer client errors point to.
const bugTrackerURL = "https://github.com/teco-project/teco-core-sub000/issues"

// ClientError is a programmer/usage error raised by the client itself
// rather than by a remote service: already being shut down, shutdown not
// supported on a shared client, or a URL that could not be parsed.
type ClientError struct {
	Kind    string
	Message string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: %s (see %s)", e.Kind, e.Message, bugTrackerURL)
}

func NewAlreadyShutDown() *ClientError {
	return &ClientError{Kind: "already-shut-down", Message: "client has already been shut down"}
}

func NewShutdownUnsupported() *ClientError {
	return &ClientError{Kind: "shutdown-unsupported", Message: "this client instance cannot be shut down"}
}

func NewInvalidURL(detail string) *ClientError {
	return &ClientError{Kind: "invalid-URL", Message: detail}
}

func NewEncodingFailed(detail string) *ClientError {
	return &ClientError{Kind: "encoding-failed", Message: detail}
}

// CredentialError covers every failure mode of credential resolution:
// chain exhaustion, profile-file parsing, OIDC inputs, and instance
// metadata polling.
type CredentialError struct {
	Kind    string
	Message string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential error (%s): %s", e.Kind, e.Message)
}

func NewNoProvider() *CredentialError {
	return &CredentialError{Kind: "no-provider", Message: "no credential provider in the chain could resolve credentials"}
}

func NewInvalidCredentialFile(detail string) *CredentialError {
	return &CredentialError{Kind: "invalid-credential-file", Message: detail}
}

func NewMissingProfile(name string) *CredentialError {
	return &CredentialError{Kind: "missing-profile", Message: fmt.Sprintf("profile %q not found", name)}
}

func NewMissingSecretID() *CredentialError {
	return &CredentialError{Kind: "missing-secret-id", Message: "profile is missing secret_id"}
}

func NewMissingSecretKey() *CredentialError {
	return &CredentialError{Kind: "missing-secret-key", Message: "profile is missing secret_key"}
}

func NewMissingProviderID() *CredentialError {
	return &CredentialError{Kind: "missing-provider-id", Message: "TKE_PROVIDER_ID is not set"}
}

func NewMissingIdentityTokenFile() *CredentialError {
	return &CredentialError{Kind: "missing-identity-token-file", Message: "TKE_IDENTITY_TOKEN_FILE is not set"}
}

func NewMissingRoleArn() *CredentialError {
	return &CredentialError{Kind: "missing-role-arn", Message: "role arn is not set"}
}

func NewCouldNotReadIdentityTokenFile(detail string) *CredentialError {
	return &CredentialError{Kind: "could-not-read-identity-token-file", Message: detail}
}

func NewUnexpectedResponseStatus(detail string) *CredentialError {
	return &CredentialError{Kind: "unexpected-response-status", Message: detail}
}

func NewCouldNotGetRoleName(detail string) *CredentialError {
	return &CredentialError{Kind: "could-not-get-role-name", Message: detail}
}

func NewCouldNotGetMetadata(detail string) *CredentialError {
	return &CredentialError{Kind: "could-not-get-metadata", Message: detail}
}

func NewMissingMetadata(detail string) *CredentialError {
	return &CredentialError{Kind: "missing-metadata", Message: detail}
}

// PaginationError covers the pagination driver's single invariant
// violation: a later page reporting a different total count than an
// earlier page.
type PaginationError struct {
	Kind    string
	Message string
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("pagination error (%s): %s", e.Kind, e.Message)
}

func NewTotalCountChanged(previous, next int64) *PaginationError {
	return &PaginationError{
		Kind:    "total-count-changed",
		Message: fmt.Sprintf("total count changed between pages: %d -> %d", previous, next),
	}
}

// Context is the error context every service and raw error carries:
// the request id (when the server returned one), a message, the HTTP
// status, and the response headers.
type Context struct {
	RequestID      string
	Message        string
	ResponseStatus int
	Headers        map[string][]string
}

// ServiceError is a recognized, typed service-side error: a response
// whose envelope carried {Error: {Code, Message}, RequestId} and whose
// Code matched a taxonomy entry (or no taxonomy was registered for it,
// in which case it is still a ServiceError, just an untyped/raw one with
// Code set verbatim).
type ServiceError struct {
	Code    string
	Context Context
}

func NewServiceError(code string, ctx Context) *ServiceError {
	return &ServiceError{Code: code, Context: ctx}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Context.Message)
}

// RawError represents a non-200 HTTP response. Message carries the raw
// body text when available. A 200 response whose body is not the
// expected envelope is a DecodingError instead.
type RawError struct {
	Message string
	Context Context
}

func (e *RawError) Error() string {
	return e.Message
}

func NewRawError(message string, ctx Context) *RawError {
	return &RawError{Message: message, Context: ctx}
}

// DecodingError surfaces a JSON-envelope parse failure distinct from a
// RawError: the HTTP status was 200, but the body was not the expected
// {"Response": ...} shape at all.
type DecodingError struct {
	Message string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding error: %s", e.Message)
}

func NewDecodingError(message string) *DecodingError {
	return &DecodingError{Message: message}
}

// AsServiceError reports whether err (or a cause in its chain, including
// one surfaced by github.com/pkg/errors' Wrap, which implements Unwrap)
// is a *ServiceError, returning it if so.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	ok := errors.As(err, &se)
	return se, ok
}

// AsRawError reports whether err (or a cause in its chain) is a
// *RawError, returning it if so.
func AsRawError(err error) (*RawError, bool) {
	var re *RawError
	ok := errors.As(err, &re)
	return re, ok
}
