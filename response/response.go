// Package response decodes an HTTP response into either the caller's
// typed payload or one of the tcerr error kinds, per the wire envelope
// every API response shares: {"Response": {...}}.
package response

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/teco-project/teco-core-sub000/tcerr"
)

// envelope is the outer JSON shape every response wraps its payload in.
type envelope struct {
	Response json.RawMessage `json:"Response"`
}

// serviceError is the shape Response takes when the call failed.
type serviceError struct {
	Error *struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Error"`
	RequestId string `json:"RequestId"`
}

// Decode realizes §4.I: non-200 status yields a RawError, an
// undecodable envelope yields a DecodingError, a decoded {Error: ...}
// payload is resolved against taxonomy (or the platform-common
// taxonomy, or an untyped ServiceError), and everything else decodes
// as T.
func Decode[T any](resp *http.Response, taxonomy *tcerr.Taxonomy) (T, error) {
	var zero T

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		rawMessage := "Unhandled Error"
		if readErr == nil && len(body) > 0 {
			rawMessage = string(body)
		}
		return zero, tcerr.NewRawError(rawMessage, tcerr.Context{
			Message:        "Unhandled Error",
			ResponseStatus: resp.StatusCode,
			Headers:        resp.Header,
		})
	}
	if readErr != nil {
		return zero, tcerr.NewDecodingError(readErr.Error())
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, tcerr.NewDecodingError(err.Error())
	}

	var svcErr serviceError
	if err := json.Unmarshal(env.Response, &svcErr); err == nil && svcErr.Error != nil {
		ctx := tcerr.Context{
			RequestID:      svcErr.RequestId,
			Message:        svcErr.Error.Message,
			ResponseStatus: resp.StatusCode,
			Headers:        resp.Header,
		}
		return zero, tcerr.Resolve(taxonomy, svcErr.Error.Code, ctx)
	}

	var payload T
	if err := json.Unmarshal(env.Response, &payload); err != nil {
		return zero, tcerr.NewDecodingError(err.Error())
	}
	return payload, nil
}
