// Package request builds the outbound HTTP envelope for one API call:
// resolving the endpoint URL, JSON-encoding the body, and initializing
// the common headers a signer later mutates in place.
package request

import (
	"encoding/json"
	"net/url"

	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/serviceconfig"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// UserAgent is the fixed value every envelope's user-agent header carries.
const UserAgent = "Teco/0.1"

// Input is what the executor supplies to Build for a single call.
type Input struct {
	Action string
	Path   string
	Region region.Region
	Method string
	Body   any
	Config *serviceconfig.Config
}

// Envelope is the unsigned HTTP request a signer mutates (authorization,
// x-tc-*, host) before dispatch.
type Envelope struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Build realizes §4.H: resolve the URL, encode the body, initialize
// headers. Signing happens later and is not this package's concern.
func Build(in Input) (*Envelope, error) {
	path := in.Path
	if path == "" {
		path = "/"
	}

	raw := in.Config.GetEndpoint(in.Region) + path
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, tcerr.NewInvalidURL(err.Error())
	}
	if parsed.Host == "" {
		return nil, tcerr.NewInvalidURL("resolved endpoint has an empty host: " + raw)
	}

	var body []byte
	isRawBody := false
	if rawBody, ok := in.Body.([]byte); ok {
		body = rawBody
		isRawBody = true
	} else if in.Body != nil {
		body, err = json.Marshal(in.Body)
		if err != nil {
			return nil, tcerr.NewEncodingFailed("failed to encode request body: " + err.Error())
		}
	}

	headers := map[string]string{
		"x-tc-action":  in.Action,
		"x-tc-version": in.Config.Version,
		"user-agent":   UserAgent,
	}

	effectiveRegion := in.Region
	if effectiveRegion.IsZero() {
		effectiveRegion = in.Config.Region
	}
	if !effectiveRegion.IsZero() {
		headers["x-tc-region"] = effectiveRegion.ID()
	}

	if in.Config.Language != "" {
		headers["x-tc-language"] = in.Config.Language
	}

	switch {
	case isRawBody:
		headers["content-type"] = "application/octet-stream"
	case in.Method == "POST":
		headers["content-type"] = "application/json"
	case in.Method == "GET":
		headers["content-type"] = "application/x-www-form-urlencoded"
	}

	return &Envelope{
		Method:  in.Method,
		URL:     parsed.String(),
		Headers: headers,
		Body:    body,
	}, nil
}
