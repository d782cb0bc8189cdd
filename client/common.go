package client

import "context"

// CommonRequest is the schema-free escape hatch for calling an action
// the generated per-service packages do not (yet) cover: map-based
// parameters instead of a typed input model, with an optional raw
// octet-stream body in place of the JSON encoding Execute applies to a
// typed Body.
type CommonRequest struct {
	Action string
	Path   string
	Method string
	Params map[string]string
	// OctetStreamBody, when non-nil, is sent verbatim as
	// application/octet-stream instead of JSON-encoding Params.
	OctetStreamBody []byte
}

// CommonResponse is the untyped decode target InvokeCommon produces:
// the caller inspects Payload as a generic JSON object.
type CommonResponse struct {
	Payload map[string]any
}

// InvokeCommon drives a CommonRequest through the same Execute pipeline
// as a generated, typed call — matching the real SDK's
// CommonRequest/CommonResponse escape hatch for actions without a
// generated package yet.
func (c *Client) InvokeCommon(ctx context.Context, req CommonRequest) (CommonResponse, error) {
	var body any
	if req.OctetStreamBody != nil {
		body = req.OctetStreamBody
	} else if req.Params != nil {
		body = req.Params
	}

	payload, err := Execute[map[string]any](ctx, c, Input{
		Action: req.Action,
		Path:   req.Path,
		Method: req.Method,
		Body:   body,
	})
	if err != nil {
		return CommonResponse{}, err
	}
	return CommonResponse{Payload: payload}, nil
}
