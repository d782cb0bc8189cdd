package signer

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/teco-project/teco-core-sub000/credential"
)

// v3DefaultExcluded is the header set ModeDefault never signs.
var v3DefaultExcluded = map[string]bool{
	"authorization":  true,
	"content-length": true,
	"expect":         true,
	"user-agent":     true,
}

// v3MinimalIncluded is the only pair ModeMinimal ever considers.
var v3MinimalIncluded = map[string]bool{
	"content-type": true,
	"host":         true,
}

// V3Input is the input to SignV3.
type V3Input struct {
	URL              string
	Method           string
	Headers          map[string]string
	Body             Body
	Service          string
	Mode             Mode
	OmitSessionToken bool
	Date             time.Time
	Credential       credential.Credential
}

// SignV3 signs a request with TC3-HMAC-SHA256, mutating and returning
// the caller's Headers map augmented with (at least) "authorization".
func SignV3(in V3Input) (map[string]string, error) {
	u, err := url.Parse(in.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid URL %q", in.URL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("invalid URL %q: missing host", in.URL)
	}

	headers := in.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	bodyHash := hashBody(in.Body)

	headers["host"] = hostWithNonDefaultPort(u)
	headers["x-tc-requestclient"] = "Teco"
	headers["x-tc-timestamp"] = strconv.FormatInt(in.Date.Unix(), 10)
	headers["x-tc-content-sha256"] = bodyHash

	if in.Mode == ModeSkip {
		headers["authorization"] = "SKIP"
		return headers, nil
	}

	if !in.OmitSessionToken && in.Credential.Token != "" {
		headers["x-tc-token"] = in.Credential.Token
	} else {
		delete(headers, "x-tc-token")
	}

	if in.Credential.IsEmpty() {
		return nil, errors.New("cannot sign with an empty credential")
	}

	signedHeaderNames, canonicalHeaders := canonicalizeV3Headers(headers, in.Mode)
	signedHeaders := strings.Join(signedHeaderNames, ";")

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	query := u.RawQuery

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		in.Method, path, query, canonicalHeaders, signedHeaders, bodyHash)

	date := in.Date.UTC().Format("2006-01-02")
	credentialScope := fmt.Sprintf("%s/%s/tc3_request", date, in.Service)
	stringToSign := fmt.Sprintf("TC3-HMAC-SHA256\n%s\n%s\n%s",
		headers["x-tc-timestamp"], credentialScope, sha256Hex([]byte(canonicalRequest)))

	k0 := []byte("TC3" + in.Credential.SecretKey)
	k1 := hmacSHA256(k0, []byte(date))
	k2 := hmacSHA256(k1, []byte(in.Service))
	signingKey := hmacSHA256(k2, []byte("tc3_request"))

	signature := fmt.Sprintf("%x", hmacSHA256(signingKey, []byte(stringToSign)))

	headers["authorization"] = fmt.Sprintf(
		"TC3-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		in.Credential.SecretID, credentialScope, signedHeaders, signature)

	if in.OmitSessionToken && in.Credential.Token != "" {
		headers["x-tc-token"] = in.Credential.Token
	}

	return headers, nil
}

func hashBody(b Body) string {
	if b.Kind == BodyUnsigned {
		return "UNSIGNED-PAYLOAD"
	}
	return sha256Hex(b.Bytes())
}

func hostWithNonDefaultPort(u *url.URL) string {
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		return host
	}
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		return host
	}
	return host + ":" + port
}

// canonicalizeV3Headers applies the V3 signed-header selection and
// normalization rules and returns the sorted signed header names plus
// the canonical "name:value\n"-per-line block.
func canonicalizeV3Headers(headers map[string]string, mode Mode) (names []string, canonical string) {
	type kv struct{ name, value string }
	var pairs []kv

	for name, value := range headers {
		lower := strings.ToLower(name)
		switch mode {
		case ModeMinimal:
			if !v3MinimalIncluded[lower] {
				continue
			}
		default:
			if v3DefaultExcluded[lower] {
				continue
			}
		}
		pairs = append(pairs, kv{name: lower, value: strings.ToLower(strings.TrimSpace(value))})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	var b strings.Builder
	names = make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p.name)
		b.WriteString(p.name)
		b.WriteByte(':')
		b.WriteString(p.value)
		b.WriteByte('\n')
	}
	return names, b.String()
}
