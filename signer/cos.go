package signer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teco-project/teco-core-sub000/credential"
)

// DefaultSessionTokenKey is the query/header key the object-storage
// signer uses for a session token unless the caller overrides it.
const DefaultSessionTokenKey = "x-cos-security-token"

// COSInput is the input to SignCOS.
type COSInput struct {
	Method          string
	Headers         map[string]string
	Path            string
	Query           []Item
	SessionTokenKey string
	Date            time.Time
	Duration        time.Duration
	Credential      credential.Credential
}

// COSAuthorization is the object-storage signer's output: the ordered
// authorization fields, renderable either as a single header value
// (AsHeader) or as individual query items (AsQueryItems) — the token, if
// any, is appended after signing either way so it never enters the
// signed header/param lists.
type COSAuthorization struct {
	Items []Item
	token string
	key   string
}

// AsHeader renders the authorization fields joined by "&", suitable for
// an "Authorization" header value.
func (a COSAuthorization) AsHeader() string {
	var parts []string
	for _, it := range a.Items {
		parts = append(parts, it.Name+"="+it.Value)
	}
	s := strings.Join(parts, "&")
	if a.token != "" {
		s += "&" + a.key + "=" + a.token
	}
	return s
}

// AsQueryItems renders the authorization fields (plus a trailing token
// item, if any) as query items for URL signing. Names and values are
// returned unencoded; EncodeQueryRFC3986 percent-encodes them.
func (a COSAuthorization) AsQueryItems() []Item {
	items := append([]Item{}, a.Items...)
	if a.token != "" {
		items = append(items, Item{Name: a.key, Value: a.token})
	}
	return items
}

// SignCOS signs a request to the object-storage XML API using HMAC-SHA1
// with a double-HMAC key derivation: the signing key at stage 5 is the
// *hex string* of the first HMAC, not its raw bytes — re-encoding that
// intermediate as hex before using it as the next HMAC's key is
// load-bearing, not a stylistic choice.
func SignCOS(in COSInput) COSAuthorization {
	tokenKey := in.SessionTokenKey
	if tokenKey == "" {
		tokenKey = DefaultSessionTokenKey
	}

	start := in.Date.Unix()
	end := in.Date.Add(in.Duration).Unix()
	keyTime := fmt.Sprintf("%d;%d", start, end)

	headerNames, joinedHeaders := cosCanonicalPairs(in.Headers)
	paramNames, joinedParams := cosCanonicalQueryPairs(in.Query)

	httpString := fmt.Sprintf("%s\n%s\n%s\n%s\n",
		strings.ToLower(in.Method), in.Path, joinedParams, joinedHeaders)

	stringToSign := fmt.Sprintf("sha1\n%s\n%s\n", keyTime, sha1Hex([]byte(httpString)))

	signKey := fmt.Sprintf("%x", hmacSHA1([]byte(in.Credential.SecretKey), []byte(keyTime)))
	signature := fmt.Sprintf("%x", hmacSHA1([]byte(signKey), []byte(stringToSign)))

	items := []Item{
		{Name: "q-sign-algorithm", Value: "sha1"},
		{Name: "q-ak", Value: in.Credential.SecretID},
		{Name: "q-sign-time", Value: keyTime},
		{Name: "q-key-time", Value: keyTime},
		{Name: "q-header-list", Value: strings.Join(headerNames, ";")},
		{Name: "q-url-param-list", Value: strings.Join(paramNames, ";")},
		{Name: "q-signature", Value: signature},
	}

	return COSAuthorization{Items: items, token: in.Credential.Token, key: tokenKey}
}

// cosCanonicalPairs lowercases and RFC-3986-percent-encodes header names
// (and their values), sorts by name, and returns both the sorted name
// list and the "&"-joined "name=value" string.
func cosCanonicalPairs(headers map[string]string) (names []string, joined string) {
	type kv struct{ name, value string }
	var pairs []kv
	for name, value := range headers {
		pairs = append(pairs, kv{name: strings.ToLower(name), value: value})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	var parts []string
	for _, p := range pairs {
		names = append(names, rfc3986Escape(p.name))
		parts = append(parts, rfc3986Escape(p.name)+"="+rfc3986Escape(p.value))
	}
	return names, strings.Join(parts, "&")
}

func cosCanonicalQueryPairs(items []Item) (names []string, joined string) {
	m := make(map[string]string, len(items))
	for _, it := range items {
		m[strings.ToLower(it.Name)] = it.Value
	}
	return cosCanonicalPairs(m)
}
