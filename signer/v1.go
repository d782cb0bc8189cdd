package signer

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/teco-project/teco-core-sub000/credential"
)

// Algorithm selects the legacy V1 HMAC variant.
type Algorithm int

const (
	AlgorithmSHA1 Algorithm = iota
	AlgorithmSHA256
)

func (a Algorithm) signatureMethodName() string {
	if a == AlgorithmSHA256 {
		return "HmacSHA256"
	}
	return "HmacSHA1"
}

// Item is a single query/form parameter name-value pair.
type Item struct {
	Name  string
	Value string
}

// V1Input is the input to SignV1.
type V1Input struct {
	Host             string
	Path             string
	Method           string
	Items            []Item
	Algorithm        Algorithm
	OmitSessionToken bool
	Nonce            *int32
	Date             time.Time
	Credential       credential.Credential
}

// SignV1 signs a legacy URL-/form-parameter request, returning the full
// item list (ascending by name, including the inserted Signature) ready
// for EncodeQueryRFC3986 (GET) or EncodeFormHTML (POST).
func SignV1(in V1Input) ([]Item, error) {
	if in.Credential.IsEmpty() {
		return nil, fmt.Errorf("cannot sign with an empty credential")
	}

	items := removeItem(in.Items, "Signature")

	nonce := in.Nonce
	if nonce == nil {
		n := rand.Int31()
		nonce = &n
	}

	items = setItem(items, "Timestamp", strconv.FormatInt(in.Date.Unix(), 10))
	items = setItem(items, "Nonce", strconv.FormatInt(int64(*nonce), 10))
	items = setItem(items, "SecretId", in.Credential.SecretID)

	if in.Algorithm != AlgorithmSHA1 {
		items = setItem(items, "SignatureMethod", in.Algorithm.signatureMethodName())
	} else {
		items = removeItem(items, "SignatureMethod")
	}

	deferToken := in.OmitSessionToken && in.Credential.Token != ""
	if in.Credential.Token != "" && !in.OmitSessionToken {
		items = setItem(items, "Token", in.Credential.Token)
	}

	sortItems(items)
	original := signatureOriginalString(in.Method, in.Host, in.Path, items)

	var mac []byte
	switch in.Algorithm {
	case AlgorithmSHA256:
		mac = hmacSHA256([]byte(in.Credential.SecretKey), []byte(original))
	default:
		mac = hmacSHA1([]byte(in.Credential.SecretKey), []byte(original))
	}
	signature := base64.StdEncoding.EncodeToString(mac)

	items = setItem(items, "Signature", signature)
	if deferToken {
		items = setItem(items, "Token", in.Credential.Token)
	}
	sortItems(items)

	return items, nil
}

func signatureOriginalString(method, host, path string, items []Item) string {
	var parts []string
	for _, it := range items {
		parts = append(parts, it.Name+"="+it.Value)
	}
	return method + host + path + "?" + strings.Join(parts, "&")
}

func removeItem(items []Item, name string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Name != name {
			out = append(out, it)
		}
	}
	return out
}

func setItem(items []Item, name, value string) []Item {
	for i, it := range items {
		if it.Name == name {
			items[i].Value = value
			return items
		}
	}
	return append(items, Item{Name: name, Value: value})
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}

// isRFC3986Unreserved matches ALPHA / DIGIT / "-._~".
func isRFC3986Unreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

// EncodeQueryRFC3986 renders items as an RFC 3986 percent-encoded query
// string, for a GET request.
func EncodeQueryRFC3986(items []Item) string {
	var parts []string
	for _, it := range items {
		parts = append(parts, rfc3986Escape(it.Name)+"="+rfc3986Escape(it.Value))
	}
	return strings.Join(parts, "&")
}

func rfc3986Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isRFC3986Unreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// isHTMLFormUnreserved matches ALPHA / DIGIT / "-._" (note: no "~",
// unlike the RFC 3986 set above).
func isHTMLFormUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_':
		return true
	}
	return false
}

// EncodeFormHTML renders items as an application/x-www-form-urlencoded
// body, for a POST request: space becomes "+", and the unreserved set is
// narrower than RFC 3986's (no "~").
func EncodeFormHTML(items []Item) string {
	var parts []string
	for _, it := range items {
		parts = append(parts, htmlFormEscape(it.Name)+"="+htmlFormEscape(it.Value))
	}
	return strings.Join(parts, "&")
}

func htmlFormEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isHTMLFormUnreserved(c):
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
