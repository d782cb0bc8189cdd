// Package endpoint composes the URL-resolution strategies a
// ServiceConfig uses to turn (service, region) into a request base URL.
package endpoint

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/teco-project/teco-core-sub000/region"
)

// DefaultDomain is the root domain regional and global endpoints are
// built against when a strategy does not override it.
const DefaultDomain = "tencentcloudapi.com"

// Strategy maps a (service, region) pair to a base URL string. Resolve is
// pure: the same strategy, service and region must always yield the same
// URL. Description is used for logging only.
type Strategy interface {
	Resolve(service string, r region.Region) string
	Description() string
}

// Regional resolves "https://{service}.{region}.{domain}". It is the
// default strategy for per-service, per-region APIs.
type Regional struct {
	Domain string
}

// NewRegional builds a Regional strategy against domain, or DefaultDomain
// if domain is empty.
func NewRegional(domain string) Regional {
	if domain == "" {
		domain = DefaultDomain
	}
	return Regional{Domain: domain}
}

func (s Regional) Resolve(service string, r region.Region) string {
	if r.IsZero() {
		return "https://" + service + "." + s.Domain
	}
	return "https://" + service + "." + r.ID() + "." + s.Domain
}

func (s Regional) Description() string {
	return "regional endpoint on " + s.Domain
}

// Global resolves "https://{service}.{domain}" unconditionally, ignoring
// region.
type Global struct {
	Domain string
}

func NewGlobal(domain string) Global {
	if domain == "" {
		domain = DefaultDomain
	}
	return Global{Domain: domain}
}

func (s Global) Resolve(service string, _ region.Region) string {
	return "https://" + service + "." + s.Domain
}

func (s Global) Description() string {
	return "global endpoint on " + s.Domain
}

// GlobalPreferred resolves the Global form, but falls back to Regional
// whenever the caller passes a non-global region (kind != region.KindGlobal
// and the region is set).
type GlobalPreferred struct {
	Domain string
}

func NewGlobalPreferred(domain string) GlobalPreferred {
	if domain == "" {
		domain = DefaultDomain
	}
	return GlobalPreferred{Domain: domain}
}

func (s GlobalPreferred) Resolve(service string, r region.Region) string {
	if r.IsZero() || r.Kind() == region.KindGlobal {
		return NewGlobal(s.Domain).Resolve(service, r)
	}
	return NewRegional(s.Domain).Resolve(service, r)
}

func (s GlobalPreferred) Description() string {
	return "global-preferred endpoint on " + s.Domain
}

// PinnedRegional always resolves against a fixed region, ignoring the
// region argument passed to Resolve.
type PinnedRegional struct {
	Domain string
	Pinned region.Region
}

func NewPinnedRegional(domain string, pinned region.Region) PinnedRegional {
	if domain == "" {
		domain = DefaultDomain
	}
	return PinnedRegional{Domain: domain, Pinned: pinned}
}

func (s PinnedRegional) Resolve(service string, _ region.Region) string {
	return NewRegional(s.Domain).Resolve(service, s.Pinned)
}

func (s PinnedRegional) Description() string {
	return "pinned-regional endpoint (" + s.Pinned.ID() + ") on " + s.Domain
}

// Static always resolves to a fixed, pre-validated URL string.
type Static struct {
	URL string
}

// NewStatic validates url and returns a Static strategy. It fails unless
// the URL's scheme is "http" or "https".
func NewStatic(rawURL string) (Static, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Static{}, errors.Wrapf(err, "invalid endpoint URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Static{}, errors.Errorf("endpoint URL %q must use http or https, got scheme %q", rawURL, u.Scheme)
	}
	return Static{URL: rawURL}, nil
}

func (s Static) Resolve(_ string, _ region.Region) string {
	return s.URL
}

func (s Static) Description() string {
	return "static endpoint " + s.URL
}

// Func adapts a caller-supplied closure into a Strategy, the escape hatch
// for endpoints this package has no built-in variant for.
type Func struct {
	Fn   func(service string, r region.Region) string
	Desc string
}

func (s Func) Resolve(service string, r region.Region) string {
	return s.Fn(service, r)
}

func (s Func) Description() string {
	if s.Desc == "" {
		return "custom endpoint function"
	}
	return s.Desc
}

// Factory adapts a closure that produces a Strategy per call, useful when
// the strategy itself depends on runtime state not known at construction
// (e.g. a per-request override pulled from context).
type Factory struct {
	Fn   func() Strategy
	Desc string
}

func (f Factory) Resolve(service string, r region.Region) string {
	return f.Fn().Resolve(service, r)
}

func (f Factory) Description() string {
	if f.Desc == "" {
		return "strategy factory"
	}
	return f.Desc
}
