// Package serviceconfig holds the immutable, per-service configuration
// bundle every client call resolves against: name, version, region,
// language, endpoint strategy, timeout, error taxonomy, and buffer
// allocator.
package serviceconfig

import (
	"time"

	"github.com/teco-project/teco-core-sub000/endpoint"
	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// DefaultTimeout is the per-call HTTP timeout applied when Timeout is
// left at its zero value.
const DefaultTimeout = 20 * time.Second

// Allocator produces a byte buffer of the given size, the hook
// ServiceConfig.BufferAllocator exposes so a caller wanting pooled
// buffers can supply one without this module depending on a pooling
// library itself.
type Allocator func(size int) []byte

func defaultAllocator(size int) []byte {
	return make([]byte, size)
}

// Config is the immutable per-service configuration. Construct with New;
// derive variants with With.
type Config struct {
	Service          string
	Version          string
	Region           region.Region
	Language         string
	EndpointStrategy endpoint.Strategy
	Timeout          time.Duration
	ErrorTaxonomy    *tcerr.Taxonomy
	BufferAllocator  Allocator

	// defaultEndpoint is precomputed at construction (and at With, when
	// it must change) from (Service, Region) so per-call resolution with
	// no region override is O(1).
	defaultEndpoint string
}

// New builds a Config, precomputing its default endpoint immediately.
func New(service, version string, r region.Region, strategy endpoint.Strategy) *Config {
	c := &Config{
		Service:          service,
		Version:          version,
		Region:           r,
		EndpointStrategy: strategy,
		Timeout:          DefaultTimeout,
		BufferAllocator:  defaultAllocator,
	}
	c.defaultEndpoint = strategy.Resolve(service, r)
	return c
}

// DefaultEndpoint returns the precomputed endpoint for (Service, Region).
func (c *Config) DefaultEndpoint() string {
	return c.defaultEndpoint
}

// GetEndpoint resolves the endpoint for an optional per-call region
// override: the config's own region is used unless override is
// non-zero, in which case it's resolved fresh (calling the strategy
// again, not reusing defaultEndpoint).
func (c *Config) GetEndpoint(override region.Region) string {
	if override.IsZero() || override == c.Region {
		return c.defaultEndpoint
	}
	return c.EndpointStrategy.Resolve(c.Service, override)
}

// Patch is the set of fields With may override; zero-valued fields are
// left unchanged.
type Patch struct {
	Region           *region.Region
	EndpointStrategy endpoint.Strategy
	Language         *string
	Timeout          *time.Duration
	ErrorTaxonomy    *tcerr.Taxonomy
	BufferAllocator  Allocator
}

// With derives a new Config from c, applying patch. An empty patch
// (neither Region nor EndpointStrategy set) carries over the precomputed
// defaultEndpoint verbatim instead of recomputing it, since endpoint
// resolution may be nontrivial (global-preferred, custom closures, ...).
func (c *Config) With(patch Patch) *Config {
	next := *c

	if patch.Region != nil {
		next.Region = *patch.Region
	}
	if patch.EndpointStrategy != nil {
		next.EndpointStrategy = patch.EndpointStrategy
	}
	if patch.Language != nil {
		next.Language = *patch.Language
	}
	if patch.Timeout != nil {
		next.Timeout = *patch.Timeout
	}
	if patch.ErrorTaxonomy != nil {
		next.ErrorTaxonomy = patch.ErrorTaxonomy
	}
	if patch.BufferAllocator != nil {
		next.BufferAllocator = patch.BufferAllocator
	}

	if patch.Region != nil || patch.EndpointStrategy != nil {
		next.defaultEndpoint = next.EndpointStrategy.Resolve(next.Service, next.Region)
	}

	return &next
}
