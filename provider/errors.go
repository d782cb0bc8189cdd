package provider

import (
	"github.com/pkg/errors"

	"github.com/teco-project/teco-core-sub000/tcerr"
)

// noProviderErr wraps the shared no-provider leaf so every provider that
// fails to resolve a credential returns the same recognizable error kind.
func noProviderErr() error {
	return tcerr.NewNoProvider()
}

// wrap attaches call-site context to an inner error without discarding
// its type: errors.Cause(wrap(err, "...")) still recovers a *tcerr.*
// leaf.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
