//go:build !holt_gcp

package kms

import holterrors "github.com/holtvault/holt/internal/errors"

func newGCP(resource string) (Backend, error) {
	return nil, holterrors.ErrBackendNotCompiled
}
