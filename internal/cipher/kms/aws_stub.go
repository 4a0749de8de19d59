//go:build !holt_aws

package kms

import holterrors "github.com/holtvault/holt/internal/errors"

func newAWS(keyID string) (Backend, error) {
	return nil, holterrors.ErrBackendNotCompiled
}
