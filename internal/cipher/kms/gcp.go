//go:build holt_gcp

package kms

import (
	"context"
	"fmt"

	kmsapi "cloud.google.com/go/kms/apiv1"
	kmspb "cloud.google.com/go/kms/apiv1/kmspb"
)

type gcpBackend struct {
	client   *kmsapi.KeyManagementClient
	resource string
}

func newGCP(resource string) (Backend, error) {
	ctx := context.Background()
	client, err := kmsapi.NewKeyManagementClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCP KMS client: %w", err)
	}
	return &gcpBackend{client: client, resource: resource}, nil
}

func (b *gcpBackend) KeyID() string { return b.resource }

func (b *gcpBackend) Encrypt(ctx context.Context, plaintext []byte, aad map[string]string) ([]byte, error) {
	resp, err := b.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:                        b.resource,
		Plaintext:                   plaintext,
		AdditionalAuthenticatedData: aadBytes(aad),
	})
	if err != nil {
		return nil, fmt.Errorf("gcp kms encrypt: %w", err)
	}
	return resp.Ciphertext, nil
}

func (b *gcpBackend) Decrypt(ctx context.Context, ciphertext []byte, aad map[string]string) ([]byte, error) {
	resp, err := b.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:                        b.resource,
		Ciphertext:                  ciphertext,
		AdditionalAuthenticatedData: aadBytes(aad),
	})
	if err != nil {
		return nil, fmt.Errorf("gcp kms decrypt: %w", err)
	}
	return resp.Plaintext, nil
}

// aadBytes flattens the context map into a stable byte form. GCP KMS takes
// a single AAD blob rather than AWS's key/value encryption context map.
func aadBytes(aad map[string]string) []byte {
	if v, ok := aad["holt-secret"]; ok {
		return []byte(v)
	}
	return nil
}
