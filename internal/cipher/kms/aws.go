//go:build holt_aws

package kms

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

type awsBackend struct {
	client *kms.Client
	keyID  string
}

func newAWS(keyID string) (Backend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &awsBackend{client: kms.NewFromConfig(cfg), keyID: keyID}, nil
}

func (b *awsBackend) KeyID() string { return b.keyID }

func (b *awsBackend) Encrypt(ctx context.Context, plaintext []byte, aad map[string]string) ([]byte, error) {
	out, err := b.client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:             &b.keyID,
		Plaintext:         plaintext,
		EncryptionContext: aad,
	})
	if err != nil {
		return nil, fmt.Errorf("aws kms encrypt: %w", err)
	}
	return out.CiphertextBlob, nil
}

func (b *awsBackend) Decrypt(ctx context.Context, ciphertext []byte, aad map[string]string) ([]byte, error) {
	out, err := b.client.Decrypt(ctx, &kms.DecryptInput{
		KeyId:             &b.keyID,
		CiphertextBlob:    ciphertext,
		EncryptionContext: aad,
	})
	if err != nil {
		return nil, fmt.Errorf("aws kms decrypt: %w", err)
	}
	return out.Plaintext, nil
}
