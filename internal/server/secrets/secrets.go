// Package secrets resolves the JWT signing key, optionally from AWS
// Secrets Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	sc "github.com/dmitrijs2005/tripshare/internal/server/config"
)

type getSecretValueAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newSecretsClient = func(cfg aws.Config) getSecretValueAPI {
		return secretsmanager.NewFromConfig(cfg)
	}
)

var ErrEmptySecret = errors.New("secret has no string value")

// SigningKey returns c.SecretKey unless c.SecretKeyID names a secret, in
// which case the secret's string value is fetched. AWS credentials come
// from the default provider chain.
func SigningKey(ctx context.Context, c *sc.Config) (string, error) {
	if c.SecretKeyID == "" {
		return c.SecretKey, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx, config.WithRegion(c.S3Region))
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	out, err := newSecretsClient(cfg).GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(c.SecretKeyID),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", c.SecretKeyID, err)
	}
	if aws.ToString(out.SecretString) == "" {
		return "", fmt.Errorf("%s: %w", c.SecretKeyID, ErrEmptySecret)
	}
	return aws.ToString(out.SecretString), nil
}
