package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/dmitrijs2005/tripshare/internal/server/config"
)

type fakeSecrets struct {
	gotID string
	out   *secretsmanager.GetSecretValueOutput
	err   error
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.gotID = aws.ToString(in.SecretId)
	return f.out, f.err
}

func stub(t *testing.T, f *fakeSecrets) {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newSecretsClient
	t.Cleanup(func() { loadDefaultAWSConfig, newSecretsClient = origLoad, origNew })
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newSecretsClient = func(aws.Config) getSecretValueAPI { return f }
}

func TestSigningKey_Inline(t *testing.T) {
	f := &fakeSecrets{}
	stub(t, f)

	key, err := SigningKey(context.Background(), &sc.Config{SecretKey: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "inline", key)
	assert.Empty(t, f.gotID)
}

func TestSigningKey_FromSecretsManager(t *testing.T) {
	f := &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("s3cr3t")}}
	stub(t, f)

	key, err := SigningKey(context.Background(), &sc.Config{SecretKey: "inline", SecretKeyID: "tripshare/jwt"})
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", key)
	assert.Equal(t, "tripshare/jwt", f.gotID)
}

func TestSigningKey_Errors(t *testing.T) {
	stub(t, &fakeSecrets{err: errors.New("denied")})
	_, err := SigningKey(context.Background(), &sc.Config{SecretKeyID: "x"})
	require.ErrorContains(t, err, "get secret x: denied")

	stub(t, &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{}})
	_, err = SigningKey(context.Background(), &sc.Config{SecretKeyID: "x"})
	require.ErrorIs(t, err, ErrEmptySecret)
}
