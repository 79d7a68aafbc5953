// Package archive uploads generated schedules to S3-compatible storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
	sc "github.com/dmitrijs2005/tripshare/internal/server/config"
)

// Archiver stores a copy of a generated batch.
type Archiver interface {
	Archive(ctx context.Context, period datecycle.YearMonth, batch []models.Allocation) (string, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Document is the JSON body of an archived schedule.
type Document struct {
	Period      string              `json:"period"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Allocations []models.Allocation `json:"allocations"`
}

type S3Archive struct {
	client putObjectAPI
	bucket string
}

// NewS3Archive builds an S3 client with static credentials, which is what
// MinIO deployments expect.
func NewS3Archive(ctx context.Context, c *sc.Config) (*S3Archive, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archive{client: client, bucket: c.S3Bucket}, nil
}

// Key returns the object key for a new upload of period.
func Key(period datecycle.YearMonth) string {
	return fmt.Sprintf("schedules/%s/%s.json", period, uuid.New())
}

func (a *S3Archive) Archive(ctx context.Context, period datecycle.YearMonth, batch []models.Allocation) (string, error) {
	body, err := json.Marshal(Document{Period: period.String(), GeneratedAt: now().UTC(), Allocations: batch})
	if err != nil {
		return "", err
	}

	key := Key(period)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// Disabled is used when archiving is switched off.
type Disabled struct{}

func (Disabled) Archive(context.Context, datecycle.YearMonth, []models.Allocation) (string, error) {
	return "", nil
}
