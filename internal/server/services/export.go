package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/learnjournal/internal/server/config"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/google/uuid"
)

// ExportLinkValidity is how long a presigned download link stays usable.
const ExportLinkValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// exportDocument is the JSON body stored in the bucket.
type exportDocument struct {
	ExportedAt time.Time       `json:"exported_at"`
	Entries    []*models.Entry `json:"entries"`
}

// ExportService uploads journal snapshots to S3-compatible storage.
type ExportService struct {
	entries *EntryService
	config  *sc.Config
	now     func() time.Time
}

func NewExportService(entries *EntryService, cfg *sc.Config) *ExportService {
	return &ExportService{entries: entries, config: cfg, now: time.Now}
}

// ExportKey is the object key for a snapshot taken at t.
func ExportKey(userID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", userID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export serializes all of userID's entries, uploads them and returns a
// presigned download link.
func (s *ExportService) Export(ctx context.Context, userID string) (*models.Export, error) {
	list, err := s.entries.List(ctx, userID, models.EntryFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	body, err := json.Marshal(exportDocument{ExportedAt: now.UTC(), Entries: list})
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := ExportKey(userID, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportLinkValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &models.Export{
		Key:       key,
		URL:       req.URL,
		ExpiresAt: now.Add(ExportLinkValidity),
		Entries:   len(list),
	}, nil
}
