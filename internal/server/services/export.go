package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dkrasnova/fintrack/internal/netx"
	sc "github.com/dkrasnova/fintrack/internal/server/config"
	"github.com/dkrasnova/fintrack/internal/server/session"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
)

// ExportService writes JSON snapshots of a user's financial data to
// S3-compatible object storage and hands out presigned download links.
type ExportService struct {
	gateway *Gateway
	config  *sc.Config
}

// NewExportService constructs an ExportService on top of the gateway.
func NewExportService(gateway *Gateway, config *sc.Config) *ExportService {
	return &ExportService{
		gateway: gateway,
		config:  config,
	}
}

// exportStorageKey derives a collision-free object key for a user's snapshot.
func exportStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("exports/%s/%d/%d/%d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// GetPresignedPutURL returns an object key plus a presigned PUT URL valid
// for 15 minutes.
func (s *ExportService) GetPresignedPutURL(ctx context.Context, userID string) (string, string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := exportStorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetPresignedGetURL returns a presigned download URL for an exported
// snapshot, valid for 15 minutes.
func (s *ExportService) GetPresignedGetURL(ctx context.Context, key string) (string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// ExportFinancialData snapshots the user's records (optionally filtered by
// dataType), uploads the JSON document through a presigned PUT, and returns
// the object key.
func (s *ExportService) ExportFinancialData(ctx context.Context, sess *session.Session, userID, dataType string) (string, error) {
	data := s.gateway.GetFinancialData(ctx, sess, userID, dataType)

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key, url, err := s.GetPresignedPutURL(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("presign export: %w", err)
	}

	if err := uploadToPresignedURL(url, payload); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	return key, nil
}
