package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	sc "github.com/dmitrijs2005/memorylane/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// CoverUpload is a one-time upload slot for a cover image: the client PUTs
// the file to UploadURL, then stores FileURL as the memory's cover.
type CoverUpload struct {
	UploadURL string
	FileURL   string
}

// Uploads hands out presigned PUT URLs for cover images on the S3-compatible
// backend.
type Uploads struct {
	config *sc.Config
}

// NewUploads constructs the Uploads service.
func NewUploads(config *sc.Config) *Uploads {
	return &Uploads{config: config}
}

// coverStorageKey partitions uploads by owner and date; the uuid avoids
// collisions without coordinating with the database.
func coverStorageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("covers/%s/%d/%d/%d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Uploads) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
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

// PresignCoverPut returns a 15-minute presigned PUT URL for a fresh cover
// image key, plus the stable URL the file will be readable from.
func (s *Uploads) PresignCoverPut(ctx context.Context, userID string) (*CoverUpload, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := coverStorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, err
	}

	return &CoverUpload{
		UploadURL: req.URL,
		FileURL:   strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + bucket + "/" + key,
	}, nil
}
