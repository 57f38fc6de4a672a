// Package backup snapshots an account's vault to S3-compatible object
// storage. Records go up sealed, exactly as stored: the backup path never
// holds plaintext secrets.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/logging"
	sc "github.com/sbuga/passvault/internal/server/config"
	"github.com/sbuga/passvault/internal/server/credentials"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	listObjects = func(c *s3.Client, ctx context.Context, in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
		return c.ListObjectsV2(ctx, in)
	}
)

// SealedLister yields an owner's records still encrypted.
type SealedLister interface {
	ListSealed(ctx context.Context, ownerID string) ([]*credentials.Record, error)
}

// Snapshot describes one uploaded backup object.
type Snapshot struct {
	Key        string    `json:"key"`
	Records    int       `json:"records"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type Service struct {
	store  SealedLister
	config *sc.Config
	logger logging.Logger
}

func NewService(store SealedLister, config *sc.Config, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		config: config,
		logger: logger.With("module", "backup"),
	}
}

func snapshotKey(ownerID string) string {
	return fmt.Sprintf("vault/%s/%s-%s.json", ownerID, time.Now().UTC().Format("20060102T150405Z"), uuid.NewString())
}

func (s *Service) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(awscredentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
	}), nil
}

// Snapshot uploads the owner's sealed records as one JSON object and
// returns the object key.
func (s *Service) Snapshot(ctx context.Context, ownerID string) (*Snapshot, error) {
	records, err := s.store.ListSealed(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := snapshotKey(ownerID)
	contentType := "application/json"

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: &contentType,
	})
	if err != nil {
		s.logger.Error(ctx, "snapshot upload failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "snapshot uploaded", "key", key, "records", len(records))
	return &Snapshot{Key: key, Records: len(records), UploadedAt: time.Now().UTC()}, nil
}

// List returns the object keys of the owner's prior snapshots, newest ones
// appearing as S3 returns them (lexicographic, which the timestamped key
// format makes chronological).
func (s *Service) List(ctx context.Context, ownerID string) ([]string, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	prefix := fmt.Sprintf("vault/%s/", ownerID)

	out, err := listObjects(client, ctx, &s3.ListObjectsV2Input{
		Bucket: &bucket,
		Prefix: &prefix,
	})
	if err != nil {
		s.logger.Error(ctx, "snapshot list failed", "error", err.Error())
		return nil, common.ErrInternal
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key != nil {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}
