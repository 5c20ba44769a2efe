package archive

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/shadowtree/internal/errors"
	"github.com/vango-dev/shadowtree/pkg/inspect"
)

// PutObjectAPI is the subset of *s3.Client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink stores snapshots in AWS S3.
//
// Example usage:
//
//	client := archive.NewS3Client("eu-west-1")
//	sink := archive.NewS3Sink(client, "my-bucket", "shadowtree/", inspect.FormatJSON)
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
	format inspect.Format
}

// NewS3Sink creates a new S3 sink.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: Key prefix for snapshots (e.g., "snapshots/")
//   - format: Snapshot encoding; empty means JSON
func NewS3Sink(client PutObjectAPI, bucket, prefix string, format inspect.Format) *S3Sink {
	if format == "" {
		format = inspect.FormatJSON
	}
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
		format: format,
	}
}

// Store uploads snap.
func (s *S3Sink) Store(ctx context.Context, snap *inspect.GenerationSnapshot) error {
	data, err := encode(snap, s.format)
	if err != nil {
		return s.fail(snap, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(Key(s.prefix, snap, s.format)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(s.format.ContentType()),
		Metadata: map[string]string{
			"generation":   strconv.FormatUint(snap.Generation, 10),
			"nodes":        strconv.Itoa(snap.Nodes),
			"committed-at": snap.CommittedAt.UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return s.fail(snap, err)
	}
	return nil
}

func (s *S3Sink) fail(snap *inspect.GenerationSnapshot, err error) error {
	return errors.New(errors.CodeSnapshotWrite).
		WithOp("archive.S3Sink").
		WithDetailf("generation %d to s3://%s/%s", snap.Generation, s.bucket, s.prefix).
		Wrap(err)
}

// NewS3Client creates an S3 client for region using credentials from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and AWS_SESSION_TOKEN
// environment variables. AWS_ENDPOINT_URL, if set, overrides the endpoint,
// for S3-compatible stores.
func NewS3Client(region string, optFns ...func(*s3.Options)) *s3.Client {
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if endpoint := os.Getenv("AWS_ENDPOINT_URL"); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts, optFns...)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "EnvironmentVariables",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, errors.Newf(errors.CategoryArchive, "AWS credentials not set in environment")
	}
	return creds, nil
}
