package storage

import (
    "bytes"
    "context"
    "fmt"
    "io"
    "path"
    "time"

    "github.com/aws/aws-sdk-go-v2/aws"
    awscfg "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/service/s3"
    "github.com/rs/zerolog/log"
)

// S3 stores uploads under a key prefix in a bucket. Selected with
// STORAGE_BACKEND=s3; local disk stays the default.
type S3 struct {
    client *s3.Client
    bucket string
    prefix string
}

func NewS3(ctx context.Context, bucket, prefix string) (*S3, error) {
    cfg, err := awscfg.LoadDefaultConfig(ctx)
    if err != nil {
        return nil, fmt.Errorf("load aws config: %w", err)
    }
    if prefix == "" {
        prefix = "uploads"
    }
    return &S3{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

func (s *S3) key(name string) string { return path.Join(s.prefix, path.Base(name)) }

func (s *S3) Save(ctx context.Context, name string, data []byte) error {
    _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
        Bucket: aws.String(s.bucket),
        Key:    aws.String(s.key(name)),
        Body:   bytes.NewReader(data),
    })
    if err != nil {
        return fmt.Errorf("s3 put %s: %w", name, err)
    }
    log.Debug().Str("bucket", s.bucket).Str("key", s.key(name)).Int("size", len(data)).Msg("stored upload in s3")
    return nil
}

func (s *S3) Read(ctx context.Context, name string) ([]byte, error) {
    out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
        Bucket: aws.String(s.bucket),
        Key:    aws.String(s.key(name)),
    })
    if err != nil {
        return nil, fmt.Errorf("s3 get %s: %w", name, err)
    }
    defer out.Body.Close()
    return io.ReadAll(out.Body)
}

// Remove deletes the object. Called on the best-effort order-deletion
// cascade, so it carries its own timeout instead of a request context.
func (s *S3) Remove(name string) error {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
        Bucket: aws.String(s.bucket),
        Key:    aws.String(s.key(name)),
    })
    if err != nil {
        return fmt.Errorf("s3 delete %s: %w", name, err)
    }
    return nil
}

// HeadBucket checks bucket reachability for the health summary.
func (s *S3) HeadBucket(ctx context.Context) error {
    _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
    return err
}
