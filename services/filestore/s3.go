package filestore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/darasa/backoffice/core"
)

type s3Store struct {
	client *s3.Client
	bucket string

	// public base URL for stored objects; defaults to the
	// endpoint + bucket when empty
	baseURL string
}

var _ core.FileStorage = (*s3Store)(nil)

// NewS3Store connects to an S3-compatible endpoint (AWS or minio).
func NewS3Store(conf *core.Config) core.FileStorage {
	fsConf := conf.FileStore
	client := s3.NewFromConfig(aws.Config{Region: fsConf.Region}, func(o *s3.Options) {
		if fsConf.Endpoint != "" {
			o.BaseEndpoint = aws.String(fsConf.Endpoint)
			o.UsePathStyle = true
		}
		if fsConf.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(fsConf.AccessKey, fsConf.SecretKey, "")
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", fsConf.Bucket, fsConf.Region)
	if fsConf.Endpoint != "" {
		baseURL = strings.TrimSuffix(fsConf.Endpoint, "/") + "/" + fsConf.Bucket
	}
	return &s3Store{
		client:  client,
		bucket:  fsConf.Bucket,
		baseURL: baseURL,
	}
}

func (st *s3Store) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(name),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "uploading %s to bucket %s", name, st.bucket)
	}
	return st.baseURL + "/" + name, nil
}
