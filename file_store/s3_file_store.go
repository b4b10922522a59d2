package file_store

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/pkg/errors"
)

const DefaultS3Region = "us-west-1"

type S3FileStore struct {
	bucket   string
	baseUrl  string
	uploader s3manageriface.UploaderAPI
	client   s3iface.S3API
}

// NewS3FileStore builds a store uploading into bucket. Objects are public and
// served from baseUrl, which is either the bucket endpoint or a CDN in front
// of it.
func NewS3FileStore(bucket string, region string, baseUrl string) (*S3FileStore, error) {
	if region == "" {
		region = DefaultS3Region
	}
	// AWS client session, credentials come from the default provider chain.
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return NewS3FileStoreWithClients(bucket, baseUrl, s3manager.NewUploader(sess), s3.New(sess)), nil
}

func NewS3FileStoreWithClients(bucket string, baseUrl string, uploader s3manageriface.UploaderAPI, client s3iface.S3API) *S3FileStore {
	return &S3FileStore{
		bucket:   bucket,
		baseUrl:  baseUrl,
		uploader: uploader,
		client:   client,
	}
}

// S3 key is the file name
func (s *S3FileStore) Store(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:         aws.String("public-read"),
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s to bucket %s", key, s.bucket)
	}
	return s.GetUrlFromKey(key), nil
}

func (s *S3FileStore) GetUrlFromKey(key string) string {
	return joinUrl(s.baseUrl, key)
}

// Delete removes the object, S3 reports success for missing keys as well.
func (s *S3FileStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "failed to delete %s from bucket %s", key, s.bucket)
}
