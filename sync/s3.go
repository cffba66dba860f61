package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Destination.
type S3API interface {
	manager.UploadAPIClient
	PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3Destination uploads files to an S3 bucket as public-read objects.
//
// Large files go through the transfer manager and are split into multipart
// uploads; everything else is a single PutObject.
type S3Destination struct {
	client       S3API
	uploader     *manager.Uploader
	bucket       string
	prefix       string
	storageClass types.StorageClass
}

// NewS3Destination creates a new S3Destination. An empty storageClass leaves
// the bucket default in place.
func NewS3Destination(client S3API, bucket, prefix string, storageClass types.StorageClass) *S3Destination {
	return &S3Destination{
		client:       client,
		uploader:     manager.NewUploader(client),
		bucket:       bucket,
		prefix:       prefix,
		storageClass: storageClass,
	}
}

func (d *S3Destination) Bucket() string { return d.bucket }

func (d *S3Destination) fullKey(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if d.prefix == "" {
		return rel
	}
	return strings.TrimSuffix(d.prefix, "/") + "/" + rel
}

func (d *S3Destination) Put(ctx context.Context, rel string, r io.Reader, contentType string) error {
	_, err := d.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(d.bucket),
		Key:          aws.String(d.fullKey(rel)),
		Body:         r,
		ContentType:  aws.String(contentType),
		ACL:          types.ObjectCannedACLPublicRead,
		StorageClass: d.storageClass,
	})
	return err
}

func (d *S3Destination) SetPolicy(ctx context.Context, p *Policy) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode policy: %w", err)
	}
	_, err = d.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(d.bucket),
		Policy: aws.String(string(doc)),
	})
	return err
}
