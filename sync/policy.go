package sync

import (
	"context"
	"log/slog"
)

const policyVersion = "2012-10-17"

// Policy is an S3 bucket policy document. Field names follow the AWS policy
// grammar and must not be renamed.
type Policy struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is a single grant inside a Policy.
type Statement struct {
	Sid       string   `json:"Sid"`
	Effect    string   `json:"Effect"`
	Principal string   `json:"Principal"`
	Action    []string `json:"Action"`
	Resource  []string `json:"Resource"`
}

// NewPublicReadPolicy returns a policy that lets anyone GET any object in bucket,
// both at the top level and under nested keys.
func NewPublicReadPolicy(bucket string) *Policy {
	arn := "arn:aws:s3:::" + bucket
	return &Policy{
		Version: policyVersion,
		Statement: []Statement{{
			Sid:       "PublicReadGetObject",
			Effect:    "Allow",
			Principal: "*",
			Action:    []string{"s3:GetObject"},
			Resource:  []string{arn + "/*", arn + "/**/*"},
		}},
	}
}

// PublishPolicy makes dst's bucket world-readable. The policy is sent once and
// not read back. Website hosting settings are left untouched.
func PublishPolicy(ctx context.Context, dst Destination, dryRun bool, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	bucket := dst.Bucket()
	if dryRun {
		log.Info("set public-read policy (dry run)", "bucket", bucket)
		return nil
	}
	if err := dst.SetPolicy(ctx, NewPublicReadPolicy(bucket)); err != nil {
		log.Error("set bucket policy", "bucket", bucket, "code", ErrorCode(err), "err", err)
		return &Error{Kind: ErrPolicy, Bucket: bucket, Err: err}
	}
	log.Info("set public-read policy", "bucket", bucket)
	return nil
}
