package mast

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

const (
	defaultCloudBucket = "stpubdata"
	defaultCloudRegion = "us-east-1"
)

// s3API is the slice of the S3 client the cloud delegate uses.
type s3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// CloudAccess redirects public file downloads to the STScI open-data S3
// bucket instead of the MAST servers. The provider argument is accepted
// for a future with more than one cloud host; only AWS is dispatched
// today.
type CloudAccess struct {
	client  s3API
	bucket  string
	region  string
	profile string
	verbose bool
}

// NewCloudAccess loads AWS credentials and binds the public dataset
// bucket. Empty bucket and region fall back to the STScI open-data
// defaults. Without a profile the bucket is read with anonymous
// credentials, which is all public data needs.
func NewCloudAccess(ctx context.Context, provider string, profile string, bucket string, region string, verbose bool) (*CloudAccess, error) {

	if len(provider) == 0 {
		return nil, fmt.Errorf("cloud provider must not be empty")
	}

	if len(bucket) == 0 {
		bucket = defaultCloudBucket
	}
	if len(region) == 0 {
		region = defaultCloudRegion
	}

	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	if len(profile) > 0 {
		logrus.WithField("profile", profile).Info("Using shared AWS config profile")
		awsOptions = append(awsOptions, awsconfig.WithSharedConfigProfile(profile))
	} else {
		awsOptions = append(awsOptions, awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	access := &CloudAccess{
		client:  s3.NewFromConfig(sdkConfig),
		bucket:  bucket,
		region:  region,
		profile: profile,
		verbose: verbose,
	}

	if verbose {
		logrus.WithFields(logrus.Fields{
			"provider": provider,
			"bucket":   access.bucket,
		}).Infoln("Using the S3 STScI public dataset")
	}

	return access, nil
}

// CloudURI maps a mast: data URI to its key in the public bucket and
// verifies the object exists. Missions lay their products out under
// different prefixes, so each candidate key is tried in order.
func (c *CloudAccess) CloudURI(ctx context.Context, dataURI string) (string, error) {

	for _, key := range candidateKeys(dataURI) {
		_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		})

		if err == nil {
			return fmt.Sprintf("s3://%s/%s", c.bucket, key), nil
		}

		logrus.WithFields(logrus.Fields{
			"bucket": c.bucket,
			"key":    key,
		}).Debugln("No cloud object at candidate key")
	}

	return "", fmt.Errorf("%w: %s", ErrCloudUnavailable, dataURI)
}

// Download fetches a data product from the cloud bucket into localPath.
func (c *CloudAccess) Download(ctx context.Context, dataURI string, localPath string) error {

	cloudURI, err := c.CloudURI(ctx, dataURI)
	if err != nil {
		return err
	}

	key := strings.TrimPrefix(cloudURI, fmt.Sprintf("s3://%s/", c.bucket))

	object, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", cloudURI, err)
	}
	defer object.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}

	out, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer out.Close()

	written, err := io.Copy(out, object.Body)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	if c.verbose {
		logrus.WithFields(logrus.Fields{
			"uri":   cloudURI,
			"path":  localPath,
			"bytes": written,
		}).Infoln("Downloaded cloud data product")
	}

	return nil
}

// candidateKeys derives the possible bucket keys for a mast: data URI.
// HST products live under hst/public with an extra obsid fan-out; the
// other missions mirror the archive path under <mission>/public.
func candidateKeys(dataURI string) []string {

	trimmed := strings.TrimPrefix(dataURI, "mast:")
	trimmed = strings.TrimPrefix(trimmed, "/")

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return []string{trimmed}
	}

	mission := strings.ToLower(parts[0])
	rest := parts[1]

	keys := []string{
		path.Join(mission, "public", rest),
	}

	// HST layout: hst/public/<first 4 of obsid>/<obsid>/<file>
	if mission == "hst" {
		file := path.Base(rest)
		if obsid := strings.SplitN(file, "_", 2); len(obsid) == 2 && len(obsid[0]) >= 4 {
			keys = append(keys, path.Join(
				"hst", "public", obsid[0][:4], obsid[0], file))
		}
	}

	keys = append(keys, trimmed)

	return keys
}
