package velo

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// artifactClient wraps the S3 client for the release artifact mirror
// (any S3-compatible endpoint).
type artifactClient struct {
	Client     *s3.Client
	BucketName string
}

// newArtifactClient initializes a client from ARTIFACT_* configuration values.
func newArtifactClient(cfg *Config) (*artifactClient, error) {
	endpoint := cfg.Values["ARTIFACT_ENDPOINT"]
	accessKey := cfg.Values["ARTIFACT_ACCESS_KEY_ID"]
	secretKey := cfg.Values["ARTIFACT_SECRET_ACCESS_KEY"]
	bucketName := cfg.Values["ARTIFACT_BUCKET"]

	if endpoint == "" || accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, fmt.Errorf("artifact mirror credentials missing in configuration (ARTIFACT_ENDPOINT, ARTIFACT_ACCESS_KEY_ID, ARTIFACT_SECRET_ACCESS_KEY, ARTIFACT_BUCKET)")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})

	options := []func(*config.LoadOptions) error{
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion("auto"),
	}

	if Debug {
		options = append(options, config.WithClientLogMode(aws.LogSigning|aws.LogRetries|aws.LogRequest|aws.LogResponse))
	}

	awsCfg, err := config.LoadDefaultConfig(context.TODO(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact mirror config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &artifactClient{
		Client:     client,
		BucketName: bucketName,
	}, nil
}

// contentTypeForKey maps an object key to its MIME type.
func contentTypeForKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".md"):
		return "text/markdown"
	case strings.HasSuffix(key, ".tar.gz"):
		return "application/gzip"
	case strings.HasSuffix(key, ".tar.xz"):
		return "application/x-xz"
	case strings.HasSuffix(key, ".tar.zst"):
		return "application/zstd"
	default:
		return "application/octet-stream"
	}
}

// UploadLocalFile uploads a file from disk to the artifact mirror.
func (a *artifactClient) UploadLocalFile(ctx context.Context, key, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	_, err = a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.BucketName),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String(contentTypeForKey(key)),
	})
	return err
}

// artifactObject represents metadata for an object on the mirror.
type artifactObject struct {
	Key  string
	Size int64
}

// ListObjects returns the objects in the bucket with the given prefix.
func (a *artifactClient) ListObjects(ctx context.Context, prefix string) ([]artifactObject, error) {
	var objects []artifactObject
	paginator := s3.NewListObjectsV2Paginator(a.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.BucketName),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			objects = append(objects, artifactObject{
				Key:  *obj.Key,
				Size: *obj.Size,
			})
		}
	}
	return objects, nil
}
