package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"newsrag/types"
)

// S3Archive writes JSON records of indexed articles to an S3 bucket,
// keeping a durable copy outside the vector store's payload fields.
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3FromEnv builds an archive from S3_BUCKET (required) plus optional
// S3_REGION, S3_PROFILE, S3_PREFIX and S3_USE_PATH_STYLE. Returns
// (nil, nil) when archival is not configured.
func NewS3FromEnv(ctx context.Context) (*S3Archive, error) {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		return nil, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(os.Getenv("S3_REGION")); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if profile := strings.TrimSpace(os.Getenv("S3_PROFILE")); profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	usePathStyle := strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = usePathStyle
	})

	prefix := strings.Trim(strings.TrimSpace(os.Getenv("S3_PREFIX")), "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}, nil
}

// ArchiveArticle uploads the article as a JSON object keyed by a hash of
// its link, so re-ingesting the same article overwrites in place.
func (a *S3Archive) ArchiveArticle(ctx context.Context, article types.Article) error {
	body, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return err
	}

	key := a.prefix + "articles/" + objectID(article.Link) + ".json"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading article %s: %w", article.Link, err)
	}
	return nil
}

// objectID derives a short stable object name from an article link.
func objectID(link string) string {
	sum := sha256.Sum256([]byte(link))
	return hex.EncodeToString(sum[:])[:16]
}
