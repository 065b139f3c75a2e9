// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"debate-tab-system/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Publisher uploads released draw snapshots to a Cloudflare R2 bucket.
type R2Publisher struct {
	client     objectPutter
	bucket     string
	cdnBaseURL string
}

// NewR2Publisher builds an S3 client against the account's R2 endpoint.
func NewR2Publisher(ctx context.Context, cfg config.R2Config) (*R2Publisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	cdn := cfg.CDNBaseURL
	if cdn == "" {
		cdn = endpoint
	}
	return &R2Publisher{client: client, bucket: cfg.Bucket, cdnBaseURL: strings.TrimRight(cdn, "/")}, nil
}

// PublishDraw uploads a JSON snapshot under key and returns its public URL.
func (p *R2Publisher) PublishDraw(ctx context.Context, key string, body []byte) (string, error) {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("public, max-age=60"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return fmt.Sprintf("%s/%s", p.cdnBaseURL, key), nil
}

// DrawSnapshotKey is the object key of a released round, e.g.
// "draws/oxford-iv-2025/round-3-quarter-finals.json".
func DrawSnapshotKey(tournament string, roundNumber int, roundName string) string {
	name := fmt.Sprintf("round-%d", roundNumber)
	if s := slug.Make(roundName); s != "" && s != name {
		name += "-" + s
	}
	t := slug.Make(tournament)
	if t == "" {
		t = "tournament"
	}
	return fmt.Sprintf("draws/%s/%s.json", t, name)
}
