package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/m3uget/internal/utils"
)

const s3Scheme = "s3://"

// objectFetcher downloads a whole object into memory.
type objectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

type s3Fetcher struct {
	downloader *manager.Downloader
}

func newS3Fetcher(ctx context.Context) (*s3Fetcher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMode(aws.RetryModeAdaptive))
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %v", err)
	}
	client := s3.NewFromConfig(cfg)
	return &s3Fetcher{
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.Concurrency = 1
		}),
	}, nil
}

func (f *s3Fetcher) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := f.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error downloading S3 object: %v", err)
	}
	return buf.Bytes(), nil
}

func isS3URI(source string) bool {
	return strings.HasPrefix(strings.ToLower(source), s3Scheme)
}

func parseS3URI(uri string) (string, string, error) {
	rest := uri[len(s3Scheme):]
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" || strings.HasSuffix(parts[1], "/") {
		return "", "", fmt.Errorf("expected s3://bucket/key, got %q", uri)
	}
	return parts[0], parts[1], nil
}

// loadS3 reads a URL list object. fetcher may be nil to use the default
// AWS credential chain.
func loadS3(ctx context.Context, uri string, fetcher objectFetcher) ([]string, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSourceAccess, err)
	}
	if fetcher == nil {
		f, err := newS3Fetcher(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", utils.ErrSourceAccess, uri, err)
		}
		fetcher = f
	}
	log.Debug().Str("op", "source/s3").Msgf("Fetching URL list from s3://%s/%s", bucket, key)
	data, err := fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", utils.ErrSourceAccess, uri, err)
	}
	var urls []string
	if lower := strings.ToLower(key); strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		urls, err = parseYAML(bytes.NewReader(data))
	} else {
		urls, err = parseLines(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", utils.ErrSourceAccess, uri, err)
	}
	return urls, nil
}
