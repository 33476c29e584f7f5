package presign

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	Scheme     = "s3"
	defaultTTL = 15 * time.Minute
)

var ErrInvalidLocation = errors.New("invalid s3 location")

// Presigner turns an s3://bucket/key location into a URL the analysis
// provider can fetch without AWS credentials.
type Presigner interface {
	Presign(ctx context.Context, location string) (string, error)
}

// Location is a parsed s3://bucket/key reference.
type Location struct {
	Bucket string
	Key    string
}

// IsS3 reports whether raw uses the s3:// scheme.
func IsS3(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), Scheme+"://")
}

// ParseLocation splits an s3://bucket/key URL.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return Location{}, fmt.Errorf("%w: scheme %q", ErrInvalidLocation, u.Scheme)
	}
	key := strings.TrimLeft(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, fmt.Errorf("%w: bucket and key are required", ErrInvalidLocation)
	}
	return Location{Bucket: u.Host, Key: key}, nil
}

// S3 presigns GetObject requests.
type S3 struct {
	client *s3.PresignClient
	ttl    time.Duration
}

// New loads the default AWS credential chain for region.
func New(ctx context.Context, region string, ttl time.Duration) (*S3, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewFromConfig(cfg, ttl), nil
}

func NewFromConfig(cfg aws.Config, ttl time.Duration) *S3 {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &S3{
		client: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		ttl:    ttl,
	}
}

func (p *S3) Presign(ctx context.Context, location string) (string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return "", err
	}
	out, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign bucket=%s key=%s: %w", loc.Bucket, loc.Key, err)
	}
	return out.URL, nil
}

var _ Presigner = (*S3)(nil)
