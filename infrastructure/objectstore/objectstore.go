// Package objectstore 打开本地文件或 s3:// 对象作为数据源输入。
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ErrInvalidURI is returned for URIs that name neither a local file nor an s3 object.
var ErrInvalidURI = errors.New("invalid object uri")

// S3Config S3 访问配置；AccessKeyID/SecretAccessKey 为空时走默认凭证链。
type S3Config struct {
	Region          string `yaml:"region" env:"OBSEQ_S3_REGION"`
	Endpoint        string `yaml:"endpoint" env:"OBSEQ_S3_ENDPOINT"`
	PathStyle       bool   `yaml:"path_style" env:"OBSEQ_S3_PATH_STYLE"`
	AccessKeyID     string `yaml:"access_key_id" env:"OBSEQ_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"OBSEQ_S3_SECRET_ACCESS_KEY"`
}

// Location is a parsed input URI.
type Location struct {
	Bucket string
	Key    string
	Path   string // local path when Bucket is empty
}

func (l Location) Remote() bool { return l.Bucket != "" }

func (l Location) String() string {
	if l.Remote() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// Parse accepts s3://bucket/key, file:///path or a plain path.
func Parse(uri string) (Location, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return Location{}, fmt.Errorf("empty uri: %w", ErrInvalidURI)
	}
	if !strings.Contains(uri, "://") {
		return Location{Path: uri}, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("%s: %v: %w", uri, err, ErrInvalidURI)
	}
	switch u.Scheme {
	case "file":
		return Location{Path: u.Path}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%s: bucket and key required: %w", uri, ErrInvalidURI)
		}
		return Location{Bucket: u.Host, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%s: unsupported scheme %q: %w", uri, u.Scheme, ErrInvalidURI)
	}
}

// GetObjectAPI is the subset of the S3 client the store needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store opens inputs. The S3 client is created on first remote access.
type Store struct {
	cfg    S3Config
	client GetObjectAPI
	logger *zap.Logger
}

func New(cfg S3Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cfg: cfg, logger: logger}
}

// NewWithClient uses an existing S3 client.
func NewWithClient(client GetObjectAPI, logger *zap.Logger) *Store {
	s := New(S3Config{}, logger)
	s.client = client
	return s
}

func (s *Store) s3Client(ctx context.Context) (GetObjectAPI, error) {
	if s.client != nil {
		return s.client, nil
	}
	loadOpts := []func(*config.LoadOptions) error{}
	if s.cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.cfg.Region))
	}
	if s.cfg.AccessKeyID != "" && s.cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s.cfg.AccessKeyID,
				s.cfg.SecretAccessKey,
				"",
			),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
		}
		o.UsePathStyle = s.cfg.PathStyle
	})
	return s.client, nil
}

// Open returns a reader for uri. The caller closes it.
func (s *Store) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	if !loc.Remote() {
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", loc.Path, err)
		}
		return f, nil
	}
	client, err := s.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}
	s.logger.Debug("s3 object opened",
		zap.String("bucket", loc.Bucket),
		zap.String("key", loc.Key),
		zap.Int64("size", aws.ToInt64(out.ContentLength)),
	)
	return out.Body, nil
}

// LocalPath returns a filesystem path for uri. Remote objects are copied to a
// temporary file which cleanup removes; cleanup is never nil.
func (s *Store) LocalPath(ctx context.Context, uri string) (path string, cleanup func(), err error) {
	cleanup = func() {}
	loc, err := Parse(uri)
	if err != nil {
		return "", cleanup, err
	}
	if !loc.Remote() {
		return loc.Path, cleanup, nil
	}
	body, err := s.Open(ctx, uri)
	if err != nil {
		return "", cleanup, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "obseq-*"+filepath.Ext(loc.Key))
	if err != nil {
		return "", cleanup, fmt.Errorf("create temp file: %w", err)
	}
	remove := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		remove()
		return "", cleanup, fmt.Errorf("download %s: %w", loc, err)
	}
	if err := tmp.Close(); err != nil {
		remove()
		return "", cleanup, fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), remove, nil
}
