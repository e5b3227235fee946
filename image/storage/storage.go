package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/motorhall/motorhall/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/webp" // enable webp decoder
	_ "image/gif"               // enable gif decoder
	_ "image/png"               // enable png decoder
)

const (
	signedUploadExpires = 15 * time.Minute

	defaultMaxWidth    = 1600
	defaultJPEGQuality = 80
)

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")

	contentType2Extension = map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"image/gif":  "gif",
	}
)

// UploadTarget is a time-limited pre-authorized destination for a direct
// browser upload.
type UploadTarget struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
	ExpiresIn int    `json:"expires_in"`
}

type Storage struct {
	config         config.FileStorageConfig
	s3             *s3.S3
	namingStrategy NamingStrategy
}

func NewStorage(cfg config.FileStorageConfig) (*Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentials(
			cfg.S3.Credentials.Key, cfg.S3.Credentials.Secret, "",
		),
		S3ForcePathStyle: aws.Bool(cfg.S3.UsePathStyleEndpoint),
	})
	if err != nil {
		return nil, err
	}

	return &Storage{
		config:         cfg,
		s3:             s3.New(sess),
		namingStrategy: NamingStrategy{Prefix: "uploads"},
	}, nil
}

// SignedUpload issues a presigned PUT for a direct client upload. The client
// re-encodes before uploading; the server only constrains content type and
// chooses the destination key.
func (s *Storage) SignedUpload(filename string, contentType string) (*UploadTarget, error) {
	ext, ok := contentType2Extension[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: `%s`", ErrUnsupportedContentType, contentType)
	}

	key := s.namingStrategy.Generate(GenerateOptions{
		PreferredName: fileNameWithoutExtension(filename),
		Extension:     ext,
	})

	req, _ := s.s3.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})

	signedURL, err := req.Presign(signedUploadExpires)
	if err != nil {
		return nil, err
	}

	return &UploadTarget{
		URL:       signedURL,
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresIn: int(signedUploadExpires.Seconds()),
	}, nil
}

// AddImageFromReader is the server-side twin of the client upload pipeline:
// sniff, downscale to the configured width bound, re-encode as fixed-quality
// JPEG and store public-read. Used by the admin panel.
func (s *Storage) AddImageFromReader(ctx context.Context, handle io.Reader, filename string) (string, error) {
	blob, err := io.ReadAll(handle)
	if err != nil {
		return "", err
	}

	mime := mimetype.Detect(blob)
	if _, ok := contentType2Extension[mime.String()]; !ok {
		return "", fmt.Errorf("%w: `%s`", ErrUnsupportedContentType, mime.String())
	}

	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return "", err
	}

	maxWidth := s.config.MaxWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}

	img = downscale(img, maxWidth)

	quality := s.config.JPEGQuality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}

	var encoded bytes.Buffer

	err = jpeg.Encode(&encoded, img, &jpeg.Options{Quality: quality})
	if err != nil {
		return "", err
	}

	key := s.namingStrategy.Generate(GenerateOptions{
		PreferredName: fileNameWithoutExtension(filename),
		Extension:     "jpg",
	})

	_, err = s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(encoded.Bytes()),
		ContentType: aws.String("image/jpeg"),
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", err
	}

	return s.PublicURL(key), nil
}

// RemoveImages deletes the stored objects behind the given public URLs.
// URLs that don't point into our bucket are skipped.
func (s *Storage) RemoveImages(ctx context.Context, urls []string) error {
	objects := make([]*s3.ObjectIdentifier, 0, len(urls))

	for _, imageURL := range urls {
		key, err := s.KeyFromPublicURL(imageURL)
		if err != nil {
			logrus.Warnf("skipping foreign image url `%s`: %s", imageURL, err.Error())

			continue
		}

		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	if len(objects) == 0 {
		return nil
	}

	_, err := s.s3.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.config.Bucket),
		Delete: &s3.Delete{Objects: objects},
	})

	return err
}

func (s *Storage) PublicURL(key string) string {
	parsedURL, err := url.Parse(s.config.Endpoint)
	if err != nil {
		return ""
	}

	parsedURL.Path = "/" + url.PathEscape(s.config.Bucket) + "/" + key

	return parsedURL.String()
}

func (s *Storage) KeyFromPublicURL(publicURL string) (string, error) {
	parsedURL, err := url.Parse(publicURL)
	if err != nil {
		return "", err
	}

	prefix := "/" + s.config.Bucket + "/"
	if !strings.HasPrefix(parsedURL.Path, prefix) {
		return "", fmt.Errorf("url path `%s` is outside of bucket `%s`", parsedURL.Path, s.config.Bucket)
	}

	return strings.TrimPrefix(parsedURL.Path, prefix), nil
}

func downscale(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth {
		return img
	}

	height := bounds.Dy() * maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

func fileNameWithoutExtension(fileName string) string {
	if pos := strings.LastIndexByte(fileName, '.'); pos != -1 {
		return fileName[:pos]
	}

	return fileName
}
