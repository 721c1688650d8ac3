// SPDX-License-Identifier: AGPL-3.0-only

// Package media turns uploaded images into web-ready objects: avatars
// are square-cropped, scaled and re-encoded as WebP before being
// pushed to the object store; post images are passed through with a
// size cap.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/webp"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/image/draw"

	"github.com/cssocial/desk/internal/config"
)

const (
	MaxUploadBytes = 25 * 1024 * 1024
	avatarSize     = 512
)

// Uploader stores processed images in an S3-compatible bucket and
// returns public URLs for them.
type Uploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewUploader connects to the object store and makes sure the bucket
// exists. Bucket creation failure is not fatal: the bucket may already
// exist under credentials that cannot list it.
func NewUploader(cfg config.MediaConfig) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect media store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err == nil && !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err == nil {
			policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, cfg.Bucket)
			_ = client.SetBucketPolicy(ctx, cfg.Bucket, policy)
		}
	}

	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// AllowedImage reports whether filename has an accepted image
// extension.
func AllowedImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// ProcessAvatar decodes src, center-crops it square, scales it to
// 512x512 and re-encodes it as lossy WebP.
func ProcessAvatar(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	minDim := width
	if height < width {
		minDim = height
	}

	x0 := bounds.Min.X + (width-minDim)/2
	y0 := bounds.Min.Y + (height-minDim)/2
	cropRect := image.Rect(x0, y0, x0+minDim, y0+minDim)
	dst := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, cropRect, draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, webp.Options{Lossless: false, Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// UploadAvatar processes src and stores it under a fresh object name.
// The returned URL is publicly readable.
func (u *Uploader) UploadAvatar(ctx context.Context, src io.Reader) (string, error) {
	data, err := ProcessAvatar(src)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("avatars/%s.webp", uuid.NewString())
	return u.put(ctx, name, data, "image/webp")
}

// UploadPostImage stores an already-validated post image unchanged.
func (u *Uploader) UploadPostImage(ctx context.Context, filename string, src io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("file size too large (max 25MB)")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType := "image/jpeg"
	switch ext {
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	}
	name := fmt.Sprintf("posts/%s%s", uuid.NewString(), ext)
	return u.put(ctx, name, data, contentType)
}

func (u *Uploader) put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, u.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, name), nil
}
