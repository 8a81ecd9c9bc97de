package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/barbererp/backend/internal/config"
	"github.com/barbererp/backend/internal/httperr"
)

// AvatarSize e o lado maximo da imagem final em pixels.
const AvatarSize = 256

const webpQuality = 85

type Uploader interface {
	UploadAvatar(ctx context.Context, ownerID string, src io.Reader) (string, error)
}

// ======================================================
// S3 UPLOADER
// ======================================================

type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Uploader(cfg *config.Config) *S3Uploader {
	client := s3.New(s3.Options{
		Region: cfg.AWSRegion,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	})

	return &S3Uploader{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}
}

// UploadAvatar decodifica a imagem enviada, reduz para AvatarSize,
// re-encoda como webp e publica no bucket. Retorna a URL publica.
func (u *S3Uploader) UploadAvatar(ctx context.Context, ownerID string, src io.Reader) (string, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", httperr.ErrBusiness("invalid_image")
	}

	encoded, err := encodeAvatar(img)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s.webp", ownerID)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", err
	}

	return u.baseURL + "/" + key, nil
}

func encodeAvatar(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > AvatarSize || h > AvatarSize {
		if w >= h {
			h = h * AvatarSize / w
			w = AvatarSize
		} else {
			w = w * AvatarSize / h
			h = AvatarSize
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}

		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
