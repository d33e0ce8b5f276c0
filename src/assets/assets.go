package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"git.vibecoding.academy/vca/vca/src/config"
	"git.vibecoding.academy/vca/vca/src/oops"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

var client *s3.Client

func init() {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.Config.Storage.Key,
				config.Config.Storage.Secret,
				"",
			),
		),
		awsconfig.WithRegion(config.Config.Storage.Region),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: config.Config.Storage.Endpoint,
			}, nil
		})),
	)
	if err != nil {
		panic(err)
	}
	client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

const MaxImageSize = 5 * 1024 * 1024

// Keyed by the sniffed content type, valued by the extension we store
// objects under.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// InvalidImageError means the upload itself was bad, as opposed to a
// storage failure. Its message is safe to show to the uploader.
type InvalidImageError struct {
	Reason string
}

func (e *InvalidImageError) Error() string {
	return e.Reason
}

// ValidateImage sniffs the actual content (never trusting the
// client's claimed type) and enforces our size limit. Returns the
// content type and storage extension.
func ValidateImage(content []byte) (contentType string, ext string, err error) {
	if len(content) == 0 {
		return "", "", &InvalidImageError{Reason: "the uploaded file was empty"}
	}
	if len(content) > MaxImageSize {
		return "", "", &InvalidImageError{Reason: fmt.Sprintf("images must be %dMB or smaller", MaxImageSize/1024/1024)}
	}

	detected := http.DetectContentType(content)
	ext, ok := allowedImageTypes[detected]
	if !ok {
		return "", "", &InvalidImageError{Reason: "images must be JPEG, PNG, WebP or GIF"}
	}

	return detected, ext, nil
}

var reIllegalKeyChars = regexp.MustCompile(`[^\w\-.]`)

func sanitizeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	return reIllegalKeyChars.ReplaceAllString(name, "_")
}

type UploadInput struct {
	Content []byte
	// Logical grouping prefix, e.g. "screenshots" or "avatars".
	Folder string
	// Original filename, used only to keep keys recognizable.
	Filename string
}

// UploadImage validates and stores an image, returning the public URL
// it will be served from.
func UploadImage(ctx context.Context, in UploadInput) (string, error) {
	contentType, ext, err := ValidateImage(in.Content)
	if err != nil {
		return "", err
	}

	name := sanitizeName(strings.TrimSuffix(in.Filename, "."+ext))
	key := fmt.Sprintf("%s/%s-%s.%s", in.Folder, uuid.New().String(), name, ext)

	upload := func() error {
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &config.Config.Storage.Bucket,
			Key:         &key,
			Body:        bytes.NewReader(in.Content),
			ACL:         types.ObjectCannedACLPublicRead,
			ContentType: &contentType,
		})
		return err
	}

	err = upload()
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) && apiError.ErrorCode() == "NoSuchBucket" {
			_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
				Bucket: &config.Config.Storage.Bucket,
			})
			if err != nil {
				return "", oops.New(err, "failed to create image bucket")
			}

			err = upload()
			if err != nil {
				return "", oops.New(err, "failed to upload image")
			}
		} else {
			return "", oops.New(err, "failed to upload image")
		}
	}

	return PublicUrl(key), nil
}

// DeleteImage removes an object by its public URL. URLs that were not
// served from our bucket are ignored.
func DeleteImage(ctx context.Context, publicUrl string) error {
	key, ok := keyFromPublicUrl(publicUrl)
	if !ok {
		return nil
	}

	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &config.Config.Storage.Bucket,
		Key:    &key,
	})
	if err != nil {
		return oops.New(err, "failed to delete image")
	}

	return nil
}

func PublicUrl(key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(config.Config.Storage.PublicUrlBase, "/"), key)
}

func keyFromPublicUrl(publicUrl string) (string, bool) {
	base := strings.TrimSuffix(config.Config.Storage.PublicUrlBase, "/") + "/"
	if base == "/" || !strings.HasPrefix(publicUrl, base) {
		return "", false
	}
	return strings.TrimPrefix(publicUrl, base), true
}
