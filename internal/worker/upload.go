package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultUploadLimit is default number of images uploaded at once.
const DefaultUploadLimit = 4

// MediaUploader uploads images.
type MediaUploader interface {
	UploadMedia(ctx context.Context, imageURL string) (string, error)
}

// ImageFailure is image which couldn't be uploaded.
type ImageFailure struct {
	URL string
	Err error
}

// UploadResult is result of uploading product images.
type UploadResult struct {
	// Handles of uploaded images in order of source images.
	Handles  []string
	Failures []ImageFailure
}

// UploadAll uploads all images, at most limit at once. Every image is attempted,
// failure of one image doesn't stop the others.
func UploadAll(ctx context.Context, uploader MediaUploader, imageURLs []string, limit int) UploadResult {
	handles := make([]string, len(imageURLs))
	errs := make([]error, len(imageURLs))

	group := errgroup.Group{}
	group.SetLimit(max(limit, 1))

	for ix, imageURL := range imageURLs {
		group.Go(func() error {
			handles[ix], errs[ix] = uploader.UploadMedia(ctx, imageURL)
			return nil
		})
	}

	_ = group.Wait()

	result := UploadResult{Handles: make([]string, 0, len(imageURLs))}
	for ix, imageURL := range imageURLs {
		if errs[ix] != nil {
			result.Failures = append(result.Failures, ImageFailure{URL: imageURL, Err: errs[ix]})
			continue
		}
		result.Handles = append(result.Handles, handles[ix])
	}

	return result
}
