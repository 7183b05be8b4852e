package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxDimension is maximal width and height of uploaded images.
	DefaultMaxDimension = 2000
	// DefaultJPEGQuality is quality of re-encoded images.
	DefaultJPEGQuality = 85

	stagedFilename = "product-image.jpg"
	jpegMimeType   = "image/jpeg"
	maxImageSize   = 50 << 20
)

const stagedUploadsCreateMutation = `
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters { name value }
    }
    userErrors { field message }
  }
}`

type stagedUploadsCreateData struct {
	StagedUploadsCreate struct {
		StagedTargets []stagedTarget `json:"stagedTargets"`
		UserErrors    []UserError    `json:"userErrors"`
	} `json:"stagedUploadsCreate"`
}

type stagedTarget struct {
	URL         string `json:"url"`
	ResourceURL string `json:"resourceUrl"`
}

// UploadMedia downloads image, re-encodes it into bounded JPEG and uploads it through staged upload.
// It returns resource URL which can be attached to product as media.
func (c *Client) UploadMedia(ctx context.Context, imageURL string) (string, error) {
	raw, err := c.download(ctx, imageURL)
	if err != nil {
		return "", err
	}

	encoded, err := c.reencode(raw)
	if err != nil {
		return "", err
	}

	target, err := c.createStagedTarget(ctx, len(encoded))
	if err != nil {
		return "", err
	}

	if err := c.putStaged(ctx, target.URL, encoded); err != nil {
		return "", err
	}

	return target.ResourceURL, nil
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: HTTP %d", ErrDownloadFailed, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: can't read image: %w", ErrDownloadFailed, err)
	}

	return raw, nil
}

// reencode fits image into max dimension without enlarging it and encodes it as JPEG.
func (c *Client) reencode(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: can't decode image: %w", ErrDownloadFailed, err)
	}

	img = imaging.Fit(img, c.maxDimension, c.maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.jpegQuality)); err != nil {
		return nil, fmt.Errorf("can't encode image: %w", err)
	}

	return buf.Bytes(), nil
}

func (c *Client) createStagedTarget(ctx context.Context, size int) (*stagedTarget, error) {
	data, err := decodeData[stagedUploadsCreateData](ctx, c, stagedUploadsCreateMutation, map[string]any{
		"input": []map[string]any{{
			"filename":   stagedFilename,
			"mimeType":   jpegMimeType,
			"fileSize":   strconv.Itoa(size),
			"resource":   "PRODUCT_IMAGE",
			"httpMethod": http.MethodPut,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStagedUploadFailed, err)
	}

	result := data.StagedUploadsCreate
	if len(result.UserErrors) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrStagedUploadFailed, &result.UserErrors[0])
	}

	if len(result.StagedTargets) == 0 || result.StagedTargets[0].URL == "" {
		return nil, fmt.Errorf("%w: no staged target returned", ErrStagedUploadFailed)
	}

	return &result.StagedTargets[0], nil
}

func (c *Client) putStaged(ctx context.Context, targetURL string, content []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, targetURL, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStagedUploadFailed, err)
	}

	req.Header.Set("Content-Type", jpegMimeType)
	req.ContentLength = int64(len(content))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStagedUploadFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: HTTP %d", ErrStagedUploadFailed, resp.StatusCode)
	}

	return nil
}
