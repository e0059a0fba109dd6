// Package photo derives a candidate portrait region from the document
// image: a face crop when the detection service finds one, a bounded
// downscale of the whole image otherwise. Photo absence is never fatal.
package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"sync"
	"time"
)

// Box is a face bounding box in source-image pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detector finds the single best face in an image. A nil box with a
// nil error means no face was found.
type Detector interface {
	DetectFace(ctx context.Context, img image.Image) (*Box, error)
}

// HTTPDetector calls an external face-detection service. The service
// loads its model once; LoadModel is guarded so the one-shot warmup
// happens on first use and its outcome is reused by every later call.
type HTTPDetector struct {
	baseURL    string
	httpClient *http.Client

	warmup    sync.Once
	warmupErr error
}

func NewHTTPDetector(baseURL string, timeout time.Duration) *HTTPDetector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDetector{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LoadModel asks the service to load its detection model. Safe to call
// any number of times; only the first call reaches the service.
func (c *HTTPDetector) LoadModel(ctx context.Context) error {
	c.warmup.Do(func() {
		c.warmupErr = c.post(ctx, "/api/model/load", nil, nil)
	})
	return c.warmupErr
}

// DetectFace submits the image and returns the best face box, or nil
// when the service reports none.
func (c *HTTPDetector) DetectFace(ctx context.Context, img image.Image) (*Box, error) {
	if err := c.LoadModel(ctx); err != nil {
		return nil, fmt.Errorf("load detection model: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode image for detection: %w", err)
	}

	reqBody := map[string]any{
		"image": base64.StdEncoding.EncodeToString(buf.Bytes()),
		"mode":  "fast", // single best face, no landmarks
	}

	var detectResponse struct {
		Faces []Box `json:"faces"`
	}
	if err := c.post(ctx, "/api/detect", reqBody, &detectResponse); err != nil {
		return nil, err
	}
	if len(detectResponse.Faces) == 0 {
		return nil, nil
	}
	return &detectResponse.Faces[0], nil
}

func (c *HTTPDetector) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("detector returned status %d: %s", resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
