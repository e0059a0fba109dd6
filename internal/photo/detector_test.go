package photo

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPDetectorDetectFace(t *testing.T) {
	var warmups atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/model/load":
			warmups.Add(1)
			w.WriteHeader(http.StatusOK)
		case "/api/detect":
			var req struct {
				Image string `json:"image"`
				Mode  string `json:"mode"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.NotEmpty(t, req.Image)
			require.Equal(t, "fast", req.Mode)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"faces": []Box{{X: 5, Y: 6, Width: 20, Height: 22}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := NewHTTPDetector(server.URL, time.Second)
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))

	box, err := c.DetectFace(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, &Box{X: 5, Y: 6, Width: 20, Height: 22}, box)

	// Model load happens exactly once across calls.
	_, err = c.DetectFace(context.Background(), img)
	require.NoError(t, err)
	require.Equal(t, int32(1), warmups.Load())
}

func TestHTTPDetectorNoFace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/detect" {
			_ = json.NewEncoder(w).Encode(map[string]any{"faces": []Box{}})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewHTTPDetector(server.URL, time.Second)
	box, err := c.DetectFace(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	require.Nil(t, box)
}

func TestHTTPDetectorServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/detect" {
			http.Error(w, "model crashed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewHTTPDetector(server.URL, time.Second)
	_, err := c.DetectFace(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestHTTPDetectorWarmupFailureIsSticky(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/model/load" {
			calls.Add(1)
			http.Error(w, "no model file", http.StatusInternalServerError)
			return
		}
	}))
	defer server.Close()

	c := NewHTTPDetector(server.URL, time.Second)
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	_, err1 := c.DetectFace(context.Background(), img)
	_, err2 := c.DetectFace(context.Background(), img)
	require.Error(t, err1)
	require.Error(t, err2)
	require.Equal(t, int32(1), calls.Load(), "warmup must not be retried")
}
