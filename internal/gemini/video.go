package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type VideoRequest struct {
	Prompt      string
	Image       string // optional data URI to animate
	AspectRatio string // 16:9 / 9:16
}

// GenerateVideo submits an asynchronous Veo job and polls it until the asset
// is ready, then downloads the binary. Polling is bounded: a fixed interval
// with mild backoff under an overall deadline, surfacing KindTimeout when it
// lapses instead of spinning forever.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) ([]byte, string, error) {
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "16:9"
	}

	instance := videoInstance{Prompt: req.Prompt}
	if req.Image != "" {
		mime, data := splitDataURI(req.Image)
		instance.Image = &struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
			MimeType           string `json:"mimeType"`
		}{BytesBase64Encoded: data, MimeType: mime}
	}

	body, err := json.Marshal(videoGenerateRequest{
		Instances: []videoInstance{instance},
		Parameters: videoParameters{
			AspectRatio:    aspect,
			Resolution:     "720p",
			NumberOfVideos: 1,
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshal video request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:predictLongRunning", c.baseURL, c.apiVersion, c.videoModel)
	rawBody, statusCode, err := c.post(ctx, url, body)
	if err != nil {
		return nil, "", err
	}
	if statusCode != http.StatusOK {
		return nil, "", c.classifyHTTP(statusCode, rawBody)
	}

	var op videoOperation
	if err := json.Unmarshal(rawBody, &op); err != nil {
		return nil, "", newError(KindMalformedResponse, msgMalformed, err)
	}
	if op.Name == "" {
		return nil, "", newError(KindMalformedResponse, msgMalformed, fmt.Errorf("operation has no name"))
	}

	uri, err := c.pollVideoOperation(ctx, op)
	if err != nil {
		return nil, "", err
	}
	return c.downloadVideo(ctx, uri)
}

func (c *Client) pollVideoOperation(ctx context.Context, op videoOperation) (string, error) {
	deadline := time.Now().Add(c.pollTimeout)
	interval := c.pollInterval

	for !op.Done {
		if time.Now().After(deadline) {
			return "", newError(KindTimeout, msgTimeout, fmt.Errorf("video job %s still pending after %s", op.Name, c.pollTimeout))
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
		// Gentle backoff, capped at three times the base interval.
		if next := interval + c.pollInterval/2; next <= 3*c.pollInterval {
			interval = next
		}

		refreshed, err := c.getVideoOperation(ctx, op.Name)
		if err != nil {
			return "", err
		}
		op = refreshed
		c.log.Debug("video job polled", zap.String("operation", op.Name), zap.Bool("done", op.Done))
	}

	if op.Error != nil {
		return "", fmt.Errorf("video job failed: %s", op.Error.Message)
	}
	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return "", newError(KindNoVideoURI, msgNoVideoURI, nil)
	}
	uri := op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI
	if uri == "" {
		return "", newError(KindNoVideoURI, msgNoVideoURI, nil)
	}
	return uri, nil
}

func (c *Client) getVideoOperation(ctx context.Context, name string) (videoOperation, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return videoOperation{}, err
	}
	req.Header.Set("x-goog-api-key", c.currentKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return videoOperation{}, fmt.Errorf("poll video job: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return videoOperation{}, fmt.Errorf("read poll response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return videoOperation{}, c.classifyHTTP(resp.StatusCode, rawBody)
	}

	var op videoOperation
	if err := json.Unmarshal(rawBody, &op); err != nil {
		return videoOperation{}, newError(KindMalformedResponse, msgMalformed, err)
	}
	return op, nil
}

// downloadVideo fetches the finished asset and returns its bytes and mime
// type.
func (c *Client) downloadVideo(ctx context.Context, uri string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("x-goog-api-key", c.currentKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		rawBody, _ := io.ReadAll(resp.Body)
		return nil, "", c.classifyHTTP(resp.StatusCode, rawBody)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read video asset: %w", err)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "video/mp4"
	}
	return data, mime, nil
}
