package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGenerateVideoPollsUntilDone(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/v1beta/models/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(videoOperation{Name: "operations/job-1"})
	})
	mux.HandleFunc("/v1beta/operations/job-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			json.NewEncoder(w).Encode(videoOperation{Name: "operations/job-1", Done: false})
			return
		}
		fmt.Fprintf(w, `{"name":"operations/job-1","done":true,"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":%q}}]}}}`, srv.URL+"/asset")
	})
	mux.HandleFunc("/asset", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("binary-video"))
	})

	client := New(Options{
		APIKeys:      []string{"k"},
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  2 * time.Second,
	})

	data, mime, err := client.GenerateVideo(context.Background(), VideoRequest{Prompt: "sunset"})
	if err != nil {
		t.Fatalf("GenerateVideo() error = %v", err)
	}
	if !bytes.Equal(data, []byte("binary-video")) {
		t.Errorf("asset bytes = %q", data)
	}
	if mime != "video/mp4" {
		t.Errorf("mime = %q", mime)
	}
	if polls.Load() < 3 {
		t.Errorf("polls = %d, want at least 3", polls.Load())
	}
}

func TestGenerateVideoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "operations/") {
			json.NewEncoder(w).Encode(videoOperation{Name: "operations/slow", Done: false})
			return
		}
		json.NewEncoder(w).Encode(videoOperation{Name: "operations/slow"})
	}))
	t.Cleanup(srv.Close)

	client := New(Options{
		APIKeys:      []string{"k"},
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  30 * time.Millisecond,
	})

	_, _, err := client.GenerateVideo(context.Background(), VideoRequest{Prompt: "sunset"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if KindOf(err) != KindTimeout {
		t.Errorf("KindOf(err) = %q, want %q", KindOf(err), KindTimeout)
	}
}

func TestGenerateVideoNoVideoURI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"operations/job-2","done":true,"response":{"generateVideoResponse":{"generatedSamples":[]}}}`)
	}))
	t.Cleanup(srv.Close)

	client := New(Options{
		APIKeys:      []string{"k"},
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
		PollInterval: 5 * time.Millisecond,
		PollTimeout:  time.Second,
	})

	_, _, err := client.GenerateVideo(context.Background(), VideoRequest{Prompt: "sunset"})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindNoVideoURI {
		t.Errorf("KindOf(err) = %q, want %q", KindOf(err), KindNoVideoURI)
	}
}

func TestGenerateVideoCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "operations/") {
			json.NewEncoder(w).Encode(videoOperation{Name: "operations/slow", Done: false})
			return
		}
		json.NewEncoder(w).Encode(videoOperation{Name: "operations/slow"})
	}))
	t.Cleanup(srv.Close)

	client := New(Options{
		APIKeys:      []string{"k"},
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
		PollInterval: 20 * time.Millisecond,
		PollTimeout:  10 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, _, err := client.GenerateVideo(ctx, VideoRequest{Prompt: "sunset"})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if ctx.Err() == nil {
		t.Error("context should be cancelled")
	}
}
