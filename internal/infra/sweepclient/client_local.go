//go:build !gcloud

package sweepclient

import (
	"context"
	"net/http"
	"time"
)

func newHTTPClient(_ context.Context, _ string, timeout time.Duration) (*http.Client, error) {
	return &http.Client{Timeout: timeout}, nil
}
