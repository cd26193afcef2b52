//go:build gcloud

package sweepclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/idtoken"
)

// newHTTPClient returns a client that attaches an ID token minted for the
// service at audience, as Cloud Run requires for authenticated invocations.
func newHTTPClient(ctx context.Context, audience string, timeout time.Duration) (*http.Client, error) {
	httpClient, err := idtoken.NewClient(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to create idtoken client for %s: %w", audience, err)
	}
	httpClient.Timeout = timeout
	return httpClient, nil
}
