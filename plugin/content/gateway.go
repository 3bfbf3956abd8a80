package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/openlens/trustfeed/internal/errors"
)

// maxRecordSize bounds how much of a record body is read. Records are
// small structured documents; anything larger is treated as malformed.
const maxRecordSize = 1 << 20

// Gateway retrieves raw record bytes by cid.
type Gateway interface {
	Get(ctx context.Context, cid string) ([]byte, error)
}

// HTTPGateway fetches records from a content-addressed HTTP store at
// {baseURL}/{cid}. Requests are rate limited and bounded by a per-fetch
// timeout so one slow backend cannot stall a whole ranking pass.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewHTTPGateway creates a gateway for baseURL. ratePerSec caps outgoing
// request rate; timeout bounds each individual fetch.
func NewHTTPGateway(baseURL string, ratePerSec float64, timeout time.Duration) *HTTPGateway {
	if ratePerSec <= 0 {
		ratePerSec = 50
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	burst := int(ratePerSec)
	if burst < 1 {
		burst = 1
	}
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		timeout: timeout,
	}
}

// Get fetches the raw bytes for cid. The cid must already be validated;
// it is interpolated into the request path as-is.
func (g *HTTPGateway) Get(ctx context.Context, cid string) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, apperrors.FetchError("rate limit wait aborted", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+cid, nil)
	if err != nil {
		return nil, apperrors.FetchError("failed to build request", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperrors.FetchError(fmt.Sprintf("failed to fetch %s", cid), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.FetchError(fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, cid), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordSize))
	if err != nil {
		return nil, apperrors.FetchError(fmt.Sprintf("failed to read body for %s", cid), err)
	}
	return body, nil
}
