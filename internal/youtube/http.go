package youtube

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// doWithRetry performs the request, retrying 5xx and 429 responses with
// exponential backoff before the final status is classified by the
// caller. Transient upstream hiccups should not burn a strategy tier.
func doWithRetry(client *http.Client, req *http.Request) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		var err error
		resp, err = client.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}
		return nil
	}

	backoffConfig := backoff.NewExponentialBackOff()
	backoffConfig.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffConfig, req.Context())); err != nil {
		return nil, err
	}
	return resp, nil
}

// classifyStatus maps a non-OK upstream status to a fetch error kind.
func classifyStatus(statusCode int) *FetchError {
	switch {
	case statusCode == http.StatusTooManyRequests || statusCode == http.StatusForbidden:
		return NewFetchError(KindRequestBlocked, fmt.Sprintf("upstream returned status %d", statusCode))
	case statusCode == http.StatusNotFound:
		return NewFetchError(KindVideoUnavailable, "upstream returned status 404")
	default:
		return NewFetchError(KindRequestBlocked, fmt.Sprintf("unexpected upstream status %d", statusCode))
	}
}
