// Package httputil provides retry helpers for network-facing code.
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped
// with [Retryable] are retried; everything else is returned on the first
// failure:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    ...
//	})
//
// The API client retries transport failures and 5xx responses this way, and
// the Redis cache retries network errors.
package httputil
