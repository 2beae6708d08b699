// Package httputil provides retry helpers for calls to the Analyze Re
// platform.
//
// [Retry] re-runs an operation with exponential backoff, but only when the
// returned error is marked transient with [Retryable]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := fetch()
//	    if err != nil {
//	        return httputil.Retryable(err) // network failure
//	    }
//	    if resp.StatusCode() >= 500 {
//	        return httputil.Retryable(fmt.Errorf("server error %d", resp.StatusCode()))
//	    }
//	    return nil
//	})
//
// Any other error stops the loop immediately.
package httputil
