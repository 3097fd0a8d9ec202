package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/toolloop/providers/observability"
)

// HTTPError is returned by DoPostSync for a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, TruncateString(e.Body, DefaultMaxStringLength))
}

// DoPostSync POSTs body as JSON to url and decodes the JSON response into
// OutputStruct. apiKey, when set, is sent as a bearer token. HTTP events are
// recorded on the span carried by ctx, if any.
//
// Errors: transport failures (including context cancellation) are wrapped,
// non-2xx statuses yield *HTTPError, undecodable bodies include a preview.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any) (*http.Response, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)
	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return nil, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer closeWithLog(res.Body, url)

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &HTTPError{StatusCode: res.StatusCode, Body: string(respBody)}
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateString(string(respBody), DefaultMaxStringLength))
	}

	return res, &resStruct, nil
}

// closeWithLog closes c, logging a failure instead of returning it so that it
// never masks the primary error of the caller.
func closeWithLog(c io.Closer, url string) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error(), "url", url)
	}
}
