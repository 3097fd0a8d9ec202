package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoResponse struct {
	Value int    `json:"value"`
	Got   string `json:"got"`
}

func TestDoPostSync_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"value":42,"got":%q}`, body["q"])
	}))
	defer server.Close()

	res, result, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "test-key", map[string]string{"q": "ping"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 42, result.Value)
	assert.Equal(t, "ping", result.Got)
}

func TestDoPostSync_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), nil, server.URL, "", struct{}{})
	assert.NoError(t, err)
}

func TestDoPostSync_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "slow down")
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "", map[string]string{})
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, "slow down", httpErr.Body)
	assert.Contains(t, err.Error(), "429")
}

func TestDoPostSync_UnmarshalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
	assert.Contains(t, err.Error(), "not json")
}

func TestDoPostSync_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := DoPostSync[echoResponse](ctx, server.Client(), server.URL, "", map[string]string{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoPostSync_MarshalError(t *testing.T) {
	_, _, err := DoPostSync[echoResponse](context.Background(), nil, "http://unused", "", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshaling")
}

type errCloser struct{}

func (errCloser) Close() error { return errors.New("close error") }

func TestCloseWithLog_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { closeWithLog(errCloser{}, "http://example") })
}

func TestJSONToString(t *testing.T) {
	assert.Equal(t, `{"a":1}`, JSONToString(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}", JSONToString(map[string]int{"a": 1}, true))
	assert.True(t, strings.HasPrefix(JSONToString(make(chan int)), `{"error"`))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 5))
	assert.Equal(t, "ab... (truncated, total: 5 chars)", TruncateString("abcde", 2))
	assert.Equal(t, strings.Repeat("x", 10), TruncateString(strings.Repeat("x", 10), 0))
}

func TestTruncateString_RuneBoundary(t *testing.T) {
	assert.Equal(t, "héllo", TruncateString("héllo", 5), "five characters fit even though they take six bytes")
	assert.Equal(t, "日本... (truncated, total: 5 chars)", TruncateString("日本語です", 2))

	truncated := TruncateString(strings.Repeat("é", 10), 3)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, "ééé... (truncated, total: 10 chars)", truncated)
}
