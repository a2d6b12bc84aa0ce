package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONMergesQueryAndHeaders(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"markets":[{"name":"stETH"}]}`))
	}))
	defer srv.Close()

	var dest struct {
		Markets []struct {
			Name string `json:"name"`
		} `json:"markets"`
	}
	c := NewClient(WithTimeout(2 * time.Second))
	err := c.GetJSON(context.Background(), GetRequest{
		URL:     srv.URL + "/markets?isActive=true",
		Query:   url.Values{"chainId": {"1"}},
		Headers: map[string]string{"X-Trace": "abc"},
	}, &dest)
	require.NoError(t, err)

	require.Len(t, dest.Markets, 1)
	assert.Equal(t, "stETH", dest.Markets[0].Name)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "true", got.URL.Query().Get("isActive"))
	assert.Equal(t, "1", got.URL.Query().Get("chainId"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "abc", got.Header.Get("X-Trace"))
	assert.Equal(t, userAgent, got.Header.Get("User-Agent"))
}

func TestGetJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var dest map[string]interface{}
	err := NewClient().GetJSON(context.Background(), GetRequest{URL: srv.URL}, &dest)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, se.Body, "maintenance")
}

func TestGetJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"markets":`))
	}))
	defer srv.Close()

	var dest map[string]interface{}
	err := NewClient().GetJSON(context.Background(), GetRequest{URL: srv.URL}, &dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}
