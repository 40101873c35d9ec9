package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONSendsParamsAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "TX", r.URL.Query().Get("st"))
		assert.Equal(t, "1", r.URL.Query().Get("keep"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := NewClient(time.Second, nil).GetJSON(context.Background(), server.URL+"?keep=1", url.Values{"st": {"TX"}}, &out)

	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestPostJSONSendsBodyAndBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "apikey", user)
		assert.Equal(t, "k", pass)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v", body["k"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"done"}`))
	}))
	defer server.Close()

	var out map[string]string
	err := NewClient(time.Second, nil, WithBasicAuth("apikey", "k")).PostJSON(context.Background(), server.URL, nil, map[string]string{"k": "v"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "done", out["message"])
}

func TestRemoteErrorOnStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(time.Second, nil).GetJSON(context.Background(), server.URL, nil, &struct{}{})

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusBadGateway, remote.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestRemoteErrorOnUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	var out []string
	err := NewClient(time.Second, nil).GetJSON(context.Background(), server.URL, nil, &out)

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusOK, remote.StatusCode)
}

func TestRemoteErrorOnNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	err := NewClient(time.Second, nil).GetJSON(context.Background(), endpoint, nil, &struct{}{})

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Zero(t, remote.StatusCode)
	assert.Contains(t, remote.Error(), endpoint)
}

func TestRemoteErrorOnCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewClient(time.Second, nil).GetJSON(ctx, server.URL, nil, &struct{}{})

	assert.ErrorIs(t, err, context.Canceled)
}
