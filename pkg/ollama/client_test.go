package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipengqi/modelsync/pkg/api"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = fmt.Fprint(w, `{"models":[
			{"name":"llama2:7b","model":"llama2:7b","digest":"aaa","size":10},
			{"name":"acme/coder:latest","digest":"bbb"}
		]}`)
	})

	models, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama2:7b", models[0].Name)
	assert.Equal(t, "aaa", models[0].Digest)
	assert.Equal(t, "acme/coder:latest", models[1].Name)
	assert.Equal(t, "bbb", models[1].Digest)
}

func TestList_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "store is busy", http.StatusInternalServerError)
	})

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "store is busy")
}

func TestList_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list local models")
}

func TestPull(t *testing.T) {
	var req api.PullRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/pull", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = fmt.Fprintln(w, `{"status":"pulling manifest"}`)
		_, _ = fmt.Fprintln(w, `{"status":"pulling 8934d96d3f08","digest":"sha256:8934","total":100,"completed":10}`)
		_, _ = fmt.Fprintln(w, ``)
		_, _ = fmt.Fprintln(w, `{"status":"success"}`)
	})

	var events []api.ProgressEvent
	err := c.Pull(context.Background(), "llama2:7b", func(ev api.ProgressEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, api.PullRequest{Model: "llama2:7b", Stream: true}, req)
	require.Len(t, events, 3)
	assert.Equal(t, "pulling manifest", events[0].Status)
	assert.Equal(t, api.ProgressEvent{Status: "pulling 8934d96d3f08", Digest: "sha256:8934", Total: 100, Completed: 10}, events[1])
	assert.Equal(t, "success", events[2].Status)
}

func TestPull_ErrorEvent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, `{"status":"pulling manifest"}`)
		_, _ = fmt.Fprintln(w, `{"error":"pull model manifest: file does not exist"}`)
		_, _ = fmt.Fprintln(w, `{"status":"success"}`)
	})

	var n int
	err := c.Pull(context.Background(), "nope:latest", func(api.ProgressEvent) error {
		n++
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
	assert.Equal(t, 1, n, "events after an error are not delivered")
}

func TestPull_CallbackError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, `{"status":"pulling manifest"}`)
		_, _ = fmt.Fprintln(w, `{"status":"success"}`)
	})
	stop := errors.New("stop")

	err := c.Pull(context.Background(), "llama2:7b", func(api.ProgressEvent) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestPull_BadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not allowed", http.StatusForbidden)
	})

	err := c.Pull(context.Background(), "llama2:7b", func(api.ProgressEvent) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestPull_MalformedEvent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, `{"status":`)
	})

	err := c.Pull(context.Background(), "llama2:7b", func(api.ProgressEvent) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode progress event")
}
