// Package ollama talks to the HTTP API of a local Ollama server.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/shipengqi/modelsync/pkg/api"
)

const DefaultHost = "http://127.0.0.1:11434"

// maxEventSize bounds one line of the pull stream.
const maxEventSize = 1 << 20

type Client struct {
	*resty.Client

	// stream carries pulls, which can outlast any request timeout.
	stream *resty.Client
}

// New creates a client for the server at host, e.g. "http://127.0.0.1:11434".
func New(host string) *Client {
	if host == "" {
		host = DefaultHost
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		Client: resty.New().SetBaseURL(host),
		stream: resty.New().SetBaseURL(host),
	}
}

func (c *Client) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		c.SetTimeout(d)
	}
}

// List returns the installed models in the order the server reports them.
func (c *Client) List(ctx context.Context) ([]api.LocalModel, error) {
	result := &api.ListResponse{}
	res, err := c.R().
		SetContext(ctx).
		SetResult(result).
		ForceContentType("application/json").
		Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("list local models: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("list local models: server returned %d: %s", res.StatusCode(), strings.TrimSpace(res.String()))
	}
	return result.Models, nil
}

// Pull streams a pull of the named model, calling fn for every progress
// event. It returns when the stream ends, fn fails or the server reports an
// error event.
func (c *Client) Pull(ctx context.Context, name string, fn func(api.ProgressEvent) error) error {
	res, err := c.stream.R().
		SetContext(ctx).
		SetBody(api.PullRequest{Model: name, Stream: true}).
		SetDoNotParseResponse(true).
		Post("/api/pull")
	if err != nil {
		return fmt.Errorf("pull %s: %w", name, err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.StatusCode() != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(body, maxEventSize))
		return fmt.Errorf("pull %s: server returned %d: %s", name, res.StatusCode(), strings.TrimSpace(string(msg)))
	}
	return decodeEvents(body, func(ev api.ProgressEvent) error {
		if ev.Error != "" {
			return fmt.Errorf("pull %s: %s", name, ev.Error)
		}
		return fn(ev)
	})
}

func decodeEvents(r io.Reader, fn func(api.ProgressEvent) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev api.ProgressEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("decode progress event: %w", err)
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	return scanner.Err()
}
