package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/shipengqi/modelsync/pkg/models"
)

const ManifestV2MediaType = "application/vnd.docker.distribution.manifest.v2+json"

var (
	// Common errors
	OK                = &Errno{Code: 200, Message: "OK"}
	BadRequestErr     = &Errno{Code: 400, Message: "Bad Request"}
	UnauthorizedErr   = &Errno{Code: 401, Message: "Unauthorized."}
	ForbiddenErr      = &Errno{Code: 403, Message: "Forbidden."}
	NotFoundErr       = &Errno{Code: 404, Message: "Not Found."}
	TooManyRequestErr = &Errno{Code: 429, Message: "Too Many Requests"}
	InternalServerErr = &Errno{Code: 500, Message: "Internal server error"}
)

type Client struct {
	*resty.Client

	limiter *rate.Limiter
}

func New() *Client {
	return &Client{Client: resty.New()}
}

// SetRequestsPerSecond caps the request rate. Zero or less disables the cap.
func (c *Client) SetRequestsPerSecond(rps float64) {
	if rps <= 0 {
		c.limiter = nil
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

func (c *Client) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		c.SetTimeout(d)
	}
}

// FetchManifest get the raw manifest of a model. A non-200 response is
// returned as *Errno.
func (c *Client) FetchManifest(ctx context.Context, repo, reference string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	res, err := c.R().
		SetContext(ctx).
		SetHeader("Accept", ManifestV2MediaType).
		Get(models.Reference{Repo: repo, Tag: reference}.Path())
	if err != nil {
		return nil, fmt.Errorf("fetch manifest %s:%s: %w", repo, reference, err)
	}
	if status := handleResponseStatus(res); status != OK {
		return nil, status
	}
	return res.Body(), nil
}

func handleResponseStatus(res *resty.Response) *Errno {
	if res == nil {
		return InternalServerErr
	}
	switch res.StatusCode() {
	case OK.Code:
		return OK
	case BadRequestErr.Code:
		return BadRequestErr
	case UnauthorizedErr.Code:
		return UnauthorizedErr
	case ForbiddenErr.Code:
		return ForbiddenErr
	case NotFoundErr.Code:
		return NotFoundErr
	case TooManyRequestErr.Code:
		return TooManyRequestErr
	}
	return &Errno{Code: res.StatusCode(), Message: http.StatusText(res.StatusCode())}
}
