package graphapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/dto"
	"pageview-capi/pkg/utils"
)

const (
	DefaultBasePath = "https://graph.facebook.com/v11.0"
	DefaultTimeout  = 30 // seconds
)

var (
	ErrMissingPixelID     = errors.New("missing pixel id")
	ErrMissingAccessToken = errors.New("missing access token")
)

// EventsResponse is the success body of POST /<pixel_id>/events.
type EventsResponse struct {
	EventsReceived int      `json:"events_received"`
	Messages       []string `json:"messages"`
	FbTraceId      string   `json:"fbtrace_id"`
}

type Client struct {
	BasePath string
	HTTP     *http.Client
}

// NewClient builds a client from http_client.path and http_client.timeout.
func NewClient() *Client {
	rawPath := strings.TrimRight(utils.ViperGetStringWithDefault("http_client.path", DefaultBasePath), "/")

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 100

	timeout := utils.ViperGetIntWithDefault("http_client.timeout", DefaultTimeout)

	return &Client{
		BasePath: rawPath,
		HTTP: &http.Client{
			Timeout:   time.Duration(timeout) * time.Second,
			Transport: t,
		},
	}
}

// SendEvents makes exactly one request; it never retries.
func (c *Client) SendEvents(ctx context.Context, pixelId, accessToken string, data *dto.Data) (*EventsResponse, error) {
	logContext := logger.LoggerCtx(ctx)

	if len(pixelId) == 0 {
		return nil, ErrMissingPixelID
	}
	if len(accessToken) == 0 {
		return nil, ErrMissingAccessToken
	}

	rawBody, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "marshal events body")
	}

	path := fmt.Sprintf("%v/%v/events?access_token=%v", c.BasePath, url.PathEscape(pixelId), url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewBuffer(rawBody))
	if err != nil {
		return nil, errors.Wrap(err, "create events request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.httpClient().Do(req)
	timeLog(start, "do http request")
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		logContext.Errorw("Error read body",
			"extra_readable_info", err.Error())
		body = nil
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(res.StatusCode, body)
	}

	result := &EventsResponse{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			logContext.Warnw("Could not decode events response", "err", err.Error(), "pid", pixelId)
		}
	}
	return result, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func timeLog(ts time.Time, task string) {
	elapsed := time.Since(ts)
	if elapsed < 200*time.Millisecond {
		return
	}
	logger.BkLog.Infof("%v took %v", task, elapsed)
}
