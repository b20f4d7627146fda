// Package nx talks to the NX Witness server: generic events for detections
// and event rules for arming.
package nx

import (
	"context"

	"camect-relay/config"

	"github.com/go-resty/resty/v2"
)

const (
	createEventPath   = "/api/createEvent"
	saveEventRulePath = "/ec2/saveEventRule"
)

type Client struct {
	HTTP *resty.Client
}

func NewClient(cfg config.VMSConfig) *Client {
	r := resty.New()
	r.SetBaseURL(cfg.URL)
	r.SetBasicAuth(cfg.User, cfg.Password)
	r.SetTimeout(cfg.Timeout)

	return &Client{HTTP: r}
}

// CreateEvent raises a generic event with the given caption, bound to one
// camera.
func (c *Client) CreateEvent(ctx context.Context, caption, cameraID string) error {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetQueryParamsFromValues(config.EventQuery(caption, cameraID)).
		Get(createEventPath)
	if err != nil {
		return &NetworkError{Op: "createEvent", Err: err}
	}
	if !resp.IsSuccess() {
		return &StatusError{Op: "createEvent", Code: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// SaveEventRule posts a rule definition verbatim.
func (c *Client) SaveEventRule(ctx context.Context, body []byte) error {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(saveEventRulePath)
	if err != nil {
		return &NetworkError{Op: "saveEventRule", Err: err}
	}
	if !resp.IsSuccess() {
		return &StatusError{Op: "saveEventRule", Code: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
