package camect

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"camect-relay/config"
	"camect-relay/log"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
)

const (
	maxDialAttempts int           = 5
	restartDelay    time.Duration = 3 * time.Second
)

// Handler receives every alert frame read from the hub.
type Handler func(ctx context.Context, evt Event)

type Client struct {
	cfg    config.HubConfig
	base   string
	HTTP   *resty.Client
	dialer *websocket.Dialer

	retryCfg     retry.Config
	restartDelay time.Duration
}

func NewClient(cfg config.HubConfig) *Client {
	base := cfg.Host
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	base = strings.TrimRight(base, "/")

	tlsCfg := &tls.Config{InsecureSkipVerify: cfg.Insecure}

	r := resty.New()
	r.SetBaseURL(base + "/api")
	r.SetBasicAuth(cfg.User, cfg.Password)
	r.SetHeader("Accept", "application/json")
	r.SetTLSClientConfig(tlsCfg)
	r.SetTimeout(10 * time.Second)

	return &Client{
		cfg:  cfg,
		base: base,
		HTTP: r,
		dialer: &websocket.Dialer{
			TLSClientConfig:  tlsCfg,
			HandshakeTimeout: 10 * time.Second,
		},
		retryCfg: retry.Config{
			MaxAttempts:   maxDialAttempts,
			InitialDelay:  time.Second,
			BackoffPolicy: retry.BackoffExponential,
		},
		restartDelay: restartDelay,
	}
}

func (c *Client) GetHomeInfo(ctx context.Context) (*HomeInfo, error) {
	var info HomeInfo
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/GetHomeInfo")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to get home info: %s", resp.Status())
	}
	return &info, nil
}

func (c *Client) ListCameras(ctx context.Context) ([]Camera, error) {
	var env CameraListEnvelope
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&env).
		Get("/ListCameras")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to list cameras: %s", resp.Status())
	}
	return env.Camera, nil
}

func (c *Client) eventURL() string {
	u := c.base + "/api/event_ws"
	if strings.HasPrefix(u, "https://") {
		return "wss://" + strings.TrimPrefix(u, "https://")
	}
	return "ws://" + strings.TrimPrefix(u, "http://")
}

func (c *Client) authHeader() http.Header {
	token := base64.StdEncoding.EncodeToString([]byte(c.cfg.User + ":" + c.cfg.Password))
	return http.Header{"Authorization": []string{"Basic " + token}}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	r := retry.New[*websocket.Conn](c.retryCfg)
	return r.Do(ctx, func(ctx context.Context) (*websocket.Conn, error) {
		conn, resp, err := c.dialer.DialContext(ctx, c.eventURL(), c.authHeader())
		if err != nil {
			if resp != nil {
				return nil, fmt.Errorf("dial %s: %w (status %d)", c.eventURL(), err, resp.StatusCode)
			}
			return nil, fmt.Errorf("dial %s: %w", c.eventURL(), err)
		}
		return conn, nil
	})
}

// Listen subscribes to the hub's event stream and hands each alert to h on
// the calling goroutine. Dropped connections are re-established after a
// short delay. Listen returns nil once ctx is cancelled.
func (c *Client) Listen(ctx context.Context, h Handler) error {
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Errorf("Hub connection failed: %v", err)
		} else {
			log.Infof("Connected to hub event stream at %s", c.eventURL())
			err = c.read(ctx, conn, h)
			if ctx.Err() != nil {
				return nil
			}
			log.Warnf("Hub event stream closed: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.restartDelay):
		}
	}
}

func (c *Client) read(ctx context.Context, conn *websocket.Conn, h Handler) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
			conn.Close()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			log.Warnf("Skipping undecodable hub frame: %v", err)
			continue
		}

		switch evt.Type {
		case EVENT_ALERT:
			h(ctx, evt)
		case EVENT_MODE:
			log.Debugf("Hub mode changed to %q", evt.Mode)
		default:
			log.Debugf("Ignoring hub frame of type %q", evt.Type)
		}
	}
}

var ErrNoHost = errors.New("hub host not configured")

// Validate reports whether the client has enough configuration to connect.
func (c *Client) Validate() error {
	if c.cfg.Host == "" {
		return ErrNoHost
	}
	return nil
}
