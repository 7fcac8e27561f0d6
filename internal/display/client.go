package display

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/realtime"
	"github.com/masjid-cloud/minbar/internal/rotation"
	"github.com/masjid-cloud/minbar/internal/schedule"
)

// Client is the display-side runtime: it keeps a push socket to the server,
// polls the content endpoint as a fallback, and drives the rotation engine.
// Losing the push channel is degraded operation, not fatal: the client keeps
// showing its last resolved content and keeps polling.
type Client struct {
	serverURL    string // e.g. http://localhost:8080
	token        string
	engine       *rotation.Engine
	httpc        *http.Client
	pollInterval time.Duration

	maxDialAttempts int
	dialBackoff     time.Duration

	onStatus   func(connected bool)
	onTemplate func(template string)
	onReload   func()

	// refetchMu serializes refetch between the poll ticker and the socket
	// read goroutine; lastPayload is only touched under it.
	refetchMu   sync.Mutex
	lastPayload []byte
}

type Options struct {
	ServerURL    string
	Token        string
	PollInterval time.Duration

	// websocket reconnect policy
	MaxDialAttempts int
	DialBackoff     time.Duration

	OnShow     func(schedule.ResolvedContent)
	OnStatus   func(connected bool)
	OnTemplate func(template string)
	OnReload   func()
}

func NewClient(opts Options) *Client {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Minute
	}
	if opts.MaxDialAttempts <= 0 {
		opts.MaxDialAttempts = 10
	}
	if opts.DialBackoff <= 0 {
		opts.DialBackoff = 5 * time.Second
	}
	return &Client{
		serverURL:       opts.ServerURL,
		token:           opts.Token,
		engine:          rotation.NewEngine(opts.OnShow),
		httpc:           &http.Client{Timeout: 15 * time.Second},
		pollInterval:    opts.PollInterval,
		maxDialAttempts: opts.MaxDialAttempts,
		dialBackoff:     opts.DialBackoff,
		onStatus:        opts.OnStatus,
		onTemplate:      opts.OnTemplate,
		onReload:        opts.OnReload,
	}
}

// Run blocks until the context is cancelled. It fetches content once up
// front, starts the poll fallback, and maintains the push socket.
func (c *Client) Run(ctx context.Context) {
	c.refetch(ctx, true)

	go c.pollLoop(ctx)
	c.socketLoop(ctx)

	c.engine.Stop()
}

func (c *Client) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refetch(ctx, false)
		}
	}
}

// socketLoop dials with bounded attempts and a fixed backoff. Once the
// attempt budget is spent the client reports a persistent disconnected
// status and lives off the poll fallback alone.
func (c *Client) socketLoop(ctx context.Context) {
	attempts := 0
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := c.dial()
		if err != nil {
			attempts++
			log.Warn().Err(err).Int("attempt", attempts).Msg("push socket dial failed")
			if attempts >= c.maxDialAttempts {
				c.setStatus(false)
				log.Error().Msg("push socket retries exhausted, polling only")
				<-ctx.Done()
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.dialBackoff):
			}
			continue
		}

		attempts = 0
		c.setStatus(true)
		c.readEnvelopes(ctx, conn)
		c.setStatus(false)
		_ = conn.Close()

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.dialBackoff):
		}
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/tv/socket"
	u.RawQuery = url.Values{"token": {c.token}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	return conn, err
}

func (c *Client) readEnvelopes(ctx context.Context, conn *websocket.Conn) {
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		var env realtime.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		c.handle(ctx, env)
	}
}

func (c *Client) handle(ctx context.Context, env realtime.Envelope) {
	log.Debug().Str("event", env.Event).Time("ts", env.TS).Msg("push received")
	switch env.Event {
	case realtime.EventAnnouncementUpdate, realtime.EventScheduleUpdate, realtime.EventContentUpdate:
		c.refetch(ctx, false)
	case realtime.EventTemplateChanged:
		// rendering template only; the rotation index is untouched
		var data struct {
			Template string `json:"template"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil && c.onTemplate != nil {
			c.onTemplate(data.Template)
		}
	case realtime.EventRefresh, realtime.EventDeviceReload:
		if c.onReload != nil {
			c.onReload()
		}
		c.refetch(ctx, true)
	}
}

// refetch pulls resolved content and restarts the rotation when the list
// changed. Identical payloads leave the engine alone so the periodic poll
// does not reset a healthy rotation. The lock keeps a poll-triggered and a
// push-triggered refetch from interleaving.
func (c *Client) refetch(ctx context.Context, force bool) {
	c.refetchMu.Lock()
	defer c.refetchMu.Unlock()

	items, raw, err := c.fetchContent(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("content fetch failed, keeping last resolved content")
		return
	}
	if !force && bytes.Equal(raw, c.lastPayload) {
		return
	}
	c.lastPayload = raw
	c.engine.SetContent(items)
}

func (c *Client) fetchContent(ctx context.Context) ([]schedule.ResolvedContent, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/tv/content", nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("content endpoint returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	var items []schedule.ResolvedContent
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil, err
	}
	return items, raw, nil
}

func (c *Client) setStatus(connected bool) {
	if c.onStatus != nil {
		c.onStatus(connected)
	}
}
