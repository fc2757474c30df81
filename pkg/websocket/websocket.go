package websocketPkg

import (
	"FaceStream/internal/entity"
	"FaceStream/pkg/deepface"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var ErrNotConnected = errors.New("not connected to face analysis service")

type IWebsocket interface {
	Analyze(ctx context.Context, jpeg []byte) (*entity.Analysis, error)
	IsConnected() bool
	Reconnect() error
	CloseConnections()
}

type Config struct {
	URL          string
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type webSocketClient struct {
	url          string
	conn         *websocket.Conn
	mu           sync.Mutex
	ioMu         sync.Mutex
	log          *logrus.Logger
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	closed       chan struct{}
	closeOnce    sync.Once
}

func NewAIWebSocketClient(cfg Config, log *logrus.Logger) IWebsocket {
	client := &webSocketClient{
		url:          cfg.URL,
		log:          log,
		pingInterval: orDefault(cfg.PingInterval, 30*time.Second),
		readTimeout:  orDefault(cfg.ReadTimeout, 10*time.Second),
		writeTimeout: orDefault(cfg.WriteTimeout, 5*time.Second),
		closed:       make(chan struct{}),
	}

	go client.connectInBackground()

	return client
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

func (c *webSocketClient) connectInBackground() {
	if _, err := c.connect(); err != nil {
		c.log.Warnf("Initial connection to face analysis service failed: %v. Will retry on demand.", err)
		return
	}
	c.log.Infof("Connected to face analysis service at %s", c.url)
}

func (c *webSocketClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

// Reconnect drops the current connection, if any, and dials again.
func (c *webSocketClient) Reconnect() error {
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	_, err := c.connect()
	return err
}

// connect returns the live connection, dialing only when there is none.
// Concurrent callers share a single dial.
func (c *webSocketClient) connect() (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closed:
		return nil, ErrNotConnected
	default:
	}

	if c.conn != nil {
		return c.conn, nil
	}

	if c.url == "" {
		return nil, errors.New("URL for face analysis service not configured")
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn

	go c.keepAlive(conn)

	return conn, nil
}

func (c *webSocketClient) CloseConnections() {
	c.closeOnce.Do(func() { close(c.closed) })

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *webSocketClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Ping failed for face analysis service, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

func (c *webSocketClient) drop(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == conn {
		c.conn = nil
	}
	conn.Close()
}

// Analyze sends one JPEG face crop as a binary message and waits for the
// JSON analysis reply. Calls are serialized on the single connection.
func (c *webSocketClient) Analyze(ctx context.Context, jpeg []byte) (*entity.Analysis, error) {
	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	conn, err := c.connect()
	if err != nil {
		return nil, fmt.Errorf("cannot connect to face analysis service: %w", err)
	}

	conn.SetWriteDeadline(c.deadline(ctx, c.writeTimeout))

	c.log.Debugf("Sending face crop of size: %d bytes", len(jpeg))
	if err := conn.WriteMessage(websocket.BinaryMessage, jpeg); err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error sending face crop: %w", err)
	}

	conn.SetReadDeadline(c.deadline(ctx, c.readTimeout))

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.drop(conn)
		return nil, fmt.Errorf("error reading face analysis: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	if msg := gjson.GetBytes(message, "error"); msg.Exists() && msg.String() != "" {
		return nil, fmt.Errorf("face analysis service error: %s", msg.String())
	}

	result, err := deepface.ParseAnalyzeResponse(message)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling face analysis: %w", err)
	}

	c.log.Debugf("Face analysis result: emotion=%s gender=%s race=%s age=%.0f",
		result.DominantEmotion, result.DominantGender, result.DominantRace, result.Age)

	return result, nil
}

// deadline picks the sooner of the context deadline and now+timeout.
func (c *webSocketClient) deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}
