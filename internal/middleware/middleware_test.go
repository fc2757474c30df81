package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func newTestApp(cfg Config) (*fiber.App, Middleware) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	m := New(log, cfg)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewLoggingMiddleware())
	app.Get("/ping", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	return app, m
}

func TestRequestIDGenerated(t *testing.T) {
	app, _ := newTestApp(Config{})

	res, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	header := res.Header.Get(RequestIDKey)
	if len(header) != 26 {
		t.Errorf("generated request id %q is not a ULID", header)
	}

	body, _ := io.ReadAll(res.Body)
	if string(body) != header {
		t.Errorf("handler saw %q, header %q", body, header)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	app, _ := newTestApp(Config{})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDKey, "abc-123")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if got := res.Header.Get(RequestIDKey); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestRateLimiter(t *testing.T) {
	app, _ := newTestApp(Config{Rate: 0.001, Burst: 2})

	var statuses []int
	for i := 0; i < 3; i++ {
		res, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		statuses = append(statuses, res.StatusCode)
	}

	want := []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("statuses = %v, want %v", statuses, want)
		}
	}
}

func TestGetRequestIDDefault(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := New(log, Config{})

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	res, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	if string(body) != "unknown" {
		t.Errorf("GetRequestID() = %q, want unknown", body)
	}
}
