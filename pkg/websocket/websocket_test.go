package websocketPkg

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAnalysisServer(t *testing.T, reply func(msg []byte) string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage {
				t.Errorf("message type = %d, want binary", mt)
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(reply(msg))); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestAnalyze(t *testing.T) {
	received := make(chan []byte, 1)
	srv := newAnalysisServer(t, func(msg []byte) string {
		received <- msg
		return `{"age": 41, "dominant_gender": "Woman", "dominant_emotion": "sad", "dominant_race": "asian"}`
	})

	client := NewAIWebSocketClient(Config{URL: wsURL(srv)}, newTestLogger())
	defer client.CloseConnections()

	res, err := client.Analyze(context.Background(), []byte{0xFF, 0xD8, 0x01})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := <-received; string(got) != string([]byte{0xFF, 0xD8, 0x01}) {
		t.Errorf("server received %v", got)
	}
	if res.Age != 41 || res.DominantGender != "Woman" || res.DominantEmotion != "sad" || res.DominantRace != "asian" {
		t.Errorf("unexpected analysis %+v", res)
	}
	if !client.IsConnected() {
		t.Error("IsConnected() = false after successful call")
	}
}

func TestAnalyzeServiceError(t *testing.T) {
	srv := newAnalysisServer(t, func([]byte) string {
		return `{"error": "no face"}`
	})

	client := NewAIWebSocketClient(Config{URL: wsURL(srv)}, newTestLogger())
	defer client.CloseConnections()

	_, err := client.Analyze(context.Background(), []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "no face") {
		t.Fatalf("Analyze() error = %v, want service error", err)
	}
}

func TestAnalyzeUnreachable(t *testing.T) {
	client := NewAIWebSocketClient(Config{URL: "ws://127.0.0.1:1/none"}, newTestLogger())
	defer client.CloseConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := client.Analyze(ctx, []byte("x")); err == nil {
		t.Fatal("Analyze() against closed port should fail")
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true for unreachable service")
	}
}

func TestAnalyzeAfterClose(t *testing.T) {
	srv := newAnalysisServer(t, func([]byte) string { return `{}` })

	client := NewAIWebSocketClient(Config{URL: wsURL(srv)}, newTestLogger())
	client.CloseConnections()

	if _, err := client.Analyze(context.Background(), []byte("x")); err == nil {
		t.Fatal("Analyze() after CloseConnections should fail")
	}
}

func TestAnalyzeRightAfterStart(t *testing.T) {
	srv := newAnalysisServer(t, func([]byte) string {
		return `{"age": 30, "dominant_gender": "Man", "dominant_emotion": "happy", "dominant_race": "white"}`
	})

	for i := 0; i < 5; i++ {
		client := NewAIWebSocketClient(Config{URL: wsURL(srv)}, newTestLogger())

		if _, err := client.Analyze(context.Background(), []byte("x")); err != nil {
			client.CloseConnections()
			t.Fatalf("attempt %d: Analyze() error = %v", i, err)
		}
		if _, err := client.Analyze(context.Background(), []byte("y")); err != nil {
			client.CloseConnections()
			t.Fatalf("attempt %d: second Analyze() error = %v", i, err)
		}
		client.CloseConnections()
	}
}

func TestReconnect(t *testing.T) {
	srv := newAnalysisServer(t, func([]byte) string { return `{"age": 20, "dominant_emotion": "neutral"}` })

	client := NewAIWebSocketClient(Config{URL: wsURL(srv)}, newTestLogger())
	defer client.CloseConnections()

	if err := client.Reconnect(); err != nil {
		t.Fatalf("Reconnect() error = %v", err)
	}
	if !client.IsConnected() {
		t.Fatal("IsConnected() = false after Reconnect")
	}
	if _, err := client.Analyze(context.Background(), []byte("x")); err != nil {
		t.Fatalf("Analyze() after Reconnect error = %v", err)
	}
}
