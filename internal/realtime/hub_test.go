package realtime

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (string, error) {
	if strings.HasPrefix(token, "ok-") {
		return strings.TrimPrefix(token, "ok-"), nil
	}
	return "", errors.New("bad token")
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(stubVerifier{}, zerolog.Nop())
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversToSubscriber(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv, "ok-user1")

	// Registration happens in the HTTP handler goroutine after the
	// handshake completes.
	waitForTopic(t, hub, "notification_user1")

	hub.Publish("notification_user1", map[string]string{"message": "hola"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["message"] != "hola" {
		t.Errorf("got message %q, want %q", got["message"], "hola")
	}
}

func TestHub_IgnoresOtherTopics(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv, "ok-user1")
	waitForTopic(t, hub, "notification_user1")

	hub.Publish("notification_user2", map[string]string{"message": "ajeno"})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("received a payload published to another user's topic")
	}
}

func TestHub_RejectsBadToken(t *testing.T) {
	_, srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?access_token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("handshake succeeded with an invalid token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("got status %v, want %d", resp, http.StatusUnauthorized)
	}
}

func TestHub_RejectsMissingToken(t *testing.T) {
	_, srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("handshake succeeded without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("got status %v, want %d", resp, http.StatusUnauthorized)
	}
}

func waitForTopic(t *testing.T, hub *Hub, topic string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		n := len(hub.topics[topic])
		hub.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no subscriber registered for %s", topic)
}
