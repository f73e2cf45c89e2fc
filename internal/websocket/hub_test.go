package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestHub_BroadcastsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	client := &Client{Hub: hub, Send: make(chan []byte, 1)}
	hub.register <- client

	hub.Notify(ctx, events.Event{Type: events.RKBookingConfirmed, EntityID: "b1", Status: "confirmed"})

	select {
	case msg := <-client.Send:
		var got events.Event
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("invalid payload %s: %v", msg, err)
		}
		if got.Type != events.RKBookingConfirmed || got.EntityID != "b1" {
			t.Fatalf("unexpected event %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestHub_DropsSlowClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	slow := &Client{Hub: hub, Send: make(chan []byte)}
	hub.register <- slow

	hub.Notify(ctx, events.Event{Type: events.RKBookingSubmitted})

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, open := <-slow.Send; open {
		t.Fatal("expected send channel to be closed")
	}
}

type stubAuth struct {
	service.AuthService
	actor *service.Actor
	err   error
}

func (s stubAuth) CurrentSession(context.Context, string) (*service.Actor, error) {
	return s.actor, s.err
}

func TestServeWs_RejectsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()

	tests := []struct {
		name   string
		query  string
		auth   stubAuth
		status int
	}{
		{"missing token", "", stubAuth{}, http.StatusUnauthorized},
		{"ended session", "?token=abc", stubAuth{err: service.ErrAuth}, http.StatusUnauthorized},
		{"pending profile", "?token=abc", stubAuth{actor: &service.Actor{Status: "pending_admin"}}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, tt.auth) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws"+tt.query, nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestServeWs_DeliversOneEventPerFrame(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	auth := stubAuth{actor: &service.Actor{Status: "active"}}
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, auth) })
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?token=abc", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("dashboard was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Notify(ctx, events.Event{Type: events.RKBookingSubmitted, EntityID: "b1"})
	hub.Notify(ctx, events.Event{Type: events.RKBookingCleared, EntityID: "b2"})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	for _, want := range []string{"b1", "b2"} {
		var got events.Event
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.EntityID != want {
			t.Fatalf("expected event for %s, got %+v", want, got)
		}
	}
}
