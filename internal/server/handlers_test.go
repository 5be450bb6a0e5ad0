package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"typeracer/internal/passages"
	"typeracer/internal/protocol"
	"typeracer/internal/rooms"
	"typeracer/internal/wshub"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := &Server{
		Rooms: rooms.NewStore(passages.NewSource(nil), rooms.DefaultOptions()),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWS)
	mux.HandleFunc("/healthz", srv.handleHealth)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msg protocol.ClientMsg) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads server messages until match returns true or the context
// expires.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(protocol.ServerMsg) bool) protocol.ServerMsg {
	t.Helper()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg protocol.ServerMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal %q: %v", data, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestJoinReceivesLobby(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	send(t, ctx, conn, protocol.ClientMsg{Type: protocol.ClientJoin, Room: "r1", Name: "Alice"})

	msg := readUntil(t, ctx, conn, func(m protocol.ServerMsg) bool {
		return m.Type == protocol.ServerLobby
	})
	if len(msg.Players) != 1 || msg.Players[0] != "Alice" {
		t.Errorf("lobby players = %v, want [Alice]", msg.Players)
	}
}

func TestTwoJoinersStartCountdown(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c1 := dial(t, ctx, ts)
	send(t, ctx, c1, protocol.ClientMsg{Type: protocol.ClientJoin, Room: "r1", Name: "Alice"})
	readUntil(t, ctx, c1, func(m protocol.ServerMsg) bool { return m.Type == protocol.ServerLobby })

	c2 := dial(t, ctx, ts)
	send(t, ctx, c2, protocol.ClientMsg{Type: protocol.ClientJoin, Room: "r1", Name: "Bob"})

	// Both subscribers observe the countdown with a revealed passage.
	for _, conn := range []*websocket.Conn{c1, c2} {
		msg := readUntil(t, ctx, conn, func(m protocol.ServerMsg) bool {
			return m.Type == protocol.ServerCountdown
		})
		if msg.Passage == "" {
			t.Error("countdown should carry a non-empty passage")
		}
	}
}

func TestForwardResyncsAfterSendOverflow(t *testing.T) {
	store := rooms.NewStore(passages.NewSource(nil), rooms.DefaultOptions())
	room := store.GetOrCreate("r1")
	sub := room.Hub().Subscribe()
	defer room.Hub().Unsubscribe(sub)
	client := wshub.NewClient("p1", nil)

	// Jam the outbound queue so the first forwarded broadcast cannot fit.
	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte(`{}`)
	}
	room.Hub().Publish(protocol.Progress("Alice", 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go forward(ctx, client, room, sub)

	deadline := time.Now().Add(time.Second)
	for len(sub.C) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("broadcast was never consumed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond) // let the failed enqueue land

	for i := 0; i < cap(client.Send); i++ {
		<-client.Send
	}

	// The next broadcast must be preceded by a state and roster resync.
	room.Hub().Publish(protocol.Progress("Alice", 2))
	next := func() protocol.ServerMsg {
		t.Helper()
		select {
		case data := <-client.Send:
			var msg protocol.ServerMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("unmarshal %q: %v", data, err)
			}
			return msg
		case <-time.After(time.Second):
			t.Fatal("no message forwarded")
			return protocol.ServerMsg{}
		}
	}
	if got := next(); got.Type != protocol.ServerStateChange {
		t.Errorf("first message = %s, want %s", got.Type, protocol.ServerStateChange)
	}
	if got := next(); got.Type != protocol.ServerLobby {
		t.Errorf("second message = %s, want %s", got.Type, protocol.ServerLobby)
	}
	if got := next(); got.Type != protocol.ServerProgress || got.Pos != 2 {
		t.Errorf("third message = %+v, want progress at 2", got)
	}
}

func TestMalformedMessageKeepsConnectionAlive(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	if err := conn.Write(ctx, websocket.MessageText, []byte("not json at all")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The connection survives and a valid join still works.
	send(t, ctx, conn, protocol.ClientMsg{Type: protocol.ClientJoin, Room: "r1", Name: "Alice"})
	readUntil(t, ctx, conn, func(m protocol.ServerMsg) bool { return m.Type == protocol.ServerLobby })
}
