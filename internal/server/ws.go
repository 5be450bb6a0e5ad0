package server

import (
	"context"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"typeracer/internal/broadcast"
	"typeracer/internal/players"
	"typeracer/internal/protocol"
	"typeracer/internal/rooms"
	"typeracer/internal/wshub"
)

// session is the per-connection state: which room the player is in and the
// subscription forwarding that room's broadcasts.
type session struct {
	client      *wshub.Client
	room        *rooms.Room
	sub         *broadcast.Subscriber
	stopForward context.CancelFunc
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("[WS] Accept error: %v\n", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	playerID := uuid.New().String()
	client := wshub.NewClient(playerID, conn)
	log.Printf("[WS] Connection established for player %s\n", playerID)

	// A failed write ends the pump, which cancels the read loop: send failure
	// is an implicit disconnect.
	go func() {
		defer cancel()
		client.WritePump(ctx)
	}()

	sess := &session{client: client}
	defer s.leaveRoom(sess)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		msg, err := protocol.DecodeClient(data)
		if err != nil {
			// Malformed input is dropped; the connection lives on.
			log.Printf("[WS] Dropping message from %s: %v\n", playerID, err)
			continue
		}
		s.dispatch(ctx, sess, msg)
	}
}

func (s *Server) dispatch(ctx context.Context, sess *session, msg protocol.ClientMsg) {
	switch msg.Type {
	case protocol.ClientJoin:
		s.joinRoom(ctx, sess, msg.Room, msg.Name)
	case protocol.ClientKey:
		if sess.room != nil {
			sess.room.HandleKeystroke(sess.client.PlayerID, msg.Key(), msg.Ts)
		}
	case protocol.ClientProgress:
		if sess.room != nil {
			sess.room.HandleProgress(sess.client.PlayerID, msg.Pos)
		}
	case protocol.ClientFinish:
		if sess.room != nil {
			sess.room.HandleFinish(sess.client.PlayerID, msg.WPM, msg.Accuracy)
		}
	case protocol.ClientReset:
		if sess.room != nil {
			sess.room.Reset()
		}
	}
}

// joinRoom admits the player, leaving any prior room first.
func (s *Server) joinRoom(ctx context.Context, sess *session, roomID, name string) {
	s.leaveRoom(sess)

	room := s.Rooms.GetOrCreate(roomID)
	sub := room.Hub().Subscribe()
	fwdCtx, stopForward := context.WithCancel(ctx)

	sess.room = room
	sess.sub = sub
	sess.stopForward = stopForward
	go forward(fwdCtx, sess.client, room, sub)

	room.AddPlayer(&players.Player{ID: sess.client.PlayerID, Name: name})
	// Direct roster snapshot for the joiner; everyone else got the broadcast.
	sess.client.Queue(room.Snapshot())
}

func (s *Server) leaveRoom(sess *session) {
	if sess.room == nil {
		return
	}
	sess.stopForward()
	sess.room.Hub().Unsubscribe(sess.sub)
	sess.room.RemovePlayer(sess.client.PlayerID)
	sess.room, sess.sub, sess.stopForward = nil, nil, nil
}

// forward pumps room broadcasts into the client's send queue. Loss at either
// stage (the hub buffer or a full send queue) marks the stream stale, and the
// client gets a fresh state and roster snapshot instead of silently missing
// events.
func forward(ctx context.Context, client *wshub.Client, room *rooms.Room, sub *broadcast.Subscriber) {
	stale := false
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			if sub.Lagged() {
				stale = true
			}
			if stale {
				if !client.Queue(protocol.StateChange(string(room.State()))) || !client.Queue(room.Snapshot()) {
					continue
				}
				stale = false
			}
			if !client.Queue(msg) {
				stale = true
			}
		}
	}
}
