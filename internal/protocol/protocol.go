// Package protocol defines the JSON wire format between clients and the race
// server. Every message is a flat object with a short type tag under "t".
package protocol

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Client message types.
const (
	ClientJoin     = "join"
	ClientKey      = "key"
	ClientProgress = "progress"
	ClientFinish   = "finish"
	ClientReset    = "reset"
)

// Server message types.
const (
	ServerLobby        = "lobby"
	ServerCountdown    = "countdown"
	ServerStart        = "start"
	ServerProgress     = "progress"
	ServerFinish       = "finish"
	ServerStateChange  = "state"
	ServerWaitingTimer = "timer"
	ServerError        = "error"
)

// ClientMsg is a message received from a client. Which fields are meaningful
// depends on Type.
type ClientMsg struct {
	Type     string  `json:"t"`
	Room     string  `json:"room,omitempty"`
	Name     string  `json:"name,omitempty"`
	Ch       string  `json:"ch,omitempty"` // single character
	Pos      int     `json:"pos,omitempty"`
	WPM      float64 `json:"wpm,omitempty"`
	Accuracy float64 `json:"accuracy,omitempty"`
	Time     float64 `json:"time,omitempty"`
	Ts       int64   `json:"ts,omitempty"` // client epoch milliseconds
}

// ServerMsg is a message broadcast to clients.
type ServerMsg struct {
	Type        string   `json:"t"`
	Players     []string `json:"players,omitempty"`
	Passage     string   `json:"passage,omitempty"`
	T0          int64    `json:"t0,omitempty"`
	ID          string   `json:"id,omitempty"`
	Pos         int      `json:"pos,omitempty"`
	WPM         float64  `json:"wpm,omitempty"`
	Accuracy    float64  `json:"accuracy,omitempty"`
	State       string   `json:"state,omitempty"`
	SecondsLeft int64    `json:"seconds_left,omitempty"`
	Message     string   `json:"message,omitempty"`
}

func Lobby(names []string) ServerMsg {
	return ServerMsg{Type: ServerLobby, Players: names}
}

func Countdown(passage string) ServerMsg {
	return ServerMsg{Type: ServerCountdown, Passage: passage}
}

func Start(passage string, t0 int64) ServerMsg {
	return ServerMsg{Type: ServerStart, Passage: passage, T0: t0}
}

func Progress(id string, pos int) ServerMsg {
	return ServerMsg{Type: ServerProgress, ID: id, Pos: pos}
}

func Finish(id string, wpm, accuracy float64) ServerMsg {
	return ServerMsg{Type: ServerFinish, ID: id, WPM: wpm, Accuracy: accuracy}
}

func StateChange(state string) ServerMsg {
	return ServerMsg{Type: ServerStateChange, State: state}
}

func WaitingTimer(secondsLeft int64) ServerMsg {
	return ServerMsg{Type: ServerWaitingTimer, SecondsLeft: secondsLeft}
}

func Error(message string) ServerMsg {
	return ServerMsg{Type: ServerError, Message: message}
}

// Encode marshals a server message for the wire.
func Encode(m ServerMsg) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeClient parses and validates an inbound client message. Malformed or
// unknown input yields an error; callers drop such messages and keep the
// connection alive.
func DecodeClient(data []byte) (ClientMsg, error) {
	var m ClientMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return ClientMsg{}, fmt.Errorf("decoding client message: %w", err)
	}
	switch m.Type {
	case ClientJoin:
		if m.Room == "" || m.Name == "" {
			return ClientMsg{}, fmt.Errorf("join message missing room or name")
		}
	case ClientKey:
		if utf8.RuneCountInString(m.Ch) != 1 {
			return ClientMsg{}, fmt.Errorf("key message needs exactly one character, got %q", m.Ch)
		}
	case ClientProgress, ClientFinish, ClientReset:
	default:
		return ClientMsg{}, fmt.Errorf("unknown client message type %q", m.Type)
	}
	return m, nil
}

// Key returns the submitted character of a key message.
func (m ClientMsg) Key() rune {
	r, _ := utf8.DecodeRuneInString(m.Ch)
	return r
}
