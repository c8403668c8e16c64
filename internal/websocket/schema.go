package websocket

import "github.com/edulane/tutora-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing  Action = "ping"
	ActionLeave Action = "leave"
)

// RequestPayload is the single client → server message shape on the
// presence socket.
type RequestPayload struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventRoster Event = "roster"
	EventJoined Event = "joined"
	EventLeft   Event = "left"
	EventPong   Event = "pong"
)

// Participant is one connected member of a class's meeting room.
type Participant struct {
	UserID int        `json:"user_id"`
	Role   model.Role `json:"role"`
	Name   string     `json:"name"`
}

// RosterResponse is sent to a newly connected client with the current room.
type RosterResponse struct {
	Event        Event         `json:"event"`
	Participants []Participant `json:"participants"`
}

// PresenceResponse announces a single join or leave to the room.
type PresenceResponse struct {
	Event       Event       `json:"event"`
	Participant Participant `json:"participant"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
