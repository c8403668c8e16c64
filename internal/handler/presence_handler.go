package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/edulane/tutora-backend/internal/service"
	ws "github.com/edulane/tutora-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// room tracks the live connections inside one class's meeting room.
type room struct {
	members map[*ws.Conn]ws.Participant
}

// PresenceHandler runs the classroom presence socket. Meeting clients hold
// a connection open for the duration of their attendance; the first teacher
// connection per class is the moment teacher presence is observed.
type PresenceHandler struct {
	meetingService *service.MeetingService
	log            zerolog.Logger
	upgrader       websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*room // keyed by class id
}

// NewPresenceHandler creates a new PresenceHandler.
func NewPresenceHandler(meetingService *service.MeetingService, log zerolog.Logger, allowedOrigins []string) *PresenceHandler {
	return &PresenceHandler{
		meetingService: meetingService,
		log:            log.With().Str("component", "presence_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
		rooms:          make(map[string]*room),
	}
}

// Stream godoc
// WS /ws/v1/meetings/presence?token=<meeting join token>
// Upgrades to WebSocket and keeps the participant in the class roster until
// the connection drops.
func (h *PresenceHandler) Stream(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query required"})
		return
	}

	claims, err := h.meetingService.ValidateJoinToken(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid meeting token"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	participant := ws.Participant{
		UserID: claims.UserID,
		Role:   claims.Role,
		Name:   claims.Name,
	}

	connLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("class_id", claims.ClassID).
		Str("role", string(claims.Role)).
		Logger()

	// Observed presence: this is what the lifecycle engine later reads to
	// tell a taught class from a no-show.
	if err := h.meetingService.RecordJoin(c.Request.Context(), claims); err != nil {
		connLog.Error().Err(err).Msg("Presence record failed")
		conn.WriteError("presence record failed")
		return
	}

	roster := h.join(claims.ClassID, conn, participant)
	conn.WriteTyped(ws.RosterResponse{Event: ws.EventRoster, Participants: roster})
	h.broadcast(claims.ClassID, conn, ws.PresenceResponse{Event: ws.EventJoined, Participant: participant})
	connLog.Info().Msg("Participant connected")

	defer func() {
		h.leave(claims.ClassID, conn)
		h.broadcast(claims.ClassID, nil, ws.PresenceResponse{Event: ws.EventLeft, Participant: participant})
		h.meetingService.RecordLeave(c.Request.Context(), claims)
		connLog.Info().Msg("Participant disconnected")
	}()

	for {
		var msg ws.RequestPayload
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				connLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionLeave:
			return
		default:
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

// join registers a connection and returns the room's roster snapshot.
func (h *PresenceHandler) join(classID string, conn *ws.Conn, p ws.Participant) []ws.Participant {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[classID]
	if !ok {
		r = &room{members: make(map[*ws.Conn]ws.Participant)}
		h.rooms[classID] = r
	}
	r.members[conn] = p

	roster := make([]ws.Participant, 0, len(r.members))
	for _, member := range r.members {
		roster = append(roster, member)
	}
	return roster
}

func (h *PresenceHandler) leave(classID string, conn *ws.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[classID]
	if !ok {
		return
	}
	delete(r.members, conn)
	if len(r.members) == 0 {
		delete(h.rooms, classID)
	}
}

// broadcast sends an event to every room member except the sender. Writes
// go through each member's serialized connection, so a fan-out here can
// never interleave with that member's own pong or event writes.
func (h *PresenceHandler) broadcast(classID string, except *ws.Conn, v interface{}) {
	h.mu.Lock()
	conns := make([]*ws.Conn, 0)
	if r, ok := h.rooms[classID]; ok {
		for conn := range r.members {
			if conn != except {
				conns = append(conns, conn)
			}
		}
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteTyped(v); err != nil {
			h.log.Debug().Err(err).Msg("Roster broadcast write failed")
		}
	}
}
