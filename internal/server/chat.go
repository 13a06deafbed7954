package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/atlastravel/atlas/internal/agent"
	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "message"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Turns     int    `json:"turns,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "chat requires the conversation store", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// One engine per connection: this session's runs never block, and
	// are never blocked by, other connections or API requests.
	eng := s.sessionEngine()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "", "invalid message format")
			continue
		}
		if req.Content == "" {
			s.sendChatError(conn, req.SessionID, "content is required")
			continue
		}
		if req.Type != "message" {
			s.sendChatError(conn, req.SessionID, "unknown message type: "+req.Type)
			continue
		}
		s.handleChatMessage(conn, r, eng, req)
	}
}

func (s *Server) handleChatMessage(conn *websocket.Conn, r *http.Request, eng session.Engine, req chatRequest) {
	ctx := r.Context()
	sessionID := req.SessionID

	if sessionID == "" {
		sess, err := s.history.CreateSession(ctx, req.Content)
		if err != nil {
			s.sendChatError(conn, "", "failed to create session: "+err.Error())
			return
		}
		sessionID = sess.ID
	}

	transcript, err := s.history.Messages(ctx, sessionID, 0)
	if err != nil {
		s.sendChatError(conn, sessionID, "failed to load session: "+err.Error())
		return
	}

	profile, err := s.svc.Profile()
	if err != nil {
		s.sendChatError(conn, sessionID, "failed to load profile: "+err.Error())
		return
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: req.Content}
	messages := append([]domain.Message{agent.SystemMessage(profile)}, transcript...)
	messages = append(messages, userMsg)

	result, err := eng.Run(ctx, messages)
	if err != nil {
		s.sendChatError(conn, sessionID, "planning failed: "+err.Error())
		return
	}

	if err := s.history.AppendMessage(ctx, sessionID, userMsg); err != nil {
		s.sendChatError(conn, sessionID, "failed to record message: "+err.Error())
		return
	}
	reply := domain.Message{Role: domain.RoleAssistant, Content: result.Content}
	if err := s.history.AppendMessage(ctx, sessionID, reply); err != nil {
		s.sendChatError(conn, sessionID, "failed to record reply: "+err.Error())
		return
	}

	s.sendChatResponse(conn, chatResponse{
		Type:      "response",
		SessionID: sessionID,
		Content:   result.Content,
		Turns:     result.Turns,
	})
}

func (s *Server) sendChatResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{Type: "error", SessionID: sessionID, Content: message}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
