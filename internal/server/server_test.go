package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/atlastravel/atlas/internal/agent"
	"github.com/atlastravel/atlas/internal/db"
	"github.com/atlastravel/atlas/internal/domain"
	"github.com/atlastravel/atlas/internal/history"
	"github.com/atlastravel/atlas/internal/session"
	"github.com/atlastravel/atlas/internal/store"
	"github.com/atlastravel/atlas/internal/tools"
)

type scriptedEngine struct {
	contents []string
}

func (e *scriptedEngine) Run(_ context.Context, history []domain.Message) (*agent.RunResult, error) {
	if len(e.contents) == 0 {
		return nil, errors.New("script exhausted")
	}
	content := e.contents[0]
	e.contents = e.contents[1:]
	messages := append(append([]domain.Message(nil), history...), domain.Message{
		Role: domain.RoleAssistant, Content: content,
	})
	return &agent.RunResult{Content: content, Messages: messages, Turns: 1}, nil
}

const itineraryPayload = `{
  "destination": {"name": "Lisbon", "country": "Portugal"},
  "start_date": "2026-05-01", "end_date": "2026-05-02",
  "preferences": {"traveler_count": 1, "pace": "moderate"},
  "days": [
    {"date": "2026-05-01", "source": "generated",
     "activities": [{"title": "Alfama walk", "description": "", "duration_hours": 3, "category": "sightseeing"}]},
    {"date": "2026-05-02", "source": "generated",
     "activities": [{"title": "Tram 28", "description": "", "duration_hours": 2, "category": "leisure"}]}
  ]
}`

func newTestServer(t *testing.T, engine session.Engine) *Server {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	svc := session.New(engine, st)
	return New(Config{Port: 0, AllowAll: true}, svc, engine, st, history.NewStore(database))
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// Each chat connection gets its own run guard; only non-cloneable test
// doubles share the process engine.
func TestSessionEngineScopedPerConnection(t *testing.T) {
	scripted := &scriptedEngine{}
	srv := newTestServer(t, scripted)
	if srv.sessionEngine() != session.Engine(scripted) {
		t.Fatal("non-cloneable engine should be shared as-is")
	}

	real := agent.NewEngine(nil, tools.NewRegistry(0), "test-model", 1)
	srv = newTestServer(t, real)
	first := srv.sessionEngine()
	second := srv.sessionEngine()
	if first == session.Engine(real) || second == session.Engine(real) {
		t.Fatal("connection engine must not be the shared prototype")
	}
	if first == second {
		t.Fatal("connections must not share one engine")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{})
	rec := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{contents: []string{itineraryPayload}})
	rec := doJSON(t, srv, http.MethodPost, "/api/itinerary/generate", `{"input_text": "2 days in Lisbon"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var it domain.Itinerary
	if err := json.Unmarshal(rec.Body.Bytes(), &it); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if it.Destination.Name != "Lisbon" || len(it.Days) != 2 {
		t.Fatalf("itinerary = %+v", it)
	}
}

func TestGenerateRequiresInputText(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{})
	rec := doJSON(t, srv, http.MethodPost, "/api/itinerary/generate", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateStructuredOutputErrorIs502(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{contents: []string{"garbage", "more garbage"}})
	rec := doJSON(t, srv, http.MethodPost, "/api/itinerary/generate", `{"input_text": "plan"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != "structured_output" || len(resp.Diagnostics) == 0 {
		t.Fatalf("error response = %+v", resp)
	}
}

func TestSaveAndFetchTrip(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{})

	rec := doJSON(t, srv, http.MethodPost, "/api/itinerary/save", itineraryPayload)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.TripCount != 1 {
		t.Fatalf("profile = %+v", profile)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/trips", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var trips []store.ItinerarySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &trips); err != nil {
		t.Fatalf("decode trips: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("trips = %+v", trips)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/trips/"+trips[0].ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/trips/no-such-id", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing trip status = %d", rec.Code)
	}
}

func TestProfileEndpointDefaults(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{})
	rec := doJSON(t, srv, http.MethodGet, "/api/profile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.TripCount != 0 {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestWebSocketChat(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{contents: []string{"Kyoto in spring is lovely."}})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Type: "message", Content: "when should I visit Kyoto?"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" || resp.SessionID == "" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Content != "Kyoto in spring is lovely." {
		t.Fatalf("content = %q", resp.Content)
	}

	// Both sides of the exchange must be in the transcript.
	msgs, err := srv.history.Messages(context.Background(), resp.SessionID, 0)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != domain.RoleUser || msgs[1].Role != domain.RoleAssistant {
		t.Fatalf("transcript = %+v", msgs)
	}
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	srv := newTestServer(t, &scriptedEngine{})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Type: "ask", Content: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" {
		t.Fatalf("response = %+v", resp)
	}
}
