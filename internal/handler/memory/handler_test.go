package memory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mijinlabs/lily-assistant/internal/model/chat"
	memoryservice "github.com/mijinlabs/lily-assistant/internal/service/memory"
)

func setupRouter() (*chi.Mux, *memoryservice.Service) {
	svc := memoryservice.NewService(memoryservice.Config{})
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func TestGetMemoryUnseenUser(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/memory/fantasma", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for unseen user, got %d", resp.Code)
	}

	var body struct {
		UserID         string          `json:"user_id"`
		Summary        string          `json:"conversation_summary"`
		Emotional      string          `json:"emotional_summary"`
		RecentMessages json.RawMessage `json:"recent_messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.UserID != "fantasma" {
		t.Fatalf("unexpected user id: %q", body.UserID)
	}
	if body.Summary == "" || body.Emotional == "" {
		t.Fatal("expected default summaries for unseen user")
	}
	if string(body.RecentMessages) != "[]" {
		t.Fatalf("expected empty message list, got %s", body.RecentMessages)
	}
}

func TestGetMemoryWithHistory(t *testing.T) {
	r, svc := setupRouter()
	svc.RecordTurn("u1", chat.RoleUser, "hola", "")
	svc.RecordTurn("u1", chat.RoleAssistant, "¡hola Mijin!", "feliz")

	req := httptest.NewRequest(http.MethodGet, "/memory/u1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		RecentMessages []chat.Turn `json:"recent_messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.RecentMessages) != 2 {
		t.Fatalf("expected 2 recent messages, got %d", len(body.RecentMessages))
	}
	if body.RecentMessages[0].Content != "hola" {
		t.Fatalf("messages out of order: %q first", body.RecentMessages[0].Content)
	}
}
