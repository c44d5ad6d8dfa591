package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WahyuSiddarta/Gemini-CHATBOT/controllers"
	"github.com/WahyuSiddarta/Gemini-CHATBOT/routes"
	"github.com/WahyuSiddarta/Gemini-CHATBOT/services"
	"github.com/gin-gonic/gin"
)

type stubGenerator struct {
	titleText string
	replyText string
}

func (s *stubGenerator) GenerateContent(ctx context.Context, model, prompt string, withSearch bool) (*services.GenerateResult, error) {
	if strings.HasPrefix(prompt, "Generate a single") {
		return &services.GenerateResult{Text: s.titleText}, nil
	}
	return &services.GenerateResult{Text: s.replyText}, nil
}

func (s *stubGenerator) CountTokens(ctx context.Context, model, text string) (int, error) {
	return 0, nil
}

func newTestServer() (*gin.Engine, *services.StoreService) {
	gin.SetMode(gin.TestMode)
	gen := &stubGenerator{titleText: "Test Chat Title", replyText: "stub reply"}
	store := services.NewStoreService()
	router := services.NewRouterService(0, 10, 5, 2000)
	chat := services.NewChatService(store, router, services.NewTitleService(gen), gen, services.ChatOptions{
		MaxMessages:   100,
		ContextWindow: 20,
		Timeout:       time.Second,
	})
	return routes.SetupRouter(controllers.NewChatController(chat, store)), store
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	decoded := map[string]interface{}{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: invalid JSON body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, decoded
}

func TestHandleChat_Success(t *testing.T) {
	engine, store := newTestServer()

	w, body := doJSON(t, engine, http.MethodPost, "/chat",
		`{"user_id":"u1","chat_id":"c1","message":{"role":"user","content":"hello"}}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if body["response"] != "stub reply" {
		t.Fatalf("response = %v", body["response"])
	}
	if body["title"] != "Test Chat Title" {
		t.Fatalf("title = %v", body["title"])
	}
	if body["model"] != "gemini-2.5-flash-lite" {
		t.Fatalf("model = %v", body["model"])
	}
	if _, ok := body["citation"]; ok {
		t.Fatal("citation should be omitted when empty")
	}

	key := services.ConversationKey{UserID: "u1", ChatID: "c1"}
	if store.Len(key) != 2 {
		t.Fatalf("stored messages = %d, want 2", store.Len(key))
	}
}

func TestHandleChat_MalformedBody(t *testing.T) {
	engine, _ := newTestServer()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing user_id", `{"chat_id":"c1","message":{"role":"user","content":"x"}}`},
		{"missing content", `{"user_id":"u1","chat_id":"c1","message":{"role":"user"}}`},
		{"bad role", `{"user_id":"u1","chat_id":"c1","message":{"role":"system","content":"x"}}`},
	}
	for _, tc := range tests {
		w, body := doJSON(t, engine, http.MethodPost, "/chat", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, w.Code)
		}
		if _, ok := body["detail"]; !ok {
			t.Errorf("%s: missing detail in %v", tc.name, body)
		}
	}
}

func TestGetUserChats(t *testing.T) {
	engine, _ := newTestServer()

	doJSON(t, engine, http.MethodPost, "/chat",
		`{"user_id":"u1","chat_id":"c1","message":{"role":"user","content":"hello"}}`)

	w, body := doJSON(t, engine, http.MethodGet, "/user/u1/chats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	chats, ok := body["chats"].([]interface{})
	if !ok || len(chats) != 1 {
		t.Fatalf("chats = %v", body["chats"])
	}
	chat := chats[0].(map[string]interface{})
	if chat["chat_id"] != "c1" || chat["title"] != "Test Chat Title" {
		t.Fatalf("chat = %v", chat)
	}

	w, body = doJSON(t, engine, http.MethodGet, "/user/nobody/chats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if chats, ok := body["chats"].([]interface{}); !ok || len(chats) != 0 {
		t.Fatalf("chats for unknown user = %v", body["chats"])
	}
}

func TestGetChatHistory(t *testing.T) {
	engine, _ := newTestServer()

	doJSON(t, engine, http.MethodPost, "/chat",
		`{"user_id":"u1","chat_id":"c1","message":{"role":"user","content":"hello"}}`)

	w, body := doJSON(t, engine, http.MethodGet, "/user/u1/chat/c1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["title"] != "Test Chat Title" {
		t.Fatalf("title = %v", body["title"])
	}
	messages, ok := body["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", body["messages"])
	}
	first := messages[0].(map[string]interface{})
	if first["role"] != "user" || first["content"] != "hello" {
		t.Fatalf("first message = %v", first)
	}
	if _, ok := first["id"]; ok {
		t.Fatal("wire format should only carry role and content")
	}
}

func TestDeleteChat(t *testing.T) {
	engine, store := newTestServer()

	doJSON(t, engine, http.MethodPost, "/chat",
		`{"user_id":"u1","chat_id":"c1","message":{"role":"user","content":"hello"}}`)

	w, body := doJSON(t, engine, http.MethodDelete, "/user/u1/chat/c1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["message"] != "chat deleted" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := store.History(services.ConversationKey{UserID: "u1", ChatID: "c1"}); ok {
		t.Fatal("conversation should be gone")
	}

	w, body = doJSON(t, engine, http.MethodDelete, "/user/u1/chat/c1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if _, ok := body["detail"]; !ok {
		t.Fatalf("missing detail in %v", body)
	}
}

func TestHealthz(t *testing.T) {
	engine, _ := newTestServer()
	w, body := doJSON(t, engine, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
}
