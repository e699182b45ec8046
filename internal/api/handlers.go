package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/codeassist/code-assistant-backend/internal/core"
	"github.com/codeassist/code-assistant-backend/internal/store"
)

type APIHandler struct {
	chatService *core.ChatService
}

func NewAPIHandler(cs *core.ChatService) *APIHandler {
	return &APIHandler{chatService: cs}
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Backend running successfully!"})
}

type CodeRequest struct {
	Intent   string `json:"intent"`
	Language string `json:"language"`
	Task     string `json:"task"`
}

type CodeResponse struct {
	Response string `json:"response"`
}

// CodeAssistantHandler serves the single-shot flow: no chat, no history,
// nothing persisted.
func (h *APIHandler) CodeAssistantHandler(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Intent == "" || req.Task == "" {
		http.Error(w, "Intent and task are required", http.StatusBadRequest)
		return
	}

	text, err := h.chatService.Assist(r.Context(), req.Intent, req.Language, req.Task)
	if err != nil {
		h.writeGenerationError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CodeResponse{Response: text})
}

type ChatMessageRequest struct {
	ChatID   string `json:"chat_id,omitempty"`
	Intent   string `json:"intent"`
	Language string `json:"language"`
	Task     string `json:"task"`
	// Optional short title hint for a newly created chat.
	ChatTitle string `json:"chat_title,omitempty"`
}

type ChatMessageResponse struct {
	ChatID   string `json:"chat_id"`
	Response string `json:"response"`
}

// ChatMessageHandler serves a contextual chat message. With no chat_id a new
// chat is created and its id returned; otherwise prior messages are loaded
// and condensed into the prompt.
func (h *APIHandler) ChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Intent == "" || req.Task == "" {
		http.Error(w, "Intent and task are required", http.StatusBadRequest)
		return
	}

	result, err := h.chatService.SendMessage(r.Context(), core.SendMessageRequest{
		ChatID:    req.ChatID,
		Intent:    req.Intent,
		Language:  req.Language,
		Task:      req.Task,
		ChatTitle: req.ChatTitle,
	})
	if err != nil {
		if errors.Is(err, core.ErrChatNotFound) {
			http.Error(w, "Chat not found", http.StatusNotFound)
			return
		}
		h.writeGenerationError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ChatMessageResponse{ChatID: result.ChatID, Response: result.Response})
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatService.ListChats()
	if err != nil {
		log.Printf("Error listing chats: %v", err)
		http.Error(w, "Failed to list chats", http.StatusInternalServerError)
		return
	}
	if chats == nil {
		chats = []store.Chat{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chats)
}

type ChatHistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	ChatID   string               `json:"chat_id"`
	Title    string               `json:"title"`
	Messages []ChatHistoryMessage `json:"messages"`
}

func (h *APIHandler) GetChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chatService.GetChatHistory(chatID)
	if err != nil {
		log.Printf("Error getting history for chat %s: %v", chatID, err)
		http.Error(w, "Failed to get chat history", http.StatusInternalServerError)
		return
	}
	if chat == nil {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	resp := ChatHistoryResponse{
		ChatID:   chat.ID,
		Title:    chat.Title,
		Messages: make([]ChatHistoryMessage, 0, len(messages)),
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, ChatHistoryMessage{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeGenerationError maps generation failures to 503 with the fallback
// text as the body; anything else is a generic 500 with detail logged
// server-side only.
func (h *APIHandler) writeGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	var unavailable *core.GenerationUnavailableError
	if errors.As(err, &unavailable) {
		http.Error(w, unavailable.Detail, http.StatusServiceUnavailable)
		return
	}
	log.Printf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
}
