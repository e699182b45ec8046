package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/codeassist/code-assistant-backend/internal/config"
	"github.com/codeassist/code-assistant-backend/internal/store"
)

// ErrChatNotFound is returned when a supplied chat id does not resolve. A
// bad id never silently creates a new chat.
var ErrChatNotFound = errors.New("chat not found")

// GenerationUnavailableError signals that the generation capability failed
// or produced no usable content. Detail carries the user-presentable
// fallback text.
type GenerationUnavailableError struct {
	Detail string
}

func (e *GenerationUnavailableError) Error() string {
	return e.Detail
}

const continuationPreamble = "You are continuing an ongoing conversation with a developer. " +
	"Use the entire conversation history below when forming your answer, " +
	"but focus on the most recent request."

const fallbackChatTitle = "New chat"

type ChatService struct {
	dbStore *store.SQLiteStore
	llm     Generator
}

func NewChatService(db *store.SQLiteStore, llm Generator) *ChatService {
	return &ChatService{
		dbStore: db,
		llm:     llm,
	}
}

// SendMessageRequest is a contextual chat request. An empty ChatID means a
// new chat is created; ChatTitle is an optional hint for its title.
type SendMessageRequest struct {
	ChatID    string
	Intent    string
	Language  string
	Task      string
	ChatTitle string
}

type SendMessageResult struct {
	ChatID   string
	Response string
}

// SendMessage runs one conversational turn: resolve or create the chat, load
// its history, build the prompt, call the generator, and on success persist
// the user/assistant pair and advance the chat's updated_at.
//
// On generation failure nothing is persisted; a chat created for this
// request still exists, empty, which is a valid observable outcome.
func (s *ChatService) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	// Captured once: message timestamps and the chat's updated_at all use
	// this instant, not a re-sample after the slow generation call.
	now := time.Now().UTC()

	var chat *store.Chat
	if req.ChatID != "" {
		found, err := s.dbStore.GetChatByID(req.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve chat: %w", err)
		}
		if found == nil {
			return nil, ErrChatNotFound
		}
		chat = found
	} else {
		basis := req.ChatTitle
		if basis == "" {
			basis = req.Task
		}
		created, err := s.dbStore.CreateChat(deriveChatTitle(basis), now)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat: %w", err)
		}
		chat = created
	}

	// History is loaded before the current turn is written, so the current
	// task is never part of its own context.
	msgs, err := s.dbStore.GetMessagesByChatID(chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	history := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, Turn{Role: m.Role, Content: m.Content})
	}

	language := InferLanguage(req.Language, req.Task)
	prompt := s.assemblePrompt(req.Intent, language, req.Task, history)

	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}
	if text == "" {
		return nil, &GenerationUnavailableError{Detail: FallbackEmptyResponse}
	}
	if IsFallbackText(text) {
		return nil, &GenerationUnavailableError{Detail: text}
	}

	// A client disconnect aborts here, before any write, so a pair is never
	// half-persisted.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	userMsg := store.Message{
		Role:     store.RoleUser,
		Content:  req.Task,
		Intent:   req.Intent,
		Language: language,
	}
	assistantMsg := store.Message{
		Role:    store.RoleAssistant,
		Content: text,
	}
	if err := s.dbStore.AppendExchange(chat.ID, &userMsg, &assistantMsg, now); err != nil {
		return nil, fmt.Errorf("failed to persist exchange: %w", err)
	}

	return &SendMessageResult{ChatID: chat.ID, Response: text}, nil
}

// Assist handles the single-shot flow: same inference and prompt
// construction as SendMessage but with no chat and no history, and nothing
// is persisted.
func (s *ChatService) Assist(ctx context.Context, intent, language, task string) (string, error) {
	inferred := InferLanguage(language, task)
	prompt := s.assemblePrompt(intent, inferred, task, nil)

	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	if text == "" {
		return "", &GenerationUnavailableError{Detail: FallbackEmptyResponse}
	}
	if IsFallbackText(text) {
		return "", &GenerationUnavailableError{Detail: text}
	}
	return text, nil
}

func (s *ChatService) ListChats() ([]store.Chat, error) {
	return s.dbStore.ListChats()
}

// GetChatHistory returns a chat and its messages in creation order, or a
// nil chat when the id does not resolve.
func (s *ChatService) GetChatHistory(chatID string) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.GetChatByID(chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chat: %w", err)
	}
	if chat == nil {
		return nil, nil, nil // Not found
	}

	messages, err := s.dbStore.GetMessagesByChatID(chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	return chat, messages, nil
}

// assemblePrompt combines the base instruction with the condensed history.
// With no history the prompt is exactly the base.
func (s *ChatService) assemblePrompt(intent, language, task string, history []Turn) string {
	base := BuildBasePrompt(intent, language, task)
	historyText := CondenseHistory(history)

	prompt := base
	if historyText != "" {
		prompt = continuationPreamble + "\n\n" + historyText + "\n\nNew user request (most recent):\n" + base
	}

	if config.AppConfig.LogLevel == "DEBUG" {
		log.Printf("DEBUG: sending prompt (~%d tokens): %s", estimatePromptTokens(prompt), prompt)
	}
	return prompt
}

// deriveChatTitle builds a short chat title from the first five words of the
// given text, capped at 60 characters.
func deriveChatTitle(text string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return fallbackChatTitle
	}

	short := strings.Join(words[:min(5, len(words))], " ")
	if runes := []rune(short); len(runes) > 60 {
		short = string(runes[:57]) + "..."
	}
	return short
}
