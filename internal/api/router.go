package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// Allow the frontend dev server to call the API from the browser.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", apiHandler.HealthHandler)
	r.Post("/code-assistant", apiHandler.CodeAssistantHandler)
	r.Post("/chat-message", apiHandler.ChatMessageHandler)
	r.Get("/chats", apiHandler.ListChatsHandler)
	r.Get("/chats/{chatID}", apiHandler.GetChatHistoryHandler)

	return r
}
