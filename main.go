package main

import (
	"log"

	"github.com/WahyuSiddarta/Gemini-CHATBOT/config"
	"github.com/WahyuSiddarta/Gemini-CHATBOT/controllers"
	"github.com/WahyuSiddarta/Gemini-CHATBOT/routes"
	"github.com/WahyuSiddarta/Gemini-CHATBOT/services"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	store := services.NewStoreService()
	router := services.NewRouterService(cfg.BaseScore, cfg.HighThreshold, cfg.MediumThreshold, cfg.TokenThreshold)
	gemini := services.NewGeminiService(cfg.GeminiAPIKey)
	titles := services.NewTitleService(gemini)
	chat := services.NewChatService(store, router, titles, gemini, services.ChatOptions{
		MaxMessages:   cfg.MaxMessages,
		ContextWindow: cfg.ContextWindow,
		Timeout:       cfg.GenerateTimeout,
		Grounding:     cfg.GroundingEnabled,
	})

	engine := routes.SetupRouter(controllers.NewChatController(chat, store))

	log.Printf("Server starting on port %s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
