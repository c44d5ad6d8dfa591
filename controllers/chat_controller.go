package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/WahyuSiddarta/Gemini-CHATBOT/models"
	"github.com/WahyuSiddarta/Gemini-CHATBOT/services"
	"github.com/gin-gonic/gin"
)

// ChatController exposes the chat pipeline and the conversation store over
// HTTP. Errors map onto the response contract: malformed bodies are 400,
// missing conversations 404, everything else 500 with a detail message.
type ChatController struct {
	chat  *services.ChatService
	store *services.StoreService
}

func NewChatController(chat *services.ChatService, store *services.StoreService) *ChatController {
	return &ChatController{chat: chat, store: store}
}

// HandleChat processes POST /chat.
func (ctl *ChatController) HandleChat(c *gin.Context) {
	var request models.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	key := services.ConversationKey{UserID: request.UserID, ChatID: request.ChatID}
	result, err := ctl.chat.HandleMessage(c.Request.Context(), key, request.Message)
	if err != nil {
		log.Printf("chat %s/%s: %v", request.UserID, request.ChatID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Response: result.Response,
		Title:    result.Title,
		Model:    result.Model,
		Citation: result.Citation,
	})
}

// GetUserChats processes GET /user/:user_id/chats.
func (ctl *ChatController) GetUserChats(c *gin.Context) {
	chats := ctl.store.ListChats(c.Param("user_id"))
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// GetChatHistory processes GET /user/:user_id/chat/:chat_id. An unknown key
// reads as an empty conversation.
func (ctl *ChatController) GetChatHistory(c *gin.Context) {
	key := services.ConversationKey{
		UserID: c.Param("user_id"),
		ChatID: c.Param("chat_id"),
	}

	history, _ := ctl.store.History(key)
	messages := make([]gin.H, 0, len(history))
	for _, m := range history {
		messages = append(messages, gin.H{"role": m.Role, "content": m.Content})
	}
	title, _ := ctl.store.Title(key)

	c.JSON(http.StatusOK, gin.H{"title": title, "messages": messages})
}

// DeleteChat processes DELETE /user/:user_id/chat/:chat_id.
func (ctl *ChatController) DeleteChat(c *gin.Context) {
	key := services.ConversationKey{
		UserID: c.Param("user_id"),
		ChatID: c.Param("chat_id"),
	}

	if err := ctl.store.Delete(key); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat deleted"})
}
