package routes

import (
	"net/http"

	"github.com/WahyuSiddarta/Gemini-CHATBOT/controllers"
	"github.com/WahyuSiddarta/Gemini-CHATBOT/middlewares"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ctl *controllers.ChatController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger())

	r.POST("/chat", ctl.HandleChat)

	r.GET("/user/:user_id/chats", ctl.GetUserChats)

	r.GET("/user/:user_id/chat/:chat_id", ctl.GetChatHistory)
	r.DELETE("/user/:user_id/chat/:chat_id", ctl.DeleteChat)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
