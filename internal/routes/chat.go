package routes

import (
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/handlers"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterChatRoutes(r gin.IRouter) {
	chats := r.Group("/chats")
	chats.Use(middleware.AuthMiddleware())
	{
		chats.POST("", handlers.OpenDirectChat)
		chats.GET("", handlers.ListConversations)
		chats.DELETE("/:id", handlers.DeleteConversation)

		chats.POST("/:id/messages", middleware.ChatRateLimit(), handlers.SendMessage)
		chats.GET("/:id/messages", handlers.ListMessages)
		chats.POST("/:id/read", handlers.MarkConversationRead)
	}

	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.PATCH("/:id", handlers.EditMessage)
		messages.DELETE("/:id", handlers.DeleteMessage)
	}
}
