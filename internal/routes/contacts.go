package routes

import (
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/handlers"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterContactRoutes(r gin.IRouter) {
	contacts := r.Group("/contacts")
	contacts.Use(middleware.AuthMiddleware())
	{
		contacts.POST("", handlers.AddContact)
		contacts.GET("", handlers.ListContacts)
		contacts.PATCH("/:id", handlers.RenameContact)
		contacts.DELETE("/:id", handlers.RemoveContact)
	}
}
