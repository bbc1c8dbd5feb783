package routes

import (
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/handlers"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterGroupRoutes(r gin.IRouter) {
	groups := r.Group("/groups")
	groups.Use(middleware.AuthMiddleware())
	{
		groups.POST("", handlers.CreateGroup)
		groups.GET("", handlers.ListMyGroups)
		groups.PATCH("/:id", handlers.UpdateGroup)
		groups.DELETE("/:id", handlers.DeleteGroup)

		groups.GET("/:id/members", handlers.ListMembers)
		groups.POST("/:id/members", handlers.AddMember)
		groups.DELETE("/:id/members/:userId", handlers.RemoveMember)
		groups.PATCH("/:id/members/:userId", handlers.SetMemberRole)
	}
}
