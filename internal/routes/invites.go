package routes

import (
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/handlers"
	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterInviteRoutes(r gin.IRouter) {
	invites := r.Group("/invites")
	{
		// Public: the registration page validates links before sign-up
		invites.GET("/:token", handlers.ResolveInvite)

		auth := invites.Group("")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.POST("", middleware.InviteRateLimit(), handlers.CreateInvite)
			auth.GET("", handlers.ListMyInvites)
			auth.POST("/:token/redeem", handlers.RedeemInvite)
		}
	}
}
