package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/handlers"
	"github.com/padelapp/padel_club/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("", handlers.GetMyProfile)
	profile.Put("", handlers.UpdateMyProfile)
}
