package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/venues", handlers.ListVenues)
	api.Get("/training-types", handlers.ListTrainingTypes)
}
