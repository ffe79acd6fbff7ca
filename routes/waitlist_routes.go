package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/handlers"
	"github.com/padelapp/padel_club/middleware"
)

func WaitlistRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Students manage their own requests.
	mine := api.Group("/waitlist/me", middleware.Protected())
	mine.Get("", handlers.GetMyWaitlist)
	mine.Post("", handlers.AddWaitlistEntry)
	mine.Put("/:entryId", handlers.UpdateMyWaitlistEntry)
	mine.Delete("/:entryId", handlers.DeleteMyWaitlistEntry)

	// Staff oversight plus the pairing screen.
	staff := api.Group("/instructor/waitlist", middleware.Protected(), middleware.InstructorRequired())
	staff.Get("", handlers.GetAllWaitlist)
	staff.Get("/grouped", handlers.GetGroupedWaitlist)
	staff.Delete("/:entryId", handlers.CancelWaitlistEntry)

	api.Post("/instructor/pairings", middleware.Protected(), middleware.InstructorRequired(), handlers.CreatePairing)

	api.Use("/ws/waitlist", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/waitlist", websocket.New(handlers.ServeWaitlistFeed))
}
