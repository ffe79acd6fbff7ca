package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/handlers"
	"github.com/padelapp/padel_club/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/instructor", middleware.Protected(), middleware.InstructorRequired())

	admin.Get("/students", handlers.ListStudents)
	admin.Put("/students/:studentId", handlers.UpdateStudent)

	admin.Get("/notifications", handlers.ListNotifications)
	admin.Get("/notifications/:notificationId", handlers.GetNotification)

	admin.Post("/venues", handlers.CreateVenue)
	admin.Put("/venues/:venueId", handlers.UpdateVenue)
	admin.Delete("/venues/:venueId", handlers.DeleteVenue)

	admin.Post("/training-types", handlers.CreateTrainingType)
	admin.Put("/training-types/:trainingTypeId", handlers.UpdateTrainingType)
	admin.Delete("/training-types/:trainingTypeId", handlers.DeleteTrainingType)
}
