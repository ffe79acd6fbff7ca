package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/handlers"
	"github.com/padelapp/padel_club/middleware"
)

func ClassRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	classes := api.Group("/instructor/classes", middleware.Protected(), middleware.InstructorRequired())
	classes.Get("", handlers.ListClasses)
	classes.Post("", handlers.CreateClass)
	classes.Get("/:classId", handlers.GetClassDetail)
	classes.Put("/:classId", handlers.UpdateClass)
	classes.Delete("/:classId", handlers.DeleteClass)
	classes.Post("/:classId/confirm", handlers.ConfirmClass)
	classes.Post("/:classId/students", handlers.AddStudentToClass)
	classes.Delete("/:classId/students", handlers.RemoveStudentFromClass)
}
