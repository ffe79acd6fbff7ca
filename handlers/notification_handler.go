package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/database"
	"github.com/padelapp/padel_club/models"
)

func ListNotifications(c *fiber.Ctx) error {
	var notifs []models.Notification
	database.DB.
		Preload("User").
		Preload("Class").
		Order("created_at desc").
		Find(&notifs)

	return c.JSON(notifs)
}

func GetNotification(c *fiber.Ctx) error {
	notificationID := c.Params("notificationId")

	var notif models.Notification
	if err := database.DB.
		Preload("User").
		Preload("Class.Instructor").
		First(&notif, "id = ?", notificationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	return c.JSON(notif)
}
