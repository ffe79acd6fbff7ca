package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/padelapp/padel_club/database"
	"github.com/padelapp/padel_club/models"
	"github.com/padelapp/padel_club/notifications"
	"github.com/padelapp/padel_club/services"
	"github.com/padelapp/padel_club/websocket"
)

type CreatePairingRequest struct {
	PlayerIDs   []string `json:"player_ids" validate:"required,min=2,max=4,dive,uuid"`
	VenueID     string   `json:"venue_id" validate:"required,uuid"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Hour        string   `json:"hour" validate:"required,datetime=15:04"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
}

// CreatePairing groups 2-4 waiting students into a confirmed class and
// reports how many confirmation emails went out.
func CreatePairing(c *fiber.Ctx) error {
	instructorID := currentUserID(c)

	var req CreatePairingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var instructor models.User
	if err := database.DB.First(&instructor, "id = ?", instructorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instructor not found"})
	}

	playerIDs := make([]uuid.UUID, 0, len(req.PlayerIDs))
	for _, raw := range req.PlayerIDs {
		id, _ := uuid.Parse(raw)
		playerIDs = append(playerIDs, id)
	}
	venueID, _ := uuid.Parse(req.VenueID)
	date, _ := time.Parse("2006-01-02", req.Date)

	class, pairing, report, err := services.CreatePairingFromWaitlist(database.DB, notifications.Mail, &instructor, services.CreatePairingInput{
		PlayerIDs:   playerIDs,
		VenueID:     venueID,
		Date:        date,
		Hour:        req.Hour,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlayerCount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You must select between 2 and 4 players"})
		case errors.Is(err, services.ErrStudentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "One or more selected players do not exist"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create the pairing"})
		}
	}

	websocket.Notify(&websocket.WaitlistEvent{
		Action:  "pairing_created",
		Date:    req.Date,
		Hour:    req.Hour,
		VenueID: req.VenueID,
	})

	message := fmt.Sprintf("Pairing created for %d players. All notifications sent.", len(playerIDs))
	if report.Failed > 0 {
		message = fmt.Sprintf("Pairing created for %d players. %d notifications sent, %d failed.", len(playerIDs), report.Sent, report.Failed)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":              message,
		"class":                class,
		"pairing":              pairing,
		"notifications_sent":   report.Sent,
		"notifications_failed": report.Failed,
	})
}
