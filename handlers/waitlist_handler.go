package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/padelapp/padel_club/database"
	"github.com/padelapp/padel_club/models"
	"github.com/padelapp/padel_club/notifications"
	"github.com/padelapp/padel_club/services"
	"github.com/padelapp/padel_club/websocket"
)

// GetMyWaitlist lists the caller's own waitlist entries, newest slot first.
func GetMyWaitlist(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var entries []models.WaitlistEntry
	database.DB.
		Preload("Venue").
		Preload("Class").
		Where("student_id = ?", userID).
		Order("date desc, hour desc").
		Find(&entries)

	return c.JSON(entries)
}

type WaitlistEntryRequest struct {
	VenueID     string `json:"venue_id" validate:"required,uuid"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour        string `json:"hour" validate:"required,datetime=15:04"`
	Description string `json:"description"`
}

func AddWaitlistEntry(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req WaitlistEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	venueID, _ := uuid.Parse(req.VenueID)
	var venue models.Venue
	if err := database.DB.First(&venue, "id = ?", venueID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue not found"})
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	entry := models.WaitlistEntry{
		VenueID:     venueID,
		StudentID:   userID,
		Date:        date,
		Hour:        req.Hour,
		Description: req.Description,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to join the waiting list"})
	}

	websocket.Notify(&websocket.WaitlistEvent{
		Action:  "entry_added",
		Date:    req.Date,
		Hour:    req.Hour,
		VenueID: venueID.String(),
	})

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func UpdateMyWaitlistEntry(c *fiber.Ctx) error {
	userID := currentUserID(c)
	entryID := c.Params("entryId")

	var req WaitlistEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var entry models.WaitlistEntry
	if err := database.DB.First(&entry, "id = ? AND student_id = ?", entryID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Waitlist entry not found"})
	}

	venueID, _ := uuid.Parse(req.VenueID)
	var venue models.Venue
	if err := database.DB.First(&venue, "id = ?", venueID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue not found"})
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	entry.VenueID = venueID
	entry.Date = date
	entry.Hour = req.Hour
	entry.Description = req.Description
	if err := database.DB.Save(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update waitlist entry"})
	}
	return c.JSON(entry)
}

// DeleteMyWaitlistEntry lets a student withdraw their own request. No
// notification is sent; staff cancellations go through CancelWaitlistEntry.
func DeleteMyWaitlistEntry(c *fiber.Ctx) error {
	userID := currentUserID(c)
	entryID := c.Params("entryId")

	var entry models.WaitlistEntry
	if err := database.DB.First(&entry, "id = ? AND student_id = ?", entryID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Waitlist entry not found"})
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete waitlist entry"})
	}

	websocket.Notify(&websocket.WaitlistEvent{
		Action:  "entry_removed",
		Date:    entry.Date.Format("2006-01-02"),
		Hour:    entry.Hour,
		VenueID: entry.VenueID.String(),
	})

	return c.JSON(fiber.Map{"message": "Waitlist entry deleted"})
}

// GetAllWaitlist is the staff management view: every entry, eager-loaded,
// newest slot first.
func GetAllWaitlist(c *fiber.Ctx) error {
	var entries []models.WaitlistEntry
	database.DB.
		Preload("Student").
		Preload("Venue").
		Preload("Class.Instructor").
		Order("date desc, hour desc").
		Find(&entries)

	return c.JSON(entries)
}

func GetGroupedWaitlist(c *fiber.Ctx) error {
	groups, err := services.GroupPendingWaitlist(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load waiting list"})
	}
	return c.JSON(groups)
}

// CancelWaitlistEntry removes an entry on the student's behalf and sends a
// cancellation notice. The removal stands even when the email fails.
func CancelWaitlistEntry(c *fiber.Ctx) error {
	entryID, err := uuid.Parse(c.Params("entryId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entry id"})
	}

	student, sent, err := services.CancelWaitlistEntry(database.DB, notifications.Mail, entryID)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Waitlist entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel waitlist entry"})
	}

	websocket.Notify(&websocket.WaitlistEvent{Action: "entry_removed"})

	if !sent {
		return c.JSON(fiber.Map{"message": "Request cancelled, but the notification email could not be sent", "student": student.Username})
	}
	return c.JSON(fiber.Map{"message": "Request cancelled and notification sent", "student": student.Username})
}
