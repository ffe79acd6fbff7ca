package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/database"
	"github.com/padelapp/padel_club/models"
)

func ListVenues(c *fiber.Ctx) error {
	var venues []models.Venue
	database.DB.Order("name asc").Find(&venues)
	return c.JSON(venues)
}

type VenueRequest struct {
	Name          string  `json:"name" validate:"required,min=2"`
	IndoorCourts  int     `json:"indoor_courts" validate:"gte=0"`
	OutdoorCourts int     `json:"outdoor_courts" validate:"gte=0"`
	SurfaceType   string  `json:"surface_type" validate:"required,oneof=Glass/Synthetic Wall/Synthetic Wall/Concrete"`
	HourlyRate    float64 `json:"hourly_rate" validate:"required,gt=0"`

	InstructorCount int    `json:"instructor_count" validate:"gte=0"`
	Address         string `json:"address"`
	City            string `json:"city"`
	Province        string `json:"province"`
	Phone           string `json:"phone"`
	Email           string `json:"email" validate:"omitempty,email"`
}

func CreateVenue(c *fiber.Ctx) error {
	var req VenueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	venue := models.Venue{
		Name:            req.Name,
		IndoorCourts:    req.IndoorCourts,
		OutdoorCourts:   req.OutdoorCourts,
		SurfaceType:     req.SurfaceType,
		HourlyRate:      req.HourlyRate,
		InstructorCount: req.InstructorCount,
		Address:         req.Address,
		City:            req.City,
		Province:        req.Province,
		Phone:           req.Phone,
		Email:           req.Email,
	}
	if err := database.DB.Create(&venue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create venue"})
	}
	return c.Status(fiber.StatusCreated).JSON(venue)
}

func UpdateVenue(c *fiber.Ctx) error {
	venueID := c.Params("venueId")

	var req VenueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var venue models.Venue
	if err := database.DB.First(&venue, "id = ?", venueID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue not found"})
	}

	venue.Name = req.Name
	venue.IndoorCourts = req.IndoorCourts
	venue.OutdoorCourts = req.OutdoorCourts
	venue.SurfaceType = req.SurfaceType
	venue.HourlyRate = req.HourlyRate
	venue.InstructorCount = req.InstructorCount
	venue.Address = req.Address
	venue.City = req.City
	venue.Province = req.Province
	venue.Phone = req.Phone
	venue.Email = req.Email

	if err := database.DB.Save(&venue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update venue"})
	}
	return c.JSON(venue)
}

func DeleteVenue(c *fiber.Ctx) error {
	venueID := c.Params("venueId")

	var venue models.Venue
	if err := database.DB.First(&venue, "id = ?", venueID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Venue not found"})
	}

	var pending int64
	database.DB.Model(&models.WaitlistEntry{}).Where("venue_id = ?", venue.ID).Count(&pending)
	if pending > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Venue has waitlist entries and cannot be deleted"})
	}

	if err := database.DB.Delete(&venue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete venue"})
	}
	return c.JSON(fiber.Map{"message": "Venue deleted"})
}
