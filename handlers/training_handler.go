package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/database"
	"github.com/padelapp/padel_club/models"
)

func ListTrainingTypes(c *fiber.Ctx) error {
	var trainingTypes []models.TrainingType
	database.DB.Order("name asc").Find(&trainingTypes)
	return c.JSON(trainingTypes)
}

type TrainingTypeRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Description     string `json:"description"`
	Category        string `json:"category" validate:"required,oneof=Technique Tactics Fitness Strategy Mixed"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	MinSkillLevel   int    `json:"min_skill_level" validate:"required,gte=1,lte=9"`
	MaxSkillLevel   int    `json:"max_skill_level" validate:"required,gte=1,lte=9"`
}

func CreateTrainingType(c *fiber.Ctx) error {
	var req TrainingTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.MinSkillLevel > req.MaxSkillLevel {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_skill_level cannot exceed max_skill_level"})
	}

	trainingType := models.TrainingType{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		MinSkillLevel:   req.MinSkillLevel,
		MaxSkillLevel:   req.MaxSkillLevel,
	}
	if err := database.DB.Create(&trainingType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create training type"})
	}
	return c.Status(fiber.StatusCreated).JSON(trainingType)
}

func UpdateTrainingType(c *fiber.Ctx) error {
	trainingTypeID := c.Params("trainingTypeId")

	var req TrainingTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.MinSkillLevel > req.MaxSkillLevel {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_skill_level cannot exceed max_skill_level"})
	}

	var trainingType models.TrainingType
	if err := database.DB.First(&trainingType, "id = ?", trainingTypeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training type not found"})
	}

	trainingType.Name = req.Name
	trainingType.Description = req.Description
	trainingType.Category = req.Category
	trainingType.DurationMinutes = req.DurationMinutes
	trainingType.MinSkillLevel = req.MinSkillLevel
	trainingType.MaxSkillLevel = req.MaxSkillLevel

	if err := database.DB.Save(&trainingType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update training type"})
	}
	return c.JSON(trainingType)
}

func DeleteTrainingType(c *fiber.Ctx) error {
	trainingTypeID := c.Params("trainingTypeId")

	var trainingType models.TrainingType
	if err := database.DB.First(&trainingType, "id = ?", trainingTypeID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training type not found"})
	}

	if err := database.DB.Delete(&trainingType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete training type"})
	}
	return c.JSON(fiber.Map{"message": "Training type deleted"})
}
