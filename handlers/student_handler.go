package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/padelapp/padel_club/database"
	"github.com/padelapp/padel_club/models"
)

func ListStudents(c *fiber.Ctx) error {
	var students []models.User
	database.DB.
		Where("role = ?", models.RoleStudent).
		Order("first_name asc").
		Find(&students)

	return c.JSON(students)
}

type UpdateStudentRequest struct {
	UpdateProfileRequest
	SkillLevel *int `json:"skill_level" validate:"omitempty,gte=1,lte=9"`
}

// UpdateStudent lets an instructor edit a student's record, including the
// skill level students cannot set themselves.
func UpdateStudent(c *fiber.Ctx) error {
	studentID := c.Params("studentId")

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var student models.User
	if err := database.DB.First(&student, "id = ? AND role = ?", studentID, models.RoleStudent).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	applyProfileUpdate(&student, &req.UpdateProfileRequest)
	if req.SkillLevel != nil {
		student.SkillLevel = *req.SkillLevel
	}

	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}
	return c.JSON(student)
}
