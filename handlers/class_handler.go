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
	"gorm.io/gorm"
)

func ListClasses(c *fiber.Ctx) error {
	var classes []models.Class
	database.DB.
		Preload("Instructor").
		Preload("TrainingType").
		Order("date desc, hour desc").
		Find(&classes)

	return c.JSON(classes)
}

type ClassRequest struct {
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	Hour           string  `json:"hour" validate:"required,datetime=15:04"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	Description    string  `json:"description"`
	TrainingTypeID *string `json:"training_type_id" validate:"omitempty,uuid"`
}

// CreateClass creates an unconfirmed class owned by the calling instructor;
// students are attached afterwards through the add-student endpoint.
func CreateClass(c *fiber.Ctx) error {
	instructorID := currentUserID(c)

	var req ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	class := models.Class{
		InstructorID: instructorID,
		Date:         date,
		Hour:         req.Hour,
		Price:        req.Price,
		Description:  req.Description,
		Confirmed:    false,
	}
	if req.TrainingTypeID != nil {
		trainingTypeID, err := resolveTrainingType(*req.TrainingTypeID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training type not found"})
		}
		class.TrainingTypeID = trainingTypeID
	}

	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create class"})
	}
	return c.Status(fiber.StatusCreated).JSON(class)
}

func UpdateClass(c *fiber.Ctx) error {
	classID := c.Params("classId")

	var req ClassRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var class models.Class
	if err := database.DB.First(&class, "id = ?", classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	class.Date = date
	class.Hour = req.Hour
	class.Price = req.Price
	class.Description = req.Description
	if req.TrainingTypeID != nil {
		trainingTypeID, err := resolveTrainingType(*req.TrainingTypeID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training type not found"})
		}
		class.TrainingTypeID = trainingTypeID
	} else {
		class.TrainingTypeID = nil
	}

	if err := database.DB.Save(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update class"})
	}
	return c.JSON(class)
}

// DeleteClass removes the class and its pairings. Waitlist entries survive;
// their class/pairing references are cleared back to unassigned.
func DeleteClass(c *fiber.Ctx) error {
	classID := c.Params("classId")

	var class models.Class
	if err := database.DB.First(&class, "id = ?", classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WaitlistEntry{}).
			Where("class_id = ?", class.ID).
			Updates(map[string]interface{}{"class_id": nil, "pairing_id": nil}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.Pairing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&class).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete class"})
	}
	return c.JSON(fiber.Map{"message": "Class deleted"})
}

// GetClassDetail returns the class plus its pairing (with players), its
// notifications and the waitlist entries linked to it.
func GetClassDetail(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}

	var class models.Class
	if err := database.DB.Preload("Instructor").Preload("TrainingType").First(&class, "id = ?", classID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}

	pairing, err := services.FirstPairingForClass(database.DB, class.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pairing"})
	}
	if pairing != nil {
		if err := database.DB.Preload("Players").First(pairing, "id = ?", pairing.ID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pairing"})
		}
	}

	var notifs []models.Notification
	database.DB.Preload("User").Where("class_id = ?", class.ID).Order("created_at desc").Find(&notifs)

	var entries []models.WaitlistEntry
	database.DB.Preload("Student").Where("class_id = ?", class.ID).Find(&entries)

	return c.JSON(fiber.Map{
		"class":            class,
		"pairing":          pairing,
		"notifications":    notifs,
		"waitlist_entries": entries,
	})
}

// ConfirmClass marks the class confirmed and notifies its pairing members.
func ConfirmClass(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
	}

	class, report, err := services.ConfirmClass(database.DB, notifications.Mail, classID)
	if err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm class"})
	}

	message := fmt.Sprintf("Class confirmed. %d notifications sent.", report.Sent)
	if report.Failed > 0 {
		message = fmt.Sprintf("Class confirmed. %d notifications sent, %d failed.", report.Sent, report.Failed)
	}
	return c.JSON(fiber.Map{
		"message":              message,
		"class":                class,
		"notifications_sent":   report.Sent,
		"notifications_failed": report.Failed,
	})
}

type ClassStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

// AddStudentToClass attaches a student to the class's pairing. Adding an
// existing member is answered with a warning, not an error.
func AddStudentToClass(c *fiber.Ctx) error {
	classID, studentID, fail := parseClassStudent(c)
	if fail != nil {
		return fail(c)
	}

	student, err := services.AddStudentToClass(database.DB, classID, studentID)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Student %s added to the class", student.FirstName)})
	case errors.Is(err, services.ErrAlreadyInClass):
		return c.JSON(fiber.Map{"warning": fmt.Sprintf("Student %s is already in this class", student.FirstName)})
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	case errors.Is(err, services.ErrClassNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add student to class"})
	}
}

// RemoveStudentFromClass detaches a student and frees their waitlist entry.
func RemoveStudentFromClass(c *fiber.Ctx) error {
	classID, studentID, fail := parseClassStudent(c)
	if fail != nil {
		return fail(c)
	}

	student, err := services.RemoveStudentFromClass(database.DB, classID, studentID)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"message": fmt.Sprintf("Student %s removed from the class", student.FirstName)})
	case errors.Is(err, services.ErrNotInClass):
		return c.JSON(fiber.Map{"warning": "The student is not in this class"})
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	case errors.Is(err, services.ErrClassNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove student from class"})
	}
}

func parseClassStudent(c *fiber.Ctx) (uuid.UUID, uuid.UUID, func(*fiber.Ctx) error) {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid class id"})
		}
	}

	var req ClassStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return uuid.Nil, uuid.Nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}
	if err := validate.Struct(req); err != nil {
		message := err.Error()
		return uuid.Nil, uuid.Nil, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
		}
	}

	studentID, _ := uuid.Parse(req.StudentID)
	return classID, studentID, nil
}

func resolveTrainingType(raw string) (*uuid.UUID, error) {
	trainingTypeID, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	var trainingType models.TrainingType
	if err := database.DB.First(&trainingType, "id = ?", trainingTypeID).Error; err != nil {
		return nil, err
	}
	return &trainingTypeID, nil
}
