package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/padelapp/padel_club/models"
	"github.com/padelapp/padel_club/notifications"
	"gorm.io/gorm"
)

var (
	ErrPlayerCount     = errors.New("a pairing needs between 2 and 4 players")
	ErrClassNotFound   = errors.New("class not found")
	ErrEntryNotFound   = errors.New("waitlist entry not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrAlreadyInClass  = errors.New("student is already in this class")
	ErrNotInClass      = errors.New("student is not in this class")
)

// DispatchReport counts notification delivery outcomes for one operation.
// Delivery failures never fail the operation itself.
type DispatchReport struct {
	Sent   int `json:"notifications_sent"`
	Failed int `json:"notifications_failed"`
}

type CreatePairingInput struct {
	PlayerIDs   []uuid.UUID
	VenueID     uuid.UUID
	Date        time.Time
	Hour        string
	Description string
	Price       float64
}

// CreatePairingFromWaitlist turns a group of waiting students into a
// confirmed class with a pairing. The class, pairing, membership and
// waitlist updates commit as one transaction; confirmation emails go out
// afterwards, best-effort per student. The acting instructor is passed in
// explicitly rather than read from any ambient request state.
func CreatePairingFromWaitlist(db *gorm.DB, mail *notifications.Dispatcher, instructor *models.User, in CreatePairingInput) (*models.Class, *models.Pairing, DispatchReport, error) {
	var report DispatchReport

	if len(in.PlayerIDs) < 2 || len(in.PlayerIDs) > 4 {
		return nil, nil, report, ErrPlayerCount
	}

	var class models.Class
	var pairing models.Pairing
	var players []*models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ? AND role = ?", in.PlayerIDs, models.RoleStudent).Find(&players).Error; err != nil {
			return err
		}
		if len(players) != len(in.PlayerIDs) {
			return ErrStudentNotFound
		}

		class = models.Class{
			Description:  in.Description,
			InstructorID: instructor.ID,
			Date:         in.Date,
			Hour:         in.Hour,
			Price:        in.Price,
			Confirmed:    true,
		}
		if err := tx.Create(&class).Error; err != nil {
			return err
		}

		pairing = models.Pairing{Description: in.Description, ClassID: class.ID}
		if err := tx.Create(&pairing).Error; err != nil {
			return err
		}
		if err := tx.Model(&pairing).Association("Players").Append(players); err != nil {
			return err
		}

		// Only entries still unassigned are re-pointed; an entry already
		// linked to another class at the same slot is left alone.
		return tx.Model(&models.WaitlistEntry{}).
			Where("student_id IN ? AND date = ? AND hour = ? AND venue_id = ?", in.PlayerIDs, in.Date, in.Hour, in.VenueID).
			Where("class_id IS NULL AND pairing_id IS NULL").
			Updates(map[string]interface{}{"class_id": class.ID, "pairing_id": pairing.ID}).Error
	})
	if err != nil {
		return nil, nil, report, err
	}

	for _, player := range players {
		report.Track(notifyStudent(db, mail, player, models.EventConfirmation, &class))
	}
	return &class, &pairing, report, nil
}

// ConfirmClass marks the class confirmed and notifies every player of its
// pairing, if one exists. A class without a pairing is still confirmed,
// with zero notifications sent.
func ConfirmClass(db *gorm.DB, mail *notifications.Dispatcher, classID uuid.UUID) (*models.Class, DispatchReport, error) {
	var report DispatchReport

	var class models.Class
	if err := db.Preload("Instructor").Preload("TrainingType").First(&class, "id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report, ErrClassNotFound
		}
		return nil, report, err
	}

	class.Confirmed = true
	if err := db.Save(&class).Error; err != nil {
		return nil, report, err
	}

	pairing, err := FirstPairingForClass(db, class.ID)
	if err != nil {
		return &class, report, err
	}
	if pairing == nil {
		return &class, report, nil
	}

	var players []*models.User
	if err := db.Model(pairing).Association("Players").Find(&players); err != nil {
		return &class, report, err
	}
	for _, player := range players {
		report.Track(notifyStudent(db, mail, player, models.EventConfirmation, &class))
	}
	return &class, report, nil
}

// CancelWaitlistEntry deletes the entry, then sends a cancellation notice to
// its student. The notice is best-effort; the deletion stands either way.
func CancelWaitlistEntry(db *gorm.DB, mail *notifications.Dispatcher, entryID uuid.UUID) (*models.User, bool, error) {
	var entry models.WaitlistEntry
	if err := db.Preload("Student").First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrEntryNotFound
		}
		return nil, false, err
	}

	if err := db.Delete(&entry).Error; err != nil {
		return nil, false, err
	}

	sent := notifyStudent(db, mail, &entry.Student, models.EventCancellation, nil)
	return &entry.Student, sent, nil
}

// AddStudentToClass adds a student to the class's pairing, creating the
// pairing if the class has none, and re-points the student's matching
// unassigned waitlist entries. Adding a member twice is a warning, not an
// error: ErrAlreadyInClass with no mutation.
func AddStudentToClass(db *gorm.DB, classID, studentID uuid.UUID) (*models.User, error) {
	var class models.Class
	if err := db.First(&class, "id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	var student models.User
	if err := db.First(&student, "id = ? AND role = ?", studentID, models.RoleStudent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	pairing, err := FirstPairingForClass(db, class.ID)
	if err != nil {
		return &student, err
	}
	if pairing == nil {
		pairing = &models.Pairing{
			ClassID:     class.ID,
			Description: fmt.Sprintf("Pairing for class on %s", class.Date.Format("2006-01-02")),
		}
		if err := db.Create(pairing).Error; err != nil {
			return &student, err
		}
	}

	member, err := isPairingMember(db, pairing.ID, student.ID)
	if err != nil {
		return &student, err
	}
	if member {
		return &student, ErrAlreadyInClass
	}

	if err := db.Model(pairing).Association("Players").Append(&student); err != nil {
		return &student, err
	}

	err = db.Model(&models.WaitlistEntry{}).
		Where("student_id = ? AND date = ? AND hour = ?", student.ID, class.Date, class.Hour).
		Where("class_id IS NULL AND pairing_id IS NULL").
		Updates(map[string]interface{}{"class_id": class.ID, "pairing_id": pairing.ID}).Error
	return &student, err
}

// RemoveStudentFromClass takes a student out of the class's pairing and
// frees their waitlist entries tied to this class. A non-member is a
// warning: ErrNotInClass with no mutation.
func RemoveStudentFromClass(db *gorm.DB, classID, studentID uuid.UUID) (*models.User, error) {
	var class models.Class
	if err := db.First(&class, "id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	var student models.User
	if err := db.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	pairing, err := FirstPairingForClass(db, class.ID)
	if err != nil {
		return &student, err
	}
	if pairing == nil {
		return &student, ErrNotInClass
	}

	member, err := isPairingMember(db, pairing.ID, student.ID)
	if err != nil {
		return &student, err
	}
	if !member {
		return &student, ErrNotInClass
	}

	if err := db.Model(pairing).Association("Players").Delete(&student); err != nil {
		return &student, err
	}

	err = db.Model(&models.WaitlistEntry{}).
		Where("student_id = ? AND class_id = ?", student.ID, class.ID).
		Updates(map[string]interface{}{"class_id": nil, "pairing_id": nil}).Error
	return &student, err
}

// FirstPairingForClass resolves the by-convention single pairing of a class:
// first match in creation order, nil when the class has none.
func FirstPairingForClass(db *gorm.DB, classID uuid.UUID) (*models.Pairing, error) {
	var pairing models.Pairing
	err := db.Where("class_id = ?", classID).Order("created_at asc").First(&pairing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pairing, nil
}

func (r *DispatchReport) Track(sent bool) {
	if sent {
		r.Sent++
	} else {
		r.Failed++
	}
}

func isPairingMember(db *gorm.DB, pairingID, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Table("pairing_players").
		Where("pairing_id = ? AND user_id = ?", pairingID, userID).
		Count(&count).Error
	return count > 0, err
}

// notifyStudent records the notification, then attempts delivery. A failed
// record write counts as a failed dispatch but does not abort the caller.
func notifyStudent(db *gorm.DB, mail *notifications.Dispatcher, student *models.User, eventKind string, class *models.Class) bool {
	notif := models.Notification{UserID: student.ID, EventKind: eventKind}
	if class != nil {
		notif.ClassID = &class.ID
	}
	if err := db.Create(&notif).Error; err != nil {
		log.Printf("🔥 Failed to record %s notification for %s: %v", eventKind, student.Email, err)
		return false
	}
	return mail.Dispatch(db, student, eventKind, class, &notif)
}
