package notifications

import (
	"fmt"
	"log"

	"github.com/padelapp/padel_club/models"
	"gorm.io/gorm"
)

// Dispatcher formats notification messages per event kind and hands them to
// the mail transport. Delivery failures are soft: logged, counted by the
// caller, never propagated.
type Dispatcher struct {
	Transport Transport
	From      string
}

// Dispatch sends one notification email to the user. On success the supplied
// notification record (if any) is marked sent. Returns false on any failure;
// it never retries.
func (d *Dispatcher) Dispatch(db *gorm.DB, user *models.User, eventKind string, class *models.Class, notif *models.Notification) bool {
	subject, body := buildMessage(user, eventKind, class)

	if d == nil || d.Transport == nil {
		log.Printf("⚠️ Email transport not configured, skipping %s notification to %s", eventKind, user.Email)
		return false
	}

	if err := d.Transport.Send(subject, body, d.From, []string{user.Email}); err != nil {
		log.Printf("🔥 Failed to send %s email to %s: %v", eventKind, user.Email, err)
		return false
	}

	if notif != nil {
		if err := notif.MarkSent(db); err != nil {
			log.Printf("🔥 Failed to mark notification %s as sent: %v", notif.ID, err)
		}
	}

	log.Printf("✅ %s email sent to %s", eventKind, user.Email)
	return true
}

// SendDirect delivers a one-off message outside the notification log, e.g.
// password reset links.
func (d *Dispatcher) SendDirect(toEmail, subject, body string) bool {
	if d == nil || d.Transport == nil {
		log.Printf("⚠️ Email transport not configured, skipping direct email to %s", toEmail)
		return false
	}
	if err := d.Transport.Send(subject, body, d.From, []string{toEmail}); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return false
	}
	return true
}

func buildMessage(user *models.User, eventKind string, class *models.Class) (string, string) {
	switch eventKind {
	case models.EventConfirmation:
		trainingInfo := ""
		if class != nil && class.TrainingType != nil {
			trainingInfo = fmt.Sprintf("\nTraining: %s", class.TrainingType.Name)
		}
		body := fmt.Sprintf(
			"Hi %s,\n\nYour padel class has been confirmed.\n\nDate: %s\nHour: %s\nPrice: $%s\nInstructor: %s%s\n\nSee you on the court!\n\nThe Padel Club Team",
			user.FirstName, classDate(class), classHour(class), classPrice(class), classInstructor(class), trainingInfo,
		)
		return "🎾 Padel Class Confirmed", body
	case models.EventCancellation:
		body := fmt.Sprintf(
			"Hi %s,\n\nWe are sorry to let you know that your padel class has been cancelled.\n\nDate: %s\nHour: %s\n\nWe will contact you soon to reschedule.\n\nThe Padel Club Team",
			user.FirstName, classDate(class), classHour(class),
		)
		return "❌ Padel Class Cancelled", body
	default:
		// Reminder doubles as the fallback for unrecognized kinds.
		body := fmt.Sprintf(
			"Hi %s,\n\nReminder: you have a padel class coming up.\n\nDate: %s\nHour: %s\n\nDon't miss it!\n\nThe Padel Club Team",
			user.FirstName, classDate(class), classHour(class),
		)
		return "🔔 Reminder - Padel Class", body
	}
}

func classDate(class *models.Class) string {
	if class == nil {
		return "N/A"
	}
	return class.Date.Format("2006-01-02")
}

func classHour(class *models.Class) string {
	if class == nil {
		return "N/A"
	}
	return class.Hour
}

func classPrice(class *models.Class) string {
	if class == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", class.Price)
}

func classInstructor(class *models.Class) string {
	if class == nil || class.Instructor.FirstName == "" {
		return "N/A"
	}
	return class.Instructor.FirstName
}
