package jobs

import (
	"log"
	"time"

	"github.com/padelapp/padel_club/database"
	"github.com/padelapp/padel_club/models"
	"github.com/padelapp/padel_club/notifications"
	"github.com/padelapp/padel_club/services"
	"gorm.io/gorm"
)

// SendClassReminders is the cron entry point: it reminds every player of a
// confirmed, not-yet-notified class happening tomorrow, then flags the
// class as notified so the next run skips it.
func SendClassReminders() {
	log.Println("Running job: SendClassReminders...")

	next := time.Now().AddDate(0, 0, 1)
	day := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)

	sent, failed, err := RemindClassesOn(database.DB, notifications.Mail, day)
	if err != nil {
		log.Printf("🔥 Reminder job failed: %v", err)
		return
	}
	if sent > 0 || failed > 0 {
		log.Printf("Reminder job done: %d reminders sent, %d failed", sent, failed)
	}
}

// RemindClassesOn handles every confirmed, un-notified class on the given
// day. Delivery failures are soft and do not keep the class from being
// marked notified; the class either got its reminder pass or it didn't.
func RemindClassesOn(db *gorm.DB, mail *notifications.Dispatcher, day time.Time) (int, int, error) {
	var classes []models.Class
	err := db.
		Preload("Instructor").
		Preload("TrainingType").
		Where("confirmed = ? AND notified = ? AND date = ?", true, false, day).
		Find(&classes).Error
	if err != nil {
		return 0, 0, err
	}

	var sent, failed int
	for i := range classes {
		class := &classes[i]

		pairing, err := services.FirstPairingForClass(db, class.ID)
		if err != nil {
			log.Printf("🔥 Failed to load pairing for class %s: %v", class.ID, err)
			continue
		}
		if pairing != nil {
			var players []*models.User
			if err := db.Model(pairing).Association("Players").Find(&players); err != nil {
				log.Printf("🔥 Failed to load players for class %s: %v", class.ID, err)
				continue
			}
			for _, player := range players {
				notif := models.Notification{UserID: player.ID, EventKind: models.EventReminder, ClassID: &class.ID}
				if err := db.Create(&notif).Error; err != nil {
					log.Printf("🔥 Failed to record reminder for %s: %v", player.Email, err)
					failed++
					continue
				}
				if mail.Dispatch(db, player, models.EventReminder, class, &notif) {
					sent++
				} else {
					failed++
				}
			}
		}

		if err := db.Model(class).Update("notified", true).Error; err != nil {
			log.Printf("🔥 Failed to mark class %s as notified: %v", class.ID, err)
		}
	}
	return sent, failed, nil
}
