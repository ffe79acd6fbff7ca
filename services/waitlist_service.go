package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/padelapp/padel_club/models"
	"gorm.io/gorm"
)

// SlotGroup collects pending waitlist entries that share a (date, hour,
// venue) slot, for the instructor's pairing screen.
type SlotGroup struct {
	Date    string                 `json:"date"`
	Hour    string                 `json:"hour"`
	VenueID uuid.UUID              `json:"venue_id"`
	Venue   models.Venue           `json:"venue"`
	Entries []models.WaitlistEntry `json:"entries"`
}

// GroupPendingWaitlist returns unassigned waitlist entries grouped by slot,
// ascending by date, hour and venue id. Pure read, no side effects.
func GroupPendingWaitlist(db *gorm.DB) ([]SlotGroup, error) {
	var entries []models.WaitlistEntry
	err := db.
		Preload("Student").
		Preload("Venue").
		Where("class_id IS NULL AND pairing_id IS NULL").
		Order("date asc, hour asc, venue_id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	groups := make([]SlotGroup, 0)
	index := make(map[string]int)
	for _, entry := range entries {
		key := fmt.Sprintf("%s_%s_%s", entry.Date.Format("2006-01-02"), entry.Hour, entry.VenueID)
		if i, ok := index[key]; ok {
			groups[i].Entries = append(groups[i].Entries, entry)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, SlotGroup{
			Date:    entry.Date.Format("2006-01-02"),
			Hour:    entry.Hour,
			VenueID: entry.VenueID,
			Venue:   entry.Venue,
			Entries: []models.WaitlistEntry{entry},
		})
	}
	return groups, nil
}
