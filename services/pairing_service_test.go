package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/padelapp/padel_club/models"
	"github.com/padelapp/padel_club/notifications"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database pool: %v", err)
	}
	// A single connection keeps the in-memory database alive for the test.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.TrainingType{},
		&models.Class{},
		&models.Pairing{},
		&models.WaitlistEntry{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// stubTransport lets tests fail delivery per recipient address.
type stubTransport struct {
	failFor map[string]bool
	sent    []string
}

func (s *stubTransport) Send(subject, body, from string, to []string) error {
	if s.failFor[to[0]] {
		return errors.New("smtp unreachable")
	}
	s.sent = append(s.sent, to[0])
	return nil
}

func newTestDispatcher(failFor ...string) (*notifications.Dispatcher, *stubTransport) {
	transport := &stubTransport{failFor: make(map[string]bool)}
	for _, addr := range failFor {
		transport.failFor[addr] = true
	}
	return &notifications.Dispatcher{Transport: transport, From: "club@test"}, transport
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@test",
		Password:  "x",
		Role:      role,
		FirstName: username,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createVenue(t *testing.T, db *gorm.DB, name string) *models.Venue {
	t.Helper()
	venue := models.Venue{Name: name, IndoorCourts: 2, SurfaceType: "Glass/Synthetic", HourlyRate: 15000}
	if err := db.Create(&venue).Error; err != nil {
		t.Fatalf("failed to create venue %s: %v", name, err)
	}
	return &venue
}

func createEntry(t *testing.T, db *gorm.DB, student *models.User, venue *models.Venue, date time.Time, hour string) *models.WaitlistEntry {
	t.Helper()
	entry := models.WaitlistEntry{StudentID: student.ID, VenueID: venue.ID, Date: date, Hour: hour}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to create waitlist entry: %v", err)
	}
	return &entry
}

func reloadEntry(t *testing.T, db *gorm.DB, id uuid.UUID) *models.WaitlistEntry {
	t.Helper()
	var entry models.WaitlistEntry
	if err := db.First(&entry, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload waitlist entry: %v", err)
	}
	return &entry
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

var slotDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestCreatePairingPlayerCountValidation(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher()
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	venue := createVenue(t, db, "Club Central")
	student := createUser(t, db, "ana", models.RoleStudent)
	entry := createEntry(t, db, student, venue, slotDate, "18:00")

	for _, ids := range [][]uuid.UUID{
		{student.ID},
		{student.ID, uuid.New(), uuid.New(), uuid.New(), uuid.New()},
	} {
		_, _, _, err := CreatePairingFromWaitlist(db, mail, instructor, CreatePairingInput{
			PlayerIDs: ids, VenueID: venue.ID, Date: slotDate, Hour: "18:00", Price: 15000,
		})
		if !errors.Is(err, ErrPlayerCount) {
			t.Fatalf("expected ErrPlayerCount for %d players, got %v", len(ids), err)
		}
	}

	if n := countRows(t, db, &models.Class{}); n != 0 {
		t.Fatalf("expected no classes after rejected calls, got %d", n)
	}
	if n := countRows(t, db, &models.Pairing{}); n != 0 {
		t.Fatalf("expected no pairings after rejected calls, got %d", n)
	}
	if n := countRows(t, db, &models.Notification{}); n != 0 {
		t.Fatalf("expected no notifications after rejected calls, got %d", n)
	}
	if got := reloadEntry(t, db, entry.ID); !got.Unassigned() {
		t.Fatal("waitlist entry must stay unassigned after rejected calls")
	}
}

func TestCreatePairingAssignsSlot(t *testing.T) {
	db := newTestDB(t)
	mail, transport := newTestDispatcher()
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	venue := createVenue(t, db, "Club Central")
	otherVenue := createVenue(t, db, "Club Norte")

	a := createUser(t, db, "ana", models.RoleStudent)
	b := createUser(t, db, "bruno", models.RoleStudent)
	cc := createUser(t, db, "carla", models.RoleStudent)
	d := createUser(t, db, "diego", models.RoleStudent)

	entryA := createEntry(t, db, a, venue, slotDate, "18:00")
	entryB := createEntry(t, db, b, venue, slotDate, "18:00")
	entryC := createEntry(t, db, cc, venue, slotDate, "18:00")
	entryD := createEntry(t, db, d, venue, slotDate, "18:00")
	entryAOther := createEntry(t, db, a, otherVenue, slotDate, "18:00")

	class, pairing, report, err := CreatePairingFromWaitlist(db, mail, instructor, CreatePairingInput{
		PlayerIDs: []uuid.UUID{a.ID, b.ID, cc.ID},
		VenueID:   venue.ID,
		Date:      slotDate,
		Hour:      "18:00",
		Price:     15000,
	})
	if err != nil {
		t.Fatalf("CreatePairingFromWaitlist failed: %v", err)
	}

	if !class.Confirmed {
		t.Fatal("class must be confirmed")
	}
	if class.Price != 15000 {
		t.Fatalf("expected price 15000, got %v", class.Price)
	}
	if members := db.Model(pairing).Association("Players").Count(); members != 3 {
		t.Fatalf("expected 3 pairing members, got %d", members)
	}

	for _, entry := range []*models.WaitlistEntry{entryA, entryB, entryC} {
		got := reloadEntry(t, db, entry.ID)
		if got.ClassID == nil || *got.ClassID != class.ID {
			t.Fatalf("entry %s must reference the new class", got.ID)
		}
		if got.PairingID == nil || *got.PairingID != pairing.ID {
			t.Fatalf("entry %s must reference the new pairing", got.ID)
		}
	}
	if got := reloadEntry(t, db, entryD.ID); !got.Unassigned() {
		t.Fatal("entry of a student outside the set must stay unassigned")
	}
	if got := reloadEntry(t, db, entryAOther.ID); !got.Unassigned() {
		t.Fatal("entry at a different venue must stay unassigned")
	}

	var notifs []models.Notification
	db.Where("class_id = ?", class.ID).Find(&notifs)
	if len(notifs) != 3 {
		t.Fatalf("expected 3 confirmation notifications, got %d", len(notifs))
	}
	for _, notif := range notifs {
		if notif.EventKind != models.EventConfirmation {
			t.Fatalf("expected confirmation kind, got %s", notif.EventKind)
		}
		if !notif.Sent || notif.SentAt == nil {
			t.Fatal("successful dispatch must mark the notification sent")
		}
	}
	if report.Sent != 3 || report.Failed != 0 {
		t.Fatalf("expected report 3/0, got %d/%d", report.Sent, report.Failed)
	}
	if len(transport.sent) != 3 {
		t.Fatalf("expected 3 emails, got %d", len(transport.sent))
	}
}

func TestCreatePairingPartialDeliveryFailure(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher("bruno@test")
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	venue := createVenue(t, db, "Club Central")

	a := createUser(t, db, "ana", models.RoleStudent)
	b := createUser(t, db, "bruno", models.RoleStudent)
	cc := createUser(t, db, "carla", models.RoleStudent)
	for _, s := range []*models.User{a, b, cc} {
		createEntry(t, db, s, venue, slotDate, "18:00")
	}

	class, pairing, report, err := CreatePairingFromWaitlist(db, mail, instructor, CreatePairingInput{
		PlayerIDs: []uuid.UUID{a.ID, b.ID, cc.ID},
		VenueID:   venue.ID,
		Date:      slotDate,
		Hour:      "18:00",
		Price:     15000,
	})
	if err != nil {
		t.Fatalf("delivery failure must not fail the operation: %v", err)
	}
	if report.Sent != 2 || report.Failed != 1 {
		t.Fatalf("expected report 2/1, got %d/%d", report.Sent, report.Failed)
	}
	if members := db.Model(pairing).Association("Players").Count(); members != 3 {
		t.Fatalf("expected 3 pairing members despite the failed email, got %d", members)
	}

	var notif models.Notification
	if err := db.First(&notif, "class_id = ? AND user_id = ?", class.ID, b.ID).Error; err != nil {
		t.Fatalf("notification record for the failed dispatch must exist: %v", err)
	}
	if notif.Sent || notif.SentAt != nil {
		t.Fatal("failed dispatch must leave the notification unsent")
	}
}

func TestCreatePairingUnknownStudentRollsBack(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher()
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	venue := createVenue(t, db, "Club Central")
	a := createUser(t, db, "ana", models.RoleStudent)
	createEntry(t, db, a, venue, slotDate, "18:00")

	_, _, _, err := CreatePairingFromWaitlist(db, mail, instructor, CreatePairingInput{
		PlayerIDs: []uuid.UUID{a.ID, uuid.New()},
		VenueID:   venue.ID,
		Date:      slotDate,
		Hour:      "18:00",
		Price:     15000,
	})
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
	if n := countRows(t, db, &models.Class{}); n != 0 {
		t.Fatalf("transaction must roll back the class, found %d", n)
	}
	if n := countRows(t, db, &models.Pairing{}); n != 0 {
		t.Fatalf("transaction must roll back the pairing, found %d", n)
	}
}

func TestCreatePairingLeavesAssignedEntriesAlone(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher()
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	venue := createVenue(t, db, "Club Central")
	a := createUser(t, db, "ana", models.RoleStudent)
	b := createUser(t, db, "bruno", models.RoleStudent)

	otherClass := models.Class{InstructorID: instructor.ID, Date: slotDate, Hour: "18:00", Price: 10000}
	if err := db.Create(&otherClass).Error; err != nil {
		t.Fatalf("failed to create other class: %v", err)
	}
	otherPairing := models.Pairing{ClassID: otherClass.ID}
	if err := db.Create(&otherPairing).Error; err != nil {
		t.Fatalf("failed to create other pairing: %v", err)
	}

	entryA := createEntry(t, db, a, venue, slotDate, "18:00")
	if err := db.Model(entryA).Updates(map[string]interface{}{"class_id": otherClass.ID, "pairing_id": otherPairing.ID}).Error; err != nil {
		t.Fatalf("failed to pre-assign entry: %v", err)
	}
	createEntry(t, db, b, venue, slotDate, "18:00")

	class, _, _, err := CreatePairingFromWaitlist(db, mail, instructor, CreatePairingInput{
		PlayerIDs: []uuid.UUID{a.ID, b.ID},
		VenueID:   venue.ID,
		Date:      slotDate,
		Hour:      "18:00",
		Price:     15000,
	})
	if err != nil {
		t.Fatalf("CreatePairingFromWaitlist failed: %v", err)
	}

	got := reloadEntry(t, db, entryA.ID)
	if got.ClassID == nil || *got.ClassID != otherClass.ID {
		t.Fatalf("entry already assigned elsewhere must keep its class, now points at %v", got.ClassID)
	}
	if *got.ClassID == class.ID {
		t.Fatal("entry must not be silently re-pointed at the new class")
	}
}

func TestConfirmClassNotifiesPairing(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher()
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	a := createUser(t, db, "ana", models.RoleStudent)
	b := createUser(t, db, "bruno", models.RoleStudent)

	class := models.Class{InstructorID: instructor.ID, Date: slotDate, Hour: "18:00", Price: 15000}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}
	pairing := models.Pairing{ClassID: class.ID, Players: []*models.User{a, b}}
	if err := db.Create(&pairing).Error; err != nil {
		t.Fatalf("failed to create pairing: %v", err)
	}

	confirmed, report, err := ConfirmClass(db, mail, class.ID)
	if err != nil {
		t.Fatalf("ConfirmClass failed: %v", err)
	}
	if !confirmed.Confirmed {
		t.Fatal("class must be confirmed")
	}
	if report.Sent != 2 || report.Failed != 0 {
		t.Fatalf("expected report 2/0, got %d/%d", report.Sent, report.Failed)
	}
	if n := countRows(t, db, &models.Notification{}); n != 2 {
		t.Fatalf("expected 2 notifications, got %d", n)
	}
}

func TestConfirmClassWithoutPairing(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher()
	instructor := createUser(t, db, "coach", models.RoleInstructor)

	class := models.Class{InstructorID: instructor.ID, Date: slotDate, Hour: "18:00", Price: 15000}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}

	confirmed, report, err := ConfirmClass(db, mail, class.ID)
	if err != nil {
		t.Fatalf("ConfirmClass failed: %v", err)
	}
	if !confirmed.Confirmed {
		t.Fatal("class without a pairing must still be confirmed")
	}
	if report.Sent != 0 || report.Failed != 0 {
		t.Fatalf("expected no notifications, got %d/%d", report.Sent, report.Failed)
	}

	if _, _, err := ConfirmClass(db, mail, uuid.New()); !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("expected ErrClassNotFound, got %v", err)
	}
}

func TestCancelWaitlistEntry(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher()
	venue := createVenue(t, db, "Club Central")
	a := createUser(t, db, "ana", models.RoleStudent)
	entry := createEntry(t, db, a, venue, slotDate, "18:00")

	student, sent, err := CancelWaitlistEntry(db, mail, entry.ID)
	if err != nil {
		t.Fatalf("CancelWaitlistEntry failed: %v", err)
	}
	if student.ID != a.ID {
		t.Fatal("cancellation must resolve the entry's student")
	}
	if !sent {
		t.Fatal("expected the cancellation notice to be delivered")
	}

	if n := countRows(t, db, &models.WaitlistEntry{}); n != 0 {
		t.Fatalf("entry must be deleted, %d left", n)
	}
	var notif models.Notification
	if err := db.First(&notif, "user_id = ?", a.ID).Error; err != nil {
		t.Fatalf("cancellation notification must exist: %v", err)
	}
	if notif.EventKind != models.EventCancellation {
		t.Fatalf("expected cancellation kind, got %s", notif.EventKind)
	}
	if notif.ClassID != nil {
		t.Fatal("a waitlist cancellation carries no class reference")
	}

	if _, _, err := CancelWaitlistEntry(db, mail, uuid.New()); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestAddStudentToClassIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	a := createUser(t, db, "ana", models.RoleStudent)
	venue := createVenue(t, db, "Club Central")
	entry := createEntry(t, db, a, venue, slotDate, "18:00")

	class := models.Class{InstructorID: instructor.ID, Date: slotDate, Hour: "18:00", Price: 15000}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}

	if _, err := AddStudentToClass(db, class.ID, a.ID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	pairing, err := FirstPairingForClass(db, class.ID)
	if err != nil || pairing == nil {
		t.Fatalf("pairing must be created on demand, err=%v", err)
	}
	if got := reloadEntry(t, db, entry.ID); got.ClassID == nil || *got.ClassID != class.ID {
		t.Fatal("matching waitlist entry must be linked to the class")
	}

	if _, err := AddStudentToClass(db, class.ID, a.ID); !errors.Is(err, ErrAlreadyInClass) {
		t.Fatalf("second add must warn ErrAlreadyInClass, got %v", err)
	}
	if members := db.Model(pairing).Association("Players").Count(); members != 1 {
		t.Fatalf("expected exactly one membership, got %d", members)
	}
	if n := countRows(t, db, &models.Pairing{}); n != 1 {
		t.Fatalf("expected exactly one pairing, got %d", n)
	}

	if _, err := AddStudentToClass(db, class.ID, instructor.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("non-student user must be rejected with ErrStudentNotFound, got %v", err)
	}
	if _, err := AddStudentToClass(db, class.ID, uuid.New()); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("unknown id must be rejected with ErrStudentNotFound, got %v", err)
	}
}

func TestRemoveThenAddRestoresMembership(t *testing.T) {
	db := newTestDB(t)
	mail, _ := newTestDispatcher()
	instructor := createUser(t, db, "coach", models.RoleInstructor)
	venue := createVenue(t, db, "Club Central")
	a := createUser(t, db, "ana", models.RoleStudent)
	b := createUser(t, db, "bruno", models.RoleStudent)
	entryA := createEntry(t, db, a, venue, slotDate, "18:00")
	createEntry(t, db, b, venue, slotDate, "18:00")

	class, pairing, _, err := CreatePairingFromWaitlist(db, mail, instructor, CreatePairingInput{
		PlayerIDs: []uuid.UUID{a.ID, b.ID},
		VenueID:   venue.ID,
		Date:      slotDate,
		Hour:      "18:00",
		Price:     15000,
	})
	if err != nil {
		t.Fatalf("CreatePairingFromWaitlist failed: %v", err)
	}

	if _, err := RemoveStudentFromClass(db, class.ID, a.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if members := db.Model(pairing).Association("Players").Count(); members != 1 {
		t.Fatalf("expected 1 member after removal, got %d", members)
	}
	if got := reloadEntry(t, db, entryA.ID); !got.Unassigned() {
		t.Fatal("removal must clear the entry's class/pairing references")
	}

	if _, err := RemoveStudentFromClass(db, class.ID, a.ID); !errors.Is(err, ErrNotInClass) {
		t.Fatalf("removing a non-member must warn ErrNotInClass, got %v", err)
	}

	if _, err := AddStudentToClass(db, class.ID, a.ID); err != nil {
		t.Fatalf("re-add failed: %v", err)
	}
	if members := db.Model(pairing).Association("Players").Count(); members != 2 {
		t.Fatalf("expected 2 members after re-add, got %d", members)
	}
	got := reloadEntry(t, db, entryA.ID)
	if got.ClassID == nil || *got.ClassID != class.ID || got.PairingID == nil || *got.PairingID != pairing.ID {
		t.Fatal("re-add must restore the entry's class/pairing references")
	}
}
