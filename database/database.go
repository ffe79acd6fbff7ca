package database

import (
	"fmt"
	"log"

	config "github.com/padelapp/padel_club/configs"
	"github.com/padelapp/padel_club/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.TrainingType{},
		&models.Class{},
		&models.Pairing{},
		&models.WaitlistEntry{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedInitialData creates a sample venue plus one instructor and one student
// account so a fresh install is usable immediately.
func SeedInitialData() {
	var count int64
	if err := DB.Model(&models.Venue{}).Where("name = ?", "Club Padel Central").Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for seed venue: %v", err)
	}
	if count == 0 {
		venue := models.Venue{
			Name:            "Club Padel Central",
			IndoorCourts:    2,
			OutdoorCourts:   4,
			SurfaceType:     "Glass/Synthetic",
			InstructorCount: 3,
			Address:         "Av. Ejemplo 123",
			City:            "CABA",
			Province:        "Buenos Aires",
			Phone:           "+5491112345678",
			Email:           "info@clubpadelcentral.com",
			HourlyRate:      15000.00,
		}
		if err := DB.Create(&venue).Error; err != nil {
			log.Fatalf("🔥 Failed to seed venue: %v", err)
		}
		log.Println("✅ Seed venue created")
	}

	seedUser(models.User{
		Username:     "instructor",
		Email:        config.ConfigDefault("SEED_INSTRUCTOR_EMAIL", "instructor@clubpadelcentral.com"),
		Role:         models.RoleInstructor,
		FirstName:    "Juan",
		LastName:     "Perez",
		PlayingSide:  "Drive",
		DominantHand: "R",
		Phone:        "+5491122334455",
		SkillLevel:   9,
		City:         "CABA",
		Province:     "Buenos Aires",
		Country:      "Argentina",
	}, config.ConfigDefault("SEED_INSTRUCTOR_PASSWORD", "pass123"))

	seedUser(models.User{
		Username:     "student",
		Email:        config.ConfigDefault("SEED_STUDENT_EMAIL", "student@clubpadelcentral.com"),
		Role:         models.RoleStudent,
		FirstName:    "Maria",
		LastName:     "Gonzalez",
		PlayingSide:  "Reves",
		DominantHand: "R",
		Phone:        "+5491166778899",
		SkillLevel:   5,
		City:         "CABA",
		Province:     "Buenos Aires",
		Country:      "Argentina",
	}, config.ConfigDefault("SEED_STUDENT_PASSWORD", "pass123"))
}

func seedUser(user models.User, password string) {
	var count int64
	if err := DB.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for seed user %s: %v", user.Username, err)
	}
	if count > 0 {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash seed password: %v", err)
	}
	user.Password = string(hashedPassword)

	if err := DB.Create(&user).Error; err != nil {
		log.Fatalf("🔥 Failed to seed user %s: %v", user.Username, err)
	}
	log.Printf("✅ Seed user %s created", user.Username)
}
