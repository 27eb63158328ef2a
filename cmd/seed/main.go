package main

import (
	"log"
	"os"
	"time"

	"cat-cards-be/internal/model"
	"cat-cards-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding notification types...")
	SeedNotificationTypes(db)

	color.Cyan("Seeding demo account...")
	seedDemoData(db)

	color.Green("Seeding completed!")
}

// seedDemoData creates a demo user with a small folder hierarchy and a few
// notes, enough to click through the app right after a fresh migration.
func seedDemoData(db *gorm.DB) {
	demoEmail := "demo@catcards.local"

	var existing model.User
	if err := db.Where("email = ?", demoEmail).First(&existing).Error; err == nil {
		color.Yellow("Demo user already exists, skipping...")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing demo password: %v", err)
	}
	hashStr := string(hash)

	user := model.User{
		Id:            uuid.New(),
		Email:         demoEmail,
		PasswordHash:  &hashStr,
		FullName:      "Demo User",
		Role:          "user",
		Status:        "active",
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error creating demo user: %v", err)
	}
	color.Green("Created demo user: %s (password: demo1234)", demoEmail)

	school := model.Folder{Id: uuid.New(), Name: "School", UserId: user.Id, CreatedAt: time.Now()}
	math := model.Folder{Id: uuid.New(), Name: "Math", ParentId: &school.Id, UserId: user.Id, CreatedAt: time.Now().Add(time.Second)}
	algebra := model.Folder{Id: uuid.New(), Name: "Algebra", ParentId: &math.Id, UserId: user.Id, CreatedAt: time.Now().Add(2 * time.Second)}
	personal := model.Folder{Id: uuid.New(), Name: "Personal", UserId: user.Id, CreatedAt: time.Now().Add(3 * time.Second)}

	for _, f := range []*model.Folder{&school, &math, &algebra, &personal} {
		if err := db.Create(f).Error; err != nil {
			log.Fatalf("Error creating folder '%s': %v", f.Name, err)
		}
		color.Green("Created folder: %s", f.Name)
	}

	notes := []model.Note{
		{Id: uuid.New(), Title: "Linear equations", Content: "ax + b = 0 has exactly one solution when a != 0.", FolderId: &algebra.Id, UserId: user.Id, CreatedAt: time.Now()},
		{Id: uuid.New(), Title: "Reading list", Content: "- The Pragmatic Programmer\n- Designing Data-Intensive Applications", FolderId: &personal.Id, UserId: user.Id, CreatedAt: time.Now().Add(time.Second)},
		{Id: uuid.New(), Title: "Scratchpad", Content: "Notes without a folder land in the unfiled view.", UserId: user.Id, CreatedAt: time.Now().Add(2 * time.Second)},
	}

	for _, n := range notes {
		if err := db.Create(&n).Error; err != nil {
			log.Fatalf("Error creating note '%s': %v", n.Title, err)
		}
		color.Green("Created note: %s", n.Title)
	}
}
