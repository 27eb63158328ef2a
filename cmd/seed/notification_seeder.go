package main

import (
	"log"

	"cat-cards-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "USER_LOGIN",
			DisplayName: "Login Activity",
			Template:    "You logged in from {device} at {time}",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "NOTE_CREATED",
			DisplayName: "Note Created",
			Template:    "You created a note: \"{title}\"",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "NOTE_DELETED",
			DisplayName: "Note Deleted",
			Template:    "You deleted note: \"{title}\"",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "FOLDER_DELETED",
			DisplayName: "Folder Deleted",
			Template:    "You deleted folder \"{folder_name}\" and everything inside it",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		var existing model.NotificationType
		if err := db.Where("code = ?", t.Code).First(&existing).Error; err == nil {
			log.Printf("Notification type '%s' already exists, skipping...", t.Code)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			log.Printf("Error creating notification type '%s': %v", t.Code, err)
		} else {
			log.Printf("Created notification type: %s", t.Code)
		}
	}
}
