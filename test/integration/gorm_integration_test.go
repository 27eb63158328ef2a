package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"cat-cards-be/internal/entity"
	"cat-cards-be/internal/repository/specification"
	"cat-cards-be/internal/repository/unitofwork"
	"cat-cards-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.FolderRepository())
	assert.NotNil(t, uow.NoteRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Note Repository", func(t *testing.T) {
		count, err := uow.NoteRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Note count: %d", count)
	})

	t.Run("Check Transactional Folder And Note Insert", func(t *testing.T) {
		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     entity.UserRoleUser,
			Status:   entity.UserStatusActive,
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		folderId := uuid.New()
		folder := &entity.Folder{
			Id:     folderId,
			Name:   "Integration Folder",
			UserId: userId,
		}

		err = uow.FolderRepository().Create(ctx, folder)
		assert.NoError(t, err)

		note := &entity.Note{
			Id:       uuid.New(),
			Title:    "Integration Note",
			Content:  "created by integration test",
			FolderId: &folderId,
			UserId:   userId,
		}

		err = uow.NoteRepository().Create(ctx, note)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// The new note must be visible through the folder scope.
		found, err := uow.NoteRepository().FindOne(context.Background(),
			specification.ByID{ID: note.Id},
			specification.ByFolderID{FolderID: &folderId},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)

		t.Log("Successfully created Folder with Note in Transaction")
	})
}
