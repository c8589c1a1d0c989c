package store

import (
	"testing"

	dbpkg "watrigger/db"
	"watrigger/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// testDB opens a throwaway in-memory sqlite handle with the app schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	handle, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = handle.Close() })

	dbpkg.Migrate(handle)
	return handle
}

func sampleQuestion(triggerID int64) models.LeadQuestion {
	return models.LeadQuestion{
		TriggerID:    triggerID,
		QuestionText: "What is your name?",
		QuestionType: models.QUESTION_TYPE_TEXT,
		IsRequired:   true,
	}
}

func mustCreateTrigger(t *testing.T, s TriggerStore, baseURL string) int64 {
	t.Helper()

	trigger, err := s.Create(TriggerInput{
		BusinessName: "Acme",
		AppID:        "app-1",
		PhoneID:      "phone-1",
		AccessToken:  "token-1",
	}, baseURL)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return trigger.ID
}
