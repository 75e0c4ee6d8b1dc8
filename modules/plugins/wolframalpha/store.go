package wolframalpha

import (
	"github.com/robyulchat/modplugins/helpers"
	"github.com/robyulchat/modplugins/models"
)

// AppIDStore persists the installation wide app ID
type AppIDStore interface {
	// Load returns the stored app ID, creating an empty record if there is none
	Load() (string, error)
	Save(appID string) error
}

type mdb interface {
	OneID(collection models.MongoDbCollection, id string, object interface{}) error
	UpsertID(collection models.MongoDbCollection, id string, data interface{}) error
}

type mdbStore struct {
	db mdb
}

// NewMDbStore keeps the app ID in the wolframalpha collection
func NewMDbStore(db *helpers.MDb) AppIDStore {
	return &mdbStore{db: db}
}

func (s *mdbStore) Load() (string, error) {
	var entry models.WolframAlphaEntry
	err := s.db.OneID(models.WolframAlphaTable, models.WolframAlphaConfigID, &entry)
	if err == nil {
		return entry.AppID, nil
	}
	if !helpers.IsMdbNotFound(err) {
		return "", err
	}

	return "", s.Save("")
}

func (s *mdbStore) Save(appID string) error {
	return s.db.UpsertID(models.WolframAlphaTable, models.WolframAlphaConfigID, models.WolframAlphaEntry{
		ID:    models.WolframAlphaConfigID,
		AppID: appID,
	})
}
