package premiumroles

import (
	"time"

	"github.com/go-redis/cache"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/robyulchat/modplugins/models"
)

// Store persists the per guild configuration
type Store interface {
	// Get returns the configuration of $guildID, creating an empty one if there is none
	Get(guildID string) (*RoleConfig, error)
	Save(config *RoleConfig) error
	All() ([]*RoleConfig, error)
}

// mdb is the subset of helpers.MDb the store needs
type mdb interface {
	OneID(collection models.MongoDbCollection, id string, object interface{}) error
	UpsertID(collection models.MongoDbCollection, id string, data interface{}) error
	All(collection models.MongoDbCollection, result interface{}) error
}

type mdbStore struct {
	db mdb
}

// NewMDbStore stores configurations in the premium_roles collection
func NewMDbStore(db *helpers.MDb) Store {
	return &mdbStore{db: db}
}

func (s *mdbStore) Get(guildID string) (*RoleConfig, error) {
	var entry models.PremiumRolesEntry
	err := s.db.OneID(models.PremiumRolesTable, guildID, &entry)
	if err == nil {
		return configFromEntry(entry), nil
	}
	if !helpers.IsMdbNotFound(err) {
		return nil, err
	}

	config := newRoleConfig(guildID)
	if err := s.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *mdbStore) Save(config *RoleConfig) error {
	return s.db.UpsertID(models.PremiumRolesTable, config.GuildID, config.entry())
}

func (s *mdbStore) All() ([]*RoleConfig, error) {
	var entries []models.PremiumRolesEntry
	if err := s.db.All(models.PremiumRolesTable, &entries); err != nil {
		return nil, err
	}

	configs := make([]*RoleConfig, 0, len(entries))
	for _, entry := range entries {
		configs = append(configs, configFromEntry(entry))
	}
	return configs, nil
}

const (
	cacheExpiration = 10 * time.Minute
	cacheKeyPrefix  = "modplugins:premiumroles:"
)

// codec is the subset of *cache.Codec the cached store needs
type codec interface {
	Get(key string, object interface{}) error
	Set(item *cache.Item) error
	Delete(key string) error
}

type cachedStore struct {
	next  Store
	codec codec
}

// NewCachedStore puts a redis read-through cache in front of $next
func NewCachedStore(next Store, codec *cache.Codec) Store {
	return &cachedStore{next: next, codec: codec}
}

func (s *cachedStore) key(guildID string) string {
	return cacheKeyPrefix + guildID
}

func (s *cachedStore) Get(guildID string) (*RoleConfig, error) {
	var entry models.PremiumRolesEntry
	err := s.codec.Get(s.key(guildID), &entry)
	if err == nil {
		return configFromEntry(entry), nil
	}

	config, err := s.next.Get(guildID)
	if err != nil {
		return nil, err
	}
	s.remember(config)
	return config, nil
}

func (s *cachedStore) Save(config *RoleConfig) error {
	if err := s.codec.Delete(s.key(config.GuildID)); err != nil && err != cache.ErrCacheMiss {
		return errors.Wrap(err, "invalidating cached premium roles failed")
	}
	if err := s.next.Save(config); err != nil {
		return err
	}
	s.remember(config)
	return nil
}

// All always reads through and warms the cache
func (s *cachedStore) All() ([]*RoleConfig, error) {
	configs, err := s.next.All()
	if err != nil {
		return nil, err
	}
	for _, config := range configs {
		s.remember(config)
	}
	return configs, nil
}

func (s *cachedStore) remember(config *RoleConfig) {
	entry := config.entry()
	// best effort
	_ = s.codec.Set(&cache.Item{
		Key:        s.key(config.GuildID),
		Object:     entry,
		Expiration: cacheExpiration,
	})
}
