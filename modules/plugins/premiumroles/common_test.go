package premiumroles

import (
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

type fakeSession struct {
	mu          sync.Mutex
	permissions int64
	roles       []*discordgo.Role
	members     map[string]*discordgo.Member
	sent        []*discordgo.MessageSend
	removed     []string
	failRemove  map[string]bool
}

func newFakeSession(roles ...*discordgo.Role) *fakeSession {
	return &fakeSession{
		permissions: discordgo.PermissionManageRoles,
		roles:       roles,
		members:     map[string]*discordgo.Member{},
		failRemove:  map[string]bool{},
	}
}

func (f *fakeSession) addMember(userID string, roles ...string) {
	f.members[userID] = &discordgo.Member{
		User:  &discordgo.User{ID: userID},
		Roles: roles,
	}
}

func (f *fakeSession) memberRoles(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	roles := append([]string(nil), f.members[userID].Roles...)
	sort.Strings(roles)
	return roles
}

func (f *fakeSession) lastContent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Content
}

func (f *fakeSession) SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "reply", ChannelID: channelID, Content: data.Content}, nil
}

func (f *fakeSession) EditMessage(edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
}

func (f *fakeSession) Typing(channelID string) error {
	return nil
}

func (f *fakeSession) Permissions(userID, channelID string) (int64, error) {
	return f.permissions, nil
}

func (f *fakeSession) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	return f.roles, nil
}

func (f *fakeSession) GuildMembers(guildID string, after string, limit int) ([]*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.members))
	for id := range f.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var page []*discordgo.Member
	for _, id := range ids {
		if id <= after {
			continue
		}
		if len(page) >= limit {
			break
		}
		member := *f.members[id]
		member.Roles = append([]string(nil), member.Roles...)
		page = append(page, &member)
	}
	return page, nil
}

func (f *fakeSession) RemoveRole(guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRemove[roleID] {
		return errors.New("missing permissions")
	}
	member, ok := f.members[userID]
	if !ok {
		return errors.New("unknown member")
	}
	roles := member.Roles[:0]
	for _, id := range member.Roles {
		if id != roleID {
			roles = append(roles, id)
		}
	}
	member.Roles = roles
	f.removed = append(f.removed, userID+"/"+roleID)
	return nil
}

type memoryStore struct {
	mu      sync.Mutex
	configs map[string]*RoleConfig
	saves   int
}

func newMemoryStore(configs ...*RoleConfig) *memoryStore {
	s := &memoryStore{configs: map[string]*RoleConfig{}}
	for _, config := range configs {
		s.configs[config.GuildID] = config
	}
	return s
}

func (s *memoryStore) Get(guildID string) (*RoleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	config, ok := s.configs[guildID]
	if !ok {
		config = newRoleConfig(guildID)
		s.configs[guildID] = config
	}
	return configFromEntry(config.entry()), nil
}

func (s *memoryStore) Save(config *RoleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.configs[config.GuildID] = configFromEntry(config.entry())
	return nil
}

func (s *memoryStore) All() ([]*RoleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var configs []*RoleConfig
	for _, config := range s.configs {
		configs = append(configs, configFromEntry(config.entry()))
	}
	return configs, nil
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func testConfig(guildID string, required []string, premium []string) *RoleConfig {
	return &RoleConfig{
		GuildID:  guildID,
		Required: NewRoleSet(required...),
		Premium:  NewRoleSet(premium...),
	}
}
