package premiumroles

import "github.com/robyulchat/modplugins/models"

// RoleConfig is the premium roles configuration of one guild
type RoleConfig struct {
	GuildID  string
	Required RoleSet
	Premium  RoleSet
}

func newRoleConfig(guildID string) *RoleConfig {
	return &RoleConfig{
		GuildID:  guildID,
		Required: NewRoleSet(),
		Premium:  NewRoleSet(),
	}
}

func configFromEntry(entry models.PremiumRolesEntry) *RoleConfig {
	return &RoleConfig{
		GuildID:  entry.GuildID,
		Required: NewRoleSet(entry.RequiredRoles...),
		Premium:  NewRoleSet(entry.PremiumRoles...),
	}
}

func (c *RoleConfig) entry() models.PremiumRolesEntry {
	return models.PremiumRolesEntry{
		GuildID:       c.GuildID,
		RequiredRoles: c.Required.Slice(),
		PremiumRoles:  c.Premium.Slice(),
	}
}

// prune drops every ID not in $valid and returns the dropped IDs
func (c *RoleConfig) prune(valid RoleSet) []string {
	var dropped []string
	for _, set := range []RoleSet{c.Required, c.Premium} {
		for _, id := range set.Slice() {
			if !valid.Contains(id) {
				set.Remove(id)
				dropped = append(dropped, id)
			}
		}
	}
	return dropped
}
