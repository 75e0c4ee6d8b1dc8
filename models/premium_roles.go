package models

const (
	PremiumRolesTable MongoDbCollection = "premium_roles"
)

// PremiumRolesEntry is the per guild premium roles configuration, keyed by guild ID
type PremiumRolesEntry struct {
	GuildID       string   `bson:"_id"`
	RequiredRoles []string `bson:"required_roles"`
	PremiumRoles  []string `bson:"premium_roles"`
}
