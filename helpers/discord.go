package helpers

import (
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// DiscordSession is the part of the discord API the plugins talk to
type DiscordSession interface {
	SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(edit *discordgo.MessageEdit) (*discordgo.Message, error)
	Typing(channelID string) error
	Permissions(userID, channelID string) (int64, error)
	GuildRoles(guildID string) ([]*discordgo.Role, error)
	GuildMembers(guildID string, after string, limit int) ([]*discordgo.Member, error)
	RemoveRole(guildID, userID, roleID string) error
}

// Discord implements DiscordSession on top of a gateway session
type Discord struct {
	Session *discordgo.Session
}

func (d *Discord) SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return d.Session.ChannelMessageSendComplex(channelID, data)
}

func (d *Discord) EditMessage(edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	return d.Session.ChannelMessageEditComplex(edit)
}

func (d *Discord) Typing(channelID string) error {
	return d.Session.ChannelTyping(channelID)
}

func (d *Discord) Permissions(userID, channelID string) (int64, error) {
	return d.Session.UserChannelPermissions(userID, channelID)
}

func (d *Discord) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	return d.Session.GuildRoles(guildID)
}

func (d *Discord) GuildMembers(guildID string, after string, limit int) ([]*discordgo.Member, error) {
	return d.Session.GuildMembers(guildID, after, limit)
}

func (d *Discord) RemoveRole(guildID, userID, roleID string) error {
	return d.Session.GuildMemberRoleRemove(guildID, userID, roleID)
}

// HasPermission checks if the author of $msg has $permission (or administrator) in the channel
func HasPermission(session DiscordSession, msg *discordgo.Message, permission int64) bool {
	if msg == nil || msg.Author == nil {
		return false
	}

	permissions, err := session.Permissions(msg.Author.ID, msg.ChannelID)
	if err != nil {
		return false
	}

	return permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator ||
		permissions&permission == permission
}

// IsMod checks for the manage roles permission
func IsMod(session DiscordSession, msg *discordgo.Message) bool {
	return HasPermission(session, msg, discordgo.PermissionManageRoles)
}

// IsAdmin checks for the manage server permission
func IsAdmin(session DiscordSession, msg *discordgo.Message) bool {
	return HasPermission(session, msg, discordgo.PermissionManageServer)
}

// NoMentions stops a message from pinging anyone
func NoMentions() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
}

// SendMessage sends $content without pinging anyone
func SendMessage(session DiscordSession, channelID string, content string) (*discordgo.Message, error) {
	return session.SendMessage(channelID, &discordgo.MessageSend{
		Content:         content,
		AllowedMentions: NoMentions(),
	})
}

// SendEmbed sends a single embed
func SendEmbed(session DiscordSession, channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return session.SendMessage(channelID, &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{embed},
		AllowedMentions: NoMentions(),
	})
}

// RoleMention formats a role mention
func RoleMention(roleID string) string {
	return "<@&" + roleID + ">"
}

// ParseRoleMention extracts the ID from a role mention, or returns $text unchanged
func ParseRoleMention(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "<@&") && strings.HasSuffix(text, ">") {
		return text[3 : len(text)-1]
	}
	return text
}

// ResolveRole finds a role by mention, ID or case-insensitive name
func ResolveRole(roles []*discordgo.Role, text string) *discordgo.Role {
	id := ParseRoleMention(text)
	for _, role := range roles {
		if role.ID == id {
			return role
		}
	}
	for _, role := range roles {
		if strings.EqualFold(role.Name, strings.TrimSpace(text)) {
			return role
		}
	}
	return nil
}

// embed limits enforced by discord
const (
	EmbedLimitTitle       = 256
	EmbedLimitDescription = 4096
	EmbedLimitFields      = 25
	EmbedLimitFieldName   = 256
	EmbedLimitFieldValue  = 1024
	EmbedLimitFooter      = 2048
	EmbedLimitAuthorName  = 256
	EmbedLimitTotal       = 6000
)

// EmbedFits reports whether discord will accept $embed
func EmbedFits(embed *discordgo.MessageEmbed) bool {
	if embed == nil {
		return true
	}

	count := utf8.RuneCountInString
	total := count(embed.Title) + count(embed.Description)
	if count(embed.Title) > EmbedLimitTitle || count(embed.Description) > EmbedLimitDescription {
		return false
	}
	if len(embed.Fields) > EmbedLimitFields {
		return false
	}
	for _, field := range embed.Fields {
		if count(field.Name) > EmbedLimitFieldName || count(field.Value) > EmbedLimitFieldValue {
			return false
		}
		total += count(field.Name) + count(field.Value)
	}
	if embed.Footer != nil {
		if count(embed.Footer.Text) > EmbedLimitFooter {
			return false
		}
		total += count(embed.Footer.Text)
	}
	if embed.Author != nil {
		if count(embed.Author.Name) > EmbedLimitAuthorName {
			return false
		}
		total += count(embed.Author.Name)
	}

	return total <= EmbedLimitTotal
}

// IsRESTError checks if $err is a discord API error with one of the given HTTP status codes
func IsRESTError(err error, statusCodes ...int) bool {
	errD, ok := err.(*discordgo.RESTError)
	if !ok || errD.Response == nil {
		return false
	}
	for _, code := range statusCodes {
		if errD.Response.StatusCode == code {
			return true
		}
	}
	return false
}
