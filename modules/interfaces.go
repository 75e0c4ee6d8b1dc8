package modules

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/robyulchat/modplugins/helpers"
)

type Plugin interface {
	Commands() []string

	// Init runs once before the plugin receives commands
	Init(ctx context.Context) error

	Action(
		ctx context.Context,
		command string,
		content string,
		msg *discordgo.Message,
		session helpers.DiscordSession,
	)
}

type ExtendedPlugin interface {
	Plugin

	OnGuildMemberUpdate(
		ctx context.Context,
		member *discordgo.GuildMemberUpdate,
		session helpers.DiscordSession,
	)
}
