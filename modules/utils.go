package modules

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/sirupsen/logrus"
)

// Init initializes the plugins one after another.
// A plugin that fails stays registered but answers every command with a not ready message.
func (r *Registry) Init(ctx context.Context) {
	var ready int
	for _, ref := range r.plugins {
		r.log.Infof("[PLUG] %T reacts to [ %s ]", ref.plugin, strings.Join(ref.plugin.Commands(), " "))

		err := ref.plugin.Init(ctx)
		if err != nil {
			helpers.RelaxLog(r.log.WithField("plugin", pluginName(ref.plugin)), err, "initializing plugin failed")
			continue
		}
		ref.ready.Store(true)
		ready++
	}

	r.log.Infof("Initializer finished. Loaded %d of %d plugins", ready, len(r.plugins))
}

// CallBotPlugin runs $command, it reports false if no plugin handles it.
//
// command - The command that triggered this execution
// content - The content without command
// msg     - The message object
// session - The discord session
func (r *Registry) CallBotPlugin(ctx context.Context, command string, content string, msg *discordgo.Message, session helpers.DiscordSession) bool {
	ref, ok := r.commands[command]
	if !ok {
		return false
	}

	log := r.log.WithFields(logrus.Fields{
		"plugin":  pluginName(ref.plugin),
		"guild":   msg.GuildID,
		"channel": msg.ChannelID,
	})
	defer helpers.Recover(log)

	if !ref.ready.Load() {
		_, err := helpers.SendMessage(session, msg.ChannelID, helpers.GetText("bot.not-ready"))
		helpers.RelaxLog(log, err, "sending not ready message failed")
		return true
	}

	r.metrics.Command(command)
	ref.plugin.Action(ctx, command, content, msg, session)
	return true
}

// CallExtendedPluginOnGuildMemberUpdate passes $update to every ready extended plugin
func (r *Registry) CallExtendedPluginOnGuildMemberUpdate(ctx context.Context, update *discordgo.GuildMemberUpdate, session helpers.DiscordSession) {
	for _, ref := range r.plugins {
		extended, ok := ref.plugin.(ExtendedPlugin)
		if !ok || !ref.ready.Load() {
			continue
		}
		r.callOnGuildMemberUpdate(ctx, extended, update, session)
	}
}

func (r *Registry) callOnGuildMemberUpdate(ctx context.Context, plugin ExtendedPlugin, update *discordgo.GuildMemberUpdate, session helpers.DiscordSession) {
	defer helpers.Recover(r.log.WithField("plugin", pluginName(plugin)))

	plugin.OnGuildMemberUpdate(ctx, update, session)
}

func pluginName(plugin Plugin) string {
	commands := plugin.Commands()
	if len(commands) == 0 {
		return "unknown"
	}
	return commands[0]
}
