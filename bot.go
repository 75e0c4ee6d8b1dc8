package main

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/robyulchat/modplugins/metrics"
	"github.com/robyulchat/modplugins/modules"
	"github.com/robyulchat/modplugins/ratelimits"
	"github.com/sirupsen/logrus"
)

// Bot turns gateway events into plugin calls
type Bot struct {
	ctx      context.Context
	registry *modules.Registry
	limits   *ratelimits.Container
	metrics  *metrics.Metrics
	log      *logrus.Entry
	prefix   string
}

func NewBot(ctx context.Context, registry *modules.Registry, limits *ratelimits.Container, m *metrics.Metrics, log *logrus.Entry, prefix string) *Bot {
	return &Bot{
		ctx:      ctx,
		registry: registry,
		limits:   limits,
		metrics:  m,
		log:      log.WithField("module", "bot"),
		prefix:   prefix,
	}
}

// BotOnReady gets called after the gateway connected
func (b *Bot) BotOnReady(session *discordgo.Session, event *discordgo.Ready) {
	b.log.WithFields(logrus.Fields{
		"user":   event.User.Username,
		"guilds": len(event.Guilds),
	}).Info("Connected to discord!")
}

// BotOnMessageCreate gets called after a new message was sent
// This will be called after *every* message on *every* server so it should die as soon as possible.
func (b *Bot) BotOnMessageCreate(session *discordgo.Session, message *discordgo.MessageCreate) {
	b.handleMessage(&helpers.Discord{Session: session}, message.Message)
}

// BotOnGuildMemberUpdate passes role changes on to the extended plugins
func (b *Bot) BotOnGuildMemberUpdate(session *discordgo.Session, update *discordgo.GuildMemberUpdate) {
	b.registry.CallExtendedPluginOnGuildMemberUpdate(b.ctx, update, &helpers.Discord{Session: session})
}

func (b *Bot) handleMessage(session helpers.DiscordSession, message *discordgo.Message) {
	// Ignore other bots, webhooks and direct messages
	if message == nil || message.Author == nil || message.Author.Bot || message.WebhookID != "" {
		return
	}
	if message.GuildID == "" {
		return
	}

	// Check if the message is prefixed for us
	if !strings.HasPrefix(message.Content, b.prefix) {
		return
	}
	text := strings.TrimSpace(strings.TrimPrefix(message.Content, b.prefix))

	// Split the message into parts
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return
	}
	cmd := parts[0]

	isHelp := cmd == "h" || cmd == "help"
	if !isHelp && !b.registry.Handles(cmd) {
		return
	}

	// Check if the user is allowed to request commands
	ok, warn := b.limits.Drain(message.Author.ID)
	if !ok {
		if warn {
			_, err := helpers.SendMessage(session, message.ChannelID, helpers.GetTextF("bot.ratelimit.hit", message.Author.ID))
			helpers.RelaxLog(b.log, err, "sending ratelimit warning failed")
		}
		return
	}

	if isHelp {
		b.metrics.Command("help")
		_, err := helpers.SendMessage(session, message.ChannelID, helpers.GetTextF("bot.help", b.prefix))
		helpers.RelaxLog(b.log, err, "sending help failed")
		return
	}

	// Separate arguments from the command
	content := strings.TrimSpace(strings.TrimPrefix(text, cmd))

	b.log.WithFields(logrus.Fields{
		"guild":   message.GuildID,
		"channel": message.ChannelID,
		"user":    message.Author.ID,
	}).Debugf("%s: %s", message.Author.Username, message.Content)

	b.registry.CallBotPlugin(b.ctx, cmd, content, message, session)
}
