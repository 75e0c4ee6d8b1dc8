package wolframalpha

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/sirupsen/logrus"
)

const (
	commandConfig = "knowledge-query-config"

	imageFileName = "wolframalpha.png"
)

// Handler answers knowledge queries with wolfram|alpha
type Handler struct {
	client *Client
	images ImageSource
	store  AppIDStore
	log    *logrus.Entry

	// used when no app ID was set through the config command
	fallbackAppID string

	sync.RWMutex
	appID string
}

func New(client *Client, images ImageSource, store AppIDStore, fallbackAppID string, log *logrus.Entry) *Handler {
	return &Handler{
		client:        client,
		images:        images,
		store:         store,
		fallbackAppID: fallbackAppID,
		log:           log.WithField("module", "wolframalpha"),
	}
}

func (h *Handler) Commands() []string {
	return []string{
		"knowledge-query",
		"wolfram",
		"w",
		"ask",
		commandConfig,
	}
}

func (h *Handler) Init(ctx context.Context) error {
	appID, err := h.store.Load()
	if err != nil {
		return errors.Wrap(err, "loading wolfram|alpha app id failed")
	}

	h.Lock()
	h.appID = appID
	h.Unlock()

	if h.AppID() == "" {
		h.log.Warn("no wolfram|alpha app id configured")
	}
	return nil
}

// AppID returns the stored app ID, or the one from the config file
func (h *Handler) AppID() string {
	h.RLock()
	defer h.RUnlock()

	if h.appID != "" {
		return h.appID
	}
	return h.fallbackAppID
}

func (h *Handler) Action(ctx context.Context, command string, content string, msg *discordgo.Message, session helpers.DiscordSession) {
	if command == commandConfig {
		h.actionConfig(content, msg, session)
		return
	}

	h.actionQuery(ctx, strings.Fields(content), msg, session)
}

// [p]knowledge-query-config set-app-id <id>
func (h *Handler) actionConfig(content string, msg *discordgo.Message, session helpers.DiscordSession) {
	args := strings.Fields(content)
	if len(args) < 2 || args[0] != "set-app-id" {
		h.reply(session, msg, helpers.GetText("plugins.wolframalpha.config-help"))
		return
	}

	if !helpers.IsAdmin(session, msg) {
		h.reply(session, msg, helpers.GetText("admin.no_permission"))
		return
	}

	h.Lock()
	err := h.store.Save(args[1])
	if err == nil {
		h.appID = args[1]
	}
	h.Unlock()

	if err != nil {
		h.log.WithError(err).Error("saving wolfram|alpha app id failed")
		h.reply(session, msg, helpers.GetText("bot.errors.generic"))
		return
	}

	h.log.WithField("user", msg.Author.ID).Info("wolfram|alpha app id changed")
	h.reply(session, msg, helpers.GetText("plugins.wolframalpha.appid-set"))
}

// [p]knowledge-query <text> [--full|--image]
func (h *Handler) actionQuery(ctx context.Context, args []string, msg *discordgo.Message, session helpers.DiscordSession) {
	args, mode := ParseArgs(args)
	if len(args) == 0 {
		h.send(session, msg.ChannelID, nothingInputtedEmbed())
		return
	}

	appID := h.AppID()
	if appID == "" {
		h.reply(session, msg, helpers.GetText("plugins.wolframalpha.no-appid"))
		return
	}

	log := h.log.WithFields(logrus.Fields{
		"guild":   msg.GuildID,
		"channel": msg.ChannelID,
	})

	if mode == ModeImage {
		h.actionImage(ctx, log, appID, strings.Join(args, " "), msg, session)
		return
	}

	query := MakeSafeQuery(args)

	processing, err := h.send(session, msg.ChannelID, processingEmbed())
	if err != nil {
		processing = nil
	}

	result, err := h.client.Query(ctx, appID, query)
	if err != nil {
		log.WithError(err).Warn("wolfram|alpha query failed")
		h.respond(session, msg.ChannelID, processing, errorEmbed())
		return
	}
	if result.Error != "" {
		log.WithField("error", result.Error).Debug("wolfram|alpha reported an error")
	}

	primary := result.PrimaryPod()
	if !result.Success || (mode == ModeCompact && len(primary.SubPods) == 0) {
		h.respond(session, msg.ChannelID, processing, noResultsEmbed())
		return
	}

	embed := Render(result, query, mode)
	if !helpers.EmbedFits(embed) {
		h.respond(session, msg.ChannelID, processing, tooLongEmbed(query))
		return
	}

	err = h.respond(session, msg.ChannelID, processing, embed)
	if helpers.IsRESTError(err, 400) {
		log.WithError(err).Debug("discord rejected the result embed")
		h.respond(session, msg.ChannelID, processing, tooLongEmbed(query))
	}
}

func (h *Handler) actionImage(ctx context.Context, log *logrus.Entry, appID string, text string, msg *discordgo.Message, session helpers.DiscordSession) {
	if err := session.Typing(msg.ChannelID); err != nil {
		log.WithError(err).Debug("sending typing indicator failed")
	}

	image, err := h.images.Image(ctx, appID, text)
	if errors.Cause(err) == ErrNotUnderstood {
		h.send(session, msg.ChannelID, noResultsEmbed())
		return
	}
	if err != nil {
		log.WithError(err).Warn("wolfram|alpha image query failed")
		h.send(session, msg.ChannelID, errorEmbed())
		return
	}

	_, err = session.SendMessage(msg.ChannelID, &discordgo.MessageSend{
		Files: []*discordgo.File{
			{
				Name:        imageFileName,
				ContentType: "image/png",
				Reader:      bytes.NewReader(image),
			},
		},
		AllowedMentions: helpers.NoMentions(),
	})
	helpers.RelaxLog(log, err, "sending wolfram|alpha image failed")
}

// respond edits the processing message, or sends a new one if there is none
func (h *Handler) respond(session helpers.DiscordSession, channelID string, processing *discordgo.Message, embed *discordgo.MessageEmbed) error {
	if processing == nil {
		_, err := h.send(session, channelID, embed)
		return err
	}

	edit := discordgo.NewMessageEdit(processing.ChannelID, processing.ID).SetEmbed(embed)
	edit.AllowedMentions = helpers.NoMentions()
	_, err := session.EditMessage(edit)
	if err != nil && !helpers.IsRESTError(err, 400) {
		h.log.WithError(err).Error("editing wolfram|alpha response failed")
	}
	return err
}

func (h *Handler) send(session helpers.DiscordSession, channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	message, err := helpers.SendEmbed(session, channelID, embed)
	helpers.RelaxLog(h.log, err, "sending wolfram|alpha response failed")
	return message, err
}

func (h *Handler) reply(session helpers.DiscordSession, msg *discordgo.Message, content string) {
	_, err := helpers.SendMessage(session, msg.ChannelID, content)
	helpers.RelaxLog(h.log, err, "sending wolfram|alpha reply failed")
}
