package currency

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	humanize "github.com/dustin/go-humanize"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/robyulchat/modplugins/metrics"
	"github.com/sirupsen/logrus"
)

const (
	defaultAmount   = 1
	defaultCurrency = "USD"

	colorResult = "2b5a98"
	colorError  = "e74c3c"
)

type action func(c *call) (next action)

type call struct {
	ctx     context.Context
	session helpers.DiscordSession
	args    []string
	in      *discordgo.Message
	out     *discordgo.MessageSend
}

// Handler serves the convert command
type Handler struct {
	converter *Converter
	log       *logrus.Entry
}

func New(provider RateProvider, log *logrus.Entry, m *metrics.Metrics) *Handler {
	log = log.WithFields(logrus.Fields{
		"module":   "currency",
		"provider": provider.Name(),
	})
	return &Handler{
		converter: NewConverter(provider, m, log),
		log:       log,
	}
}

func (h *Handler) Commands() []string {
	return []string{
		"convert",
	}
}

func (h *Handler) Init(ctx context.Context) error {
	return nil
}

func (h *Handler) Action(ctx context.Context, command string, content string, msg *discordgo.Message, session helpers.DiscordSession) {
	c := &call{
		ctx:     ctx,
		session: session,
		args:    strings.Fields(content),
		in:      msg,
	}

	action := h.actionConvert
	for action != nil {
		action = action(c)
	}
}

// [p]convert [<amount>] [<from>] [<to>]
func (h *Handler) actionConvert(c *call) action {
	amount := float64(defaultAmount)
	from, to := defaultCurrency, defaultCurrency

	if len(c.args) >= 1 {
		parsed, err := strconv.ParseFloat(c.args[0], 64)
		if err != nil {
			c.out = &discordgo.MessageSend{Content: helpers.GetTextF("plugins.currency.invalid-amount", c.args[0])}
			return h.actionFinish
		}
		amount = parsed
	}
	if len(c.args) >= 2 {
		from = strings.ToUpper(c.args[1])
	}
	if len(c.args) >= 3 {
		to = strings.ToUpper(c.args[2])
	}

	if err := c.session.Typing(c.in.ChannelID); err != nil {
		h.log.WithError(err).WithField("channel", c.in.ChannelID).Debug("sending typing indicator failed")
	}

	result := h.converter.Convert(c.ctx, amount, from, to)
	c.out = &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{ResultEmbed(result)},
	}
	return h.actionFinish
}

func (h *Handler) actionFinish(c *call) action {
	c.out.AllowedMentions = helpers.NoMentions()
	_, err := c.session.SendMessage(c.in.ChannelID, c.out)
	helpers.RelaxLog(h.log, err, "sending conversion result failed")

	return nil
}

// ResultEmbed renders $result, errors become one of three fixed embeds
func ResultEmbed(result Result) *discordgo.MessageEmbed {
	if result.Kind == KindOK {
		return &discordgo.MessageEmbed{
			Title: helpers.GetText("plugins.currency.result-title"),
			Description: helpers.GetTextF("plugins.currency.result-description",
				humanize.Ftoa(result.Amount), result.From, result.To, FormatNumber(result.Converted)),
			Color: helpers.GetDiscordColorFromHex(colorResult),
			Footer: &discordgo.MessageEmbedFooter{
				Text: helpers.GetTextF("plugins.currency.result-footer",
					result.From, FormatNumber(result.Rate), result.To),
			},
		}
	}

	embed := &discordgo.MessageEmbed{
		Color: helpers.GetDiscordColorFromHex(colorError),
		Footer: &discordgo.MessageEmbedFooter{
			Text: helpers.GetText("plugins.currency.error-footer"),
		},
	}
	switch result.Kind {
	case KindRateLimited:
		embed.Title = helpers.GetText("plugins.currency.ratelimited-title")
		embed.Description = helpers.GetText("plugins.currency.ratelimited-description")
	case KindInvalidPair:
		embed.Title = helpers.GetText("plugins.currency.invalid-title")
		embed.Description = helpers.GetTextF("plugins.currency.invalid-description", result.From, result.To)
	default:
		embed.Title = helpers.GetText("plugins.currency.unexpected-title")
		embed.Description = helpers.GetText("plugins.currency.unexpected-description")
	}
	return embed
}
