package premiumroles

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/robyulchat/modplugins/metrics"
	"github.com/sirupsen/logrus"
)

// Handler enforces that premium roles are only held by members with a required role
type Handler struct {
	store   Store
	log     *logrus.Entry
	metrics *metrics.Metrics
	prefix  string

	// serializes read-modify-write of guild configurations
	mu sync.Mutex
}

type call struct {
	ctx     context.Context
	session helpers.DiscordSession
	args    []string
	in      *discordgo.Message
	out     *discordgo.MessageSend
}

type action func(c *call) (next action)

func New(store Store, log *logrus.Entry, m *metrics.Metrics, prefix string) *Handler {
	return &Handler{
		store:   store,
		log:     log.WithField("module", "premiumroles"),
		metrics: m,
		prefix:  prefix,
	}
}

func (h *Handler) Commands() []string {
	return []string{
		"premium",
	}
}

// Init loads every stored configuration once, which also warms the cache
func (h *Handler) Init(ctx context.Context) error {
	configs, err := h.store.All()
	if err != nil {
		return errors.Wrap(err, "loading premium role configurations failed")
	}

	h.log.Infof("loaded %d premium role configuration(s)", len(configs))
	return nil
}

func (h *Handler) Action(ctx context.Context, command string, content string, msg *discordgo.Message, session helpers.DiscordSession) {
	c := &call{
		ctx:     ctx,
		session: session,
		args:    strings.Fields(content),
		in:      msg,
	}

	action := h.actionStart
	for action != nil {
		action = action(c)
	}
}

func (h *Handler) actionStart(c *call) action {
	if len(c.args) < 1 {
		return h.actionHelp
	}

	switch c.args[0] {
	case "config":
		return h.actionConfig
	case "purge":
		return h.actionPurge
	}

	return h.actionHelp
}

func (h *Handler) actionHelp(c *call) action {
	c.out = h.newMsg("plugins.premiumroles.help", h.prefix)
	return h.actionFinish
}

func (h *Handler) actionConfig(c *call) action {
	if len(c.args) < 2 {
		return h.actionHelp
	}

	if !helpers.IsMod(c.session, c.in) {
		c.out = h.newMsg("mod.no_permission")
		return h.actionFinish
	}

	switch c.args[1] {
	case "get", "list":
		return h.actionConfigGet
	case "addrequired":
		return h.actionAddRequired
	case "removerequired":
		return h.actionRemoveRequired
	case "add":
		return h.actionAddPremium
	case "remove":
		return h.actionRemovePremium
	case "removeinvalid":
		return h.actionRemoveInvalid
	}

	return h.actionHelp
}

// [p]premium config get
func (h *Handler) actionConfigGet(c *call) action {
	config, err := h.store.Get(c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}

	roles, err := c.session.GuildRoles(c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}
	existing := roleIDs(roles)

	var invalid []string
	formatSet := func(set RoleSet) string {
		var lines []string
		for _, id := range set.Slice() {
			if !existing.Contains(id) {
				invalid = append(invalid, "`"+id+"`")
				continue
			}
			lines = append(lines, helpers.RoleMention(id))
		}
		if len(lines) == 0 {
			return helpers.GetText("plugins.premiumroles.list-none")
		}
		return strings.Join(lines, "\n")
	}

	message := helpers.GetTextF("plugins.premiumroles.list", formatSet(config.Required), formatSet(config.Premium))
	if len(invalid) > 0 {
		message += helpers.GetTextF("plugins.premiumroles.list-invalid", strings.Join(invalid, "\n"))
	}

	c.out = &discordgo.MessageSend{Content: message}
	return h.actionFinish
}

// [p]premium config addrequired <role>
func (h *Handler) actionAddRequired(c *call) action {
	return h.mutate(c, false, func(config *RoleConfig, roleID string) (bool, string) {
		if !config.Required.Add(roleID) {
			return false, helpers.GetTextF("plugins.premiumroles.required-duplicate", helpers.RoleMention(roleID))
		}
		return true, helpers.GetTextF("plugins.premiumroles.required-added", helpers.RoleMention(roleID))
	})
}

// [p]premium config removerequired <role>
func (h *Handler) actionRemoveRequired(c *call) action {
	return h.mutate(c, true, func(config *RoleConfig, roleID string) (bool, string) {
		if !config.Required.Remove(roleID) {
			return false, helpers.GetTextF("plugins.premiumroles.required-not-present", helpers.RoleMention(roleID))
		}
		return true, helpers.GetTextF("plugins.premiumroles.required-removed", helpers.RoleMention(roleID))
	})
}

// [p]premium config add <role>
func (h *Handler) actionAddPremium(c *call) action {
	return h.mutate(c, false, func(config *RoleConfig, roleID string) (bool, string) {
		if !config.Premium.Add(roleID) {
			return false, helpers.GetTextF("plugins.premiumroles.premium-duplicate", helpers.RoleMention(roleID))
		}
		return true, helpers.GetTextF("plugins.premiumroles.premium-added", helpers.RoleMention(roleID))
	})
}

// [p]premium config remove <role>
func (h *Handler) actionRemovePremium(c *call) action {
	return h.mutate(c, true, func(config *RoleConfig, roleID string) (bool, string) {
		if !config.Premium.Remove(roleID) {
			return false, helpers.GetTextF("plugins.premiumroles.premium-not-present", helpers.RoleMention(roleID))
		}
		return true, helpers.GetTextF("plugins.premiumroles.premium-removed", helpers.RoleMention(roleID))
	})
}

// mutate resolves the role argument and applies $change to the guild configuration.
// With $allowDeleted a raw ID is accepted even if the role no longer exists.
func (h *Handler) mutate(c *call, allowDeleted bool, change func(config *RoleConfig, roleID string) (changed bool, reply string)) action {
	if len(c.args) < 3 {
		c.out = h.newMsg("bot.arguments.too-few")
		return h.actionFinish
	}

	roles, err := c.session.GuildRoles(c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}

	roleText := strings.Join(c.args[2:], " ")
	var roleID string
	if role := helpers.ResolveRole(roles, roleText); role != nil {
		roleID = role.ID
	} else if allowDeleted && isSnowflake(helpers.ParseRoleMention(roleText)) {
		roleID = helpers.ParseRoleMention(roleText)
	} else {
		c.out = &discordgo.MessageSend{Content: roleNotFound(roleText, roles)}
		return h.actionFinish
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	config, err := h.store.Get(c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}

	changed, reply := change(config, roleID)
	if changed {
		if err := h.store.Save(config); err != nil {
			return h.actionError(c, err)
		}
		h.log.WithFields(logrus.Fields{
			"guild":  c.in.GuildID,
			"user":   c.in.Author.ID,
			"roleID": roleID,
		}).Infof("premium roles changed: %s", c.args[1])
	}

	c.out = &discordgo.MessageSend{Content: reply}
	return h.actionFinish
}

// [p]premium config removeinvalid
func (h *Handler) actionRemoveInvalid(c *call) action {
	roles, err := c.session.GuildRoles(c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	config, err := h.store.Get(c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}

	dropped := config.prune(roleIDs(roles))
	if len(dropped) == 0 {
		c.out = h.newMsg("plugins.premiumroles.removeinvalid-none")
		return h.actionFinish
	}

	if err := h.store.Save(config); err != nil {
		return h.actionError(c, err)
	}

	h.log.WithField("guild", c.in.GuildID).Infof("pruned deleted roles %v", dropped)
	c.out = h.newMsg("plugins.premiumroles.removeinvalid-success", len(dropped))
	return h.actionFinish
}

// [p]premium purge
func (h *Handler) actionPurge(c *call) action {
	if !helpers.IsMod(c.session, c.in) {
		c.out = h.newMsg("mod.no_permission")
		return h.actionFinish
	}

	config, err := h.store.Get(c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}
	if config.Required.Len() == 0 {
		c.out = h.newMsg("plugins.premiumroles.purge-no-required")
		return h.actionFinish
	}

	_, err = helpers.SendMessage(c.session, c.in.ChannelID, helpers.GetText("plugins.premiumroles.purge-started"))
	helpers.RelaxLog(h.log, err, "sending purge notice failed")

	result, err := h.Purge(c.ctx, c.session, c.in.GuildID)
	if err != nil {
		return h.actionError(c, err)
	}

	if result.Failed > 0 {
		c.out = h.newMsg("plugins.premiumroles.purge-partial", result.Members, result.Failed)
	} else {
		c.out = h.newMsg("plugins.premiumroles.purge-success", result.Members)
	}
	return h.actionFinish
}

func (h *Handler) actionError(c *call, err error) action {
	h.log.WithError(err).WithField("guild", c.in.GuildID).Error("premium roles command failed")
	c.out = h.newMsg("bot.errors.generic")
	return h.actionFinish
}

func (h *Handler) actionFinish(c *call) action {
	c.out.AllowedMentions = helpers.NoMentions()
	_, err := c.session.SendMessage(c.in.ChannelID, c.out)
	helpers.RelaxLog(h.log, err, "sending premium roles reply failed")

	return nil
}

func (h *Handler) newMsg(content string, replacements ...interface{}) *discordgo.MessageSend {
	if len(replacements) < 1 {
		return &discordgo.MessageSend{Content: helpers.GetText(content)}
	}
	return &discordgo.MessageSend{Content: helpers.GetTextF(content, replacements...)}
}

func roleIDs(roles []*discordgo.Role) RoleSet {
	set := NewRoleSet()
	for _, role := range roles {
		set.Add(role.ID)
	}
	return set
}

func roleNotFound(text string, roles []*discordgo.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}

	ranks := fuzzy.RankFindFold(text, names)
	if len(ranks) == 0 {
		return helpers.GetTextF("plugins.premiumroles.role-not-found", text)
	}
	sort.Sort(ranks)

	var suggestions []string
	for i, rank := range ranks {
		if i >= 3 {
			break
		}
		suggestions = append(suggestions, fmt.Sprintf("`%s`", rank.Target))
	}
	return helpers.GetTextF("plugins.premiumroles.role-not-found-suggestions", text, strings.Join(suggestions, ", "))
}

func isSnowflake(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
