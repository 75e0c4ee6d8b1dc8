package premiumroles

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	membersPerPage = 1000
	purgeWorkers   = 4
)

// PurgeResult summarizes one sweep over a guild
type PurgeResult struct {
	// Members is the number of members who lost at least one role
	Members int
	// Failed is the number of role removals discord rejected
	Failed int
}

// OnGuildMemberUpdate takes premium roles away from a member who no longer holds a required role
func (h *Handler) OnGuildMemberUpdate(ctx context.Context, update *discordgo.GuildMemberUpdate, session helpers.DiscordSession) {
	if update == nil || update.Member == nil || update.User == nil {
		return
	}

	if update.BeforeUpdate != nil {
		added, removed := helpers.StringSliceDiff(update.BeforeUpdate.Roles, update.Roles)
		if len(added) == 0 && len(removed) == 0 {
			return
		}
	}

	log := h.log.WithFields(logrus.Fields{
		"guild": update.GuildID,
		"user":  update.User.ID,
	})

	config, err := h.store.Get(update.GuildID)
	if err != nil {
		log.WithError(err).Error("loading premium roles failed")
		return
	}

	revoke := Evaluate(update.Roles, config.Required, config.Premium)
	if len(revoke) == 0 {
		return
	}

	var removed int
	for _, roleID := range revoke {
		err := session.RemoveRole(update.GuildID, update.User.ID, roleID)
		if err != nil {
			log.WithError(err).WithField("roleID", roleID).Warn("removing premium role failed")
			continue
		}
		removed++
	}

	log.Infof("revoked %d premium role(s)", removed)
	h.metrics.Revoked("event", removed)
}

// Purge sweeps every member of $guildID and takes premium roles away from members without a required role.
// Running it twice without membership changes removes nothing the second time.
func (h *Handler) Purge(ctx context.Context, session helpers.DiscordSession, guildID string) (PurgeResult, error) {
	var result PurgeResult

	config, err := h.store.Get(guildID)
	if err != nil {
		return result, err
	}
	if config.Required.Len() == 0 {
		return result, nil
	}

	log := h.log.WithField("guild", guildID)

	var members, failed, removed int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(purgeWorkers)

	after := ""
	for {
		if err := groupCtx.Err(); err != nil {
			break
		}

		page, err := session.GuildMembers(guildID, after, membersPerPage)
		if err != nil {
			_ = group.Wait()
			return result, errors.Wrap(err, "listing guild members failed")
		}

		last := after
		for _, member := range page {
			if member == nil || member.User == nil {
				continue
			}
			last = member.User.ID
			revoke := Evaluate(member.Roles, config.Required, config.Premium)
			if len(revoke) == 0 {
				continue
			}

			userID := member.User.ID
			group.Go(func() error {
				var lost bool
				for _, roleID := range revoke {
					if groupCtx.Err() != nil {
						return groupCtx.Err()
					}
					err := session.RemoveRole(guildID, userID, roleID)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						log.WithError(err).WithFields(logrus.Fields{
							"user":   userID,
							"roleID": roleID,
						}).Warn("removing premium role failed")
						continue
					}
					atomic.AddInt64(&removed, 1)
					lost = true
				}
				if lost {
					atomic.AddInt64(&members, 1)
				}
				return nil
			})
		}

		if len(page) < membersPerPage || last == after {
			break
		}
		after = last
	}

	if err := group.Wait(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	result.Members = int(members)
	result.Failed = int(failed)
	log.Infof("purge revoked %d premium role(s) from %d member(s), %d failure(s)", removed, members, failed)
	h.metrics.Revoked("purge", int(removed))
	return result, nil
}
