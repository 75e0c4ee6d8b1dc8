package premiumroles

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
)

func testMessage(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "message",
		GuildID:   "guild",
		ChannelID: "channel",
		Content:   content,
		Author:    &discordgo.User{ID: "mod"},
	}
}

func testRoles() []*discordgo.Role {
	return []*discordgo.Role{
		{ID: "100", Name: "Supporter"},
		{ID: "200", Name: "Premium Chat"},
		{ID: "300", Name: "Premium Voice"},
	}
}

func TestActionAddAndRemove(t *testing.T) {
	store := newMemoryStore()
	h := New(store, testLogger(), nil, "?")
	session := newFakeSession(testRoles()...)

	h.Action(context.Background(), "premium", "config addrequired supporter", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "Added <@&100> as a required role") {
		t.Errorf("addrequired reply = %q", got)
	}

	h.Action(context.Background(), "premium", "config add <@&200>", testMessage(""), session)
	h.Action(context.Background(), "premium", "config add 200", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "already a premium role") {
		t.Errorf("duplicate add reply = %q", got)
	}

	config, _ := store.Get("guild")
	if diff := cmp.Diff([]string{"100"}, config.Required.Slice()); diff != "" {
		t.Errorf("required (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"200"}, config.Premium.Slice()); diff != "" {
		t.Errorf("premium (-want +got):\n%s", diff)
	}

	h.Action(context.Background(), "premium", "config remove Premium Chat", testMessage(""), session)
	h.Action(context.Background(), "premium", "config remove 200", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "is not in the premium roles list") {
		t.Errorf("remove of absent role reply = %q", got)
	}

	config, _ = store.Get("guild")
	if config.Premium.Len() != 0 {
		t.Errorf("premium roles after removal = %v", config.Premium.Slice())
	}

	for _, sent := range session.sent {
		if sent.AllowedMentions == nil || len(sent.AllowedMentions.Parse) != 0 {
			t.Fatalf("reply %q may ping", sent.Content)
		}
	}
}

func TestActionRoleNotFound(t *testing.T) {
	store := newMemoryStore()
	h := New(store, testLogger(), nil, "?")
	session := newFakeSession(testRoles()...)

	h.Action(context.Background(), "premium", "config add premium", testMessage(""), session)

	got := session.lastContent()
	if !strings.Contains(got, "Did you mean") || !strings.Contains(got, "`Premium Chat`") {
		t.Errorf("role not found reply = %q", got)
	}
	if store.saves != 0 {
		t.Errorf("store saved %d time(s) for an unknown role", store.saves)
	}
}

func TestActionRemoveDeletedRoleByID(t *testing.T) {
	store := newMemoryStore(testConfig("guild", []string{"100"}, []string{"999"}))
	h := New(store, testLogger(), nil, "?")
	session := newFakeSession(testRoles()...)

	h.Action(context.Background(), "premium", "config remove 999", testMessage(""), session)

	config, _ := store.Get("guild")
	if config.Premium.Len() != 0 {
		t.Errorf("deleted role was not removed: %v", config.Premium.Slice())
	}
}

func TestActionGetListsInvalidRoles(t *testing.T) {
	store := newMemoryStore(testConfig("guild", []string{"100"}, []string{"200", "999"}))
	h := New(store, testLogger(), nil, "?")
	session := newFakeSession(testRoles()...)

	h.Action(context.Background(), "premium", "config get", testMessage(""), session)

	got := session.lastContent()
	for _, want := range []string{"<@&100>", "<@&200>", "Invalid Roles", "`999`"} {
		if !strings.Contains(got, want) {
			t.Errorf("config get reply %q is missing %q", got, want)
		}
	}

	h.Action(context.Background(), "premium", "config removeinvalid", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "Removed 1 invalid role") {
		t.Errorf("removeinvalid reply = %q", got)
	}
	config, _ := store.Get("guild")
	if diff := cmp.Diff([]string{"200"}, config.Premium.Slice()); diff != "" {
		t.Errorf("premium after removeinvalid (-want +got):\n%s", diff)
	}
}

func TestActionRequiresPermission(t *testing.T) {
	store := newMemoryStore()
	h := New(store, testLogger(), nil, "?")
	session := newFakeSession(testRoles()...)
	session.permissions = discordgo.PermissionSendMessages

	h.Action(context.Background(), "premium", "config add 200", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "Manage Roles") {
		t.Errorf("reply without permission = %q", got)
	}

	h.Action(context.Background(), "premium", "purge", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "Manage Roles") {
		t.Errorf("purge reply without permission = %q", got)
	}
	if store.saves != 0 {
		t.Errorf("store saved without permission")
	}
}

func TestActionHelp(t *testing.T) {
	h := New(newMemoryStore(), testLogger(), nil, "!")
	session := newFakeSession()

	for _, content := range []string{"", "config", "something"} {
		h.Action(context.Background(), "premium", content, testMessage(""), session)
		if got := session.lastContent(); !strings.Contains(got, "`!premium config get`") {
			t.Errorf("help reply for %q = %q", content, got)
		}
	}
}

func TestActionPurge(t *testing.T) {
	store := newMemoryStore(testConfig("guild", []string{"100"}, []string{"200"}))
	h := New(store, testLogger(), nil, "?")
	session := newFakeSession(testRoles()...)
	session.addMember("user", "200")

	h.Action(context.Background(), "premium", "purge", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "from 1 member") {
		t.Errorf("purge reply = %q", got)
	}

	h.Action(context.Background(), "premium", "purge", testMessage(""), session)
	if got := session.lastContent(); !strings.Contains(got, "from 0 member") {
		t.Errorf("second purge reply = %q", got)
	}
}
