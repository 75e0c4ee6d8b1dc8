package currency

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/sirupsen/logrus"
)

type fakeSession struct {
	mu        sync.Mutex
	sent      []*discordgo.MessageSend
	typingErr error
}

func (f *fakeSession) SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "reply", ChannelID: channelID}, nil
}

func (f *fakeSession) EditMessage(edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
}

func (f *fakeSession) Typing(channelID string) error {
	return f.typingErr
}

func (f *fakeSession) Permissions(userID, channelID string) (int64, error) {
	return 0, nil
}

func (f *fakeSession) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	return nil, nil
}

func (f *fakeSession) GuildMembers(guildID string, after string, limit int) ([]*discordgo.Member, error) {
	return nil, nil
}

func (f *fakeSession) RemoveRole(guildID, userID, roleID string) error {
	return nil
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// alphaVantageServer answers every request with $status and $body and records the query
func alphaVantageServer(t *testing.T, status int, body string) (*AlphaVantage, *[]url.Values) {
	t.Helper()

	var queries []url.Values
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query())
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	provider := NewAlphaVantage(helpers.NewRestClient(), "test-key")
	provider.endpoint = server.URL
	return provider, &queries
}

const alphaVantageRateBody = `{
    "Realtime Currency Exchange Rate": {
        "1. From_Currency Code": "USD",
        "2. From_Currency Name": "United States Dollar",
        "3. To_Currency Code": "EUR",
        "4. To_Currency Name": "Euro",
        "5. Exchange Rate": "0.92000000",
        "6. Last Refreshed": "2024-01-01 00:00:01",
        "7. Time Zone": "UTC",
        "8. Bid Price": "0.91990000",
        "9. Ask Price": "0.92010000"
    }
}`
