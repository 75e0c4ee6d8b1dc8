package currency

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robyulchat/modplugins/metrics"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

func testMessage() *discordgo.Message {
	return &discordgo.Message{
		ID:        "message",
		GuildID:   "guild",
		ChannelID: "channel",
		Author:    &discordgo.User{ID: "user"},
	}
}

func TestConvert(t *testing.T) {
	provider, _ := alphaVantageServer(t, http.StatusOK, alphaVantageRateBody)
	m := metrics.New()
	h := New(provider, testLogger(), m)
	session := &fakeSession{}

	h.Action(context.Background(), "convert", "10 usd eur", testMessage(), session)

	if len(session.sent) != 1 || len(session.sent[0].Embeds) != 1 {
		t.Fatalf("sent %d message(s), want one embed", len(session.sent))
	}
	embed := session.sent[0].Embeds[0]
	if embed.Title != "Currency Conversion Result" {
		t.Errorf("title = %q", embed.Title)
	}
	if want := "The conversion of 10 USD to EUR is 9.2"; embed.Description != want {
		t.Errorf("description = %q, want %q", embed.Description, want)
	}
	if want := "Conversion Rate: 1 USD = 0.92 EUR"; embed.Footer == nil || embed.Footer.Text != want {
		t.Errorf("footer = %+v, want %q", embed.Footer, want)
	}
	if got := testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("alphavantage", "ok")); got != 1 {
		t.Errorf("upstream ok counter = %v, want 1", got)
	}
}

func TestConvertDefaults(t *testing.T) {
	provider, queries := alphaVantageServer(t, http.StatusOK, `{"Realtime Currency Exchange Rate": {"5. Exchange Rate": "1.00000000"}}`)
	h := New(provider, testLogger(), nil)
	session := &fakeSession{}

	h.Action(context.Background(), "convert", "", testMessage(), session)

	query := (*queries)[0]
	if query.Get("from_currency") != "USD" || query.Get("to_currency") != "USD" {
		t.Errorf("default currencies = %v", query)
	}
	if want := "The conversion of 1 USD to USD is 1"; session.sent[0].Embeds[0].Description != want {
		t.Errorf("description = %q, want %q", session.sent[0].Embeds[0].Description, want)
	}
}

func TestConvertInvalidAmount(t *testing.T) {
	provider, queries := alphaVantageServer(t, http.StatusOK, alphaVantageRateBody)
	h := New(provider, testLogger(), nil)
	session := &fakeSession{}

	h.Action(context.Background(), "convert", "ten USD EUR", testMessage(), session)

	if len(*queries) != 0 {
		t.Errorf("%d request(s) sent for an invalid amount", len(*queries))
	}
	if len(session.sent) != 1 || !strings.Contains(session.sent[0].Content, "`ten` is not a valid amount") {
		t.Errorf("reply = %+v", session.sent)
	}
}

func TestResultEmbedErrors(t *testing.T) {
	tests := []struct {
		kind  Kind
		title string
	}{
		{KindRateLimited, "API Call Limit Exceeded"},
		{KindInvalidPair, "Invalid Currency Conversion Request"},
		{KindUnexpected, "Unexpected Error"},
	}

	for _, tt := range tests {
		embed := ResultEmbed(Result{Kind: tt.kind, From: "USD", To: "XYZ"})
		if embed.Title != tt.title {
			t.Errorf("%v: title = %q, want %q", tt.kind, embed.Title, tt.title)
		}
		if embed.Footer == nil || embed.Footer.Text != "Please try again later" {
			t.Errorf("%v: footer = %+v", tt.kind, embed.Footer)
		}
	}

	embed := ResultEmbed(Result{Kind: KindInvalidPair, From: "USD", To: "XYZ"})
	if !strings.Contains(embed.Description, `from "USD" to "XYZ"`) {
		t.Errorf("invalid pair description = %q", embed.Description)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		9.2:        "9.2",
		0.92:       "0.92",
		10:         "10",
		1.23456:    "1.235",
		1234.5:     "1234.5",
		0.0004:     "0",
		92.0000001: "92",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestConvertTypingFailure(t *testing.T) {
	provider, _ := alphaVantageServer(t, http.StatusOK, alphaVantageRateBody)
	log, hook := logrustest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	h := New(provider, logrus.NewEntry(log), nil)
	session := &fakeSession{typingErr: errors.New("missing access")}

	h.Action(context.Background(), "convert", "10 usd eur", testMessage(), session)

	if len(session.sent) != 1 || session.sent[0].Embeds[0].Title != "Currency Conversion Result" {
		t.Fatalf("reply = %+v, want the conversion result", session.sent)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.DebugLevel || entry.Message != "sending typing indicator failed" {
		t.Errorf("last log entry = %+v, want the typing failure at debug level", entry)
	}
}
