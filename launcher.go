package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/getsentry/raven-go"
	"github.com/robyulchat/modplugins/cache"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/robyulchat/modplugins/logging"
	"github.com/robyulchat/modplugins/metrics"
	"github.com/robyulchat/modplugins/modules"
	"github.com/robyulchat/modplugins/modules/plugins/currency"
	"github.com/robyulchat/modplugins/modules/plugins/premiumroles"
	"github.com/robyulchat/modplugins/modules/plugins/wolframalpha"
	"github.com/robyulchat/modplugins/ratelimits"
	"github.com/robyulchat/modplugins/version"
	"github.com/sirupsen/logrus"
)

const configPath = "config.json"

// Entrypoint
func main() {
	// Read config
	config, err := helpers.LoadConfig(configPath)
	if err != nil {
		logrus.WithField("module", "launcher").WithError(err).Fatal("loading config failed")
	}

	log, err := logging.NewLogger(config, os.Stdout)
	if err != nil {
		logrus.WithField("module", "launcher").WithError(err).Fatal("setting up logging failed")
	}
	logging.BridgeDiscordgo(log)
	launcherLog := log.WithField("module", "launcher")

	launcherLog.Info("Booting modplugins...")

	// Show version
	version.DumpInfo(launcherLog)

	// Print UA
	launcherLog.Info("USERAGENT: '" + helpers.DEFAULT_UA + "'")

	// Call home
	if dsn := config.String("sentry", ""); dsn != "" {
		launcherLog.Info("[SENTRY] Calling home...")
		err = raven.SetDSN(dsn)
		if err != nil {
			launcherLog.WithError(err).Fatal("invalid sentry dsn")
		}
		raven.SetRelease(version.BOT_VERSION)
		launcherLog.Info("[SENTRY] Someone picked up the phone \\^-^/")
	}

	// Start metric server
	m := metrics.New()
	if address := config.String("metrics.address", ""); address != "" {
		go serveMetrics(launcherLog, address, m)
	}

	// Connect to DB
	launcherLog.Info("Opening database connection...")
	mdb, err := helpers.ConnectMDB(
		config.String("mongodb.url", "mongodb://localhost:27017"),
		config.String("mongodb.db", "modplugins"),
		launcherLog,
	)
	if err != nil {
		launcherLog.WithError(err).Fatal("connecting to mongodb failed")
	}
	// Close DB when main dies
	defer mdb.Close()

	premiumStore := premiumroles.NewMDbStore(mdb)

	// Connecting to redis
	if address := config.String("redis.address", ""); address != "" {
		launcherLog.Info("Connecting to redis...")
		redisClient, err := cache.NewRedisClient(address)
		if err != nil {
			launcherLog.WithError(err).Warn("redis unavailable, premium roles are read from mongodb only")
		} else {
			defer redisClient.Close()
			premiumStore = premiumroles.NewCachedStore(premiumStore, cache.NewCodec(redisClient))
		}
	}

	restClient := helpers.NewRestClient()
	prefix := config.String("bot.prefix", "?")

	rateProvider, err := currency.NewProvider(
		config.String("currency.provider", ""),
		config.String("currency.alphavantage_key", ""),
		restClient,
	)
	if err != nil {
		launcherLog.WithError(err).Fatal("setting up currency provider failed")
	}

	pluginLog := logrus.NewEntry(log)
	registry, err := modules.NewRegistry(pluginLog, m,
		currency.New(rateProvider, pluginLog, m),
		premiumroles.New(premiumStore, pluginLog, m, prefix),
		wolframalpha.New(
			wolframalpha.NewClient(restClient, m),
			wolframalpha.NewSimpleImages(m),
			wolframalpha.NewMDbStore(mdb),
			config.String("wolframalpha.appid", ""),
			pluginLog,
		),
	)
	if err != nil {
		launcherLog.WithError(err).Fatal("registering plugins failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load and init all modules
	registry.Init(ctx)

	bot := NewBot(ctx, registry, ratelimits.NewContainer(config.Int("ratelimit.per_minute", ratelimits.DefaultPerMinute)), m, pluginLog, prefix)

	// Connect and add event handlers
	launcherLog.Info("Connecting modplugins to discord...")
	discord, err := discordgo.New("Bot " + config.String("discord.token", ""))
	if err != nil {
		launcherLog.WithError(err).Fatal("creating discord session failed")
	}

	discord.Lock()
	discord.Debug = false
	discord.LogLevel = discordgo.LogInformational
	discord.StateEnabled = true
	discord.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent
	discord.Unlock()

	discord.AddHandler(bot.BotOnReady)
	discord.AddHandler(bot.BotOnMessageCreate)
	discord.AddHandler(bot.BotOnGuildMemberUpdate)

	// Connect to discord
	err = discord.Open()
	if err != nil {
		raven.CaptureErrorAndWait(err, nil)
		launcherLog.WithError(err).Fatal("connecting to discord failed")
	}

	// Make a channel that waits for a os signal
	runtimeChannel := make(chan os.Signal, 1)
	signal.Notify(runtimeChannel, os.Interrupt, syscall.SIGTERM)

	// Wait until the os wants us to shutdown
	<-runtimeChannel

	launcherLog.Info("modplugins is stopping")
	cancel()
	launcherLog.Info("Disconnecting bot discord session...")
	err = discord.Close()
	helpers.RelaxLog(launcherLog, err, "closing discord session failed")
}

func serveMetrics(log *logrus.Entry, address string, m *metrics.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("metrics listening on " + address)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("metrics server failed")
	}
}
