// Package logging sets up the logrus logger shared by the launcher and all plugins.
package logging

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/kz/discordrus"
	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/helpers"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the logger from the logging.* config keys
func NewLogger(config *helpers.Config, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.Out = out
	log.Formatter = &logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339}
	log.Hooks = make(logrus.LevelHooks)

	level, err := logrus.ParseLevel(config.String("logging.level", "info"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid logging.level")
	}
	if config.Bool("debug") {
		level = logrus.DebugLevel
	}
	log.Level = level

	if path := config.String("logging.jsonfile", ""); path != "" {
		fileHook, err := NewFileHook(path)
		if err != nil {
			log.WithField("module", "logging").WithError(err).Error("logrus file hook failed")
		} else {
			log.Hooks.Add(fileHook)
		}
	}

	if webhook := config.String("logging.discord_webhook", ""); webhook != "" {
		log.Hooks.Add(discordrus.NewHook(
			webhook,
			logrus.ErrorLevel,
			&discordrus.Opts{
				Username:           "Logging",
				DisableTimestamp:   false,
				TimestampFormat:    "Jan 2 15:04:05.00000",
				EnableCustomColors: true,
				CustomLevelColors: &discordrus.LevelColors{
					Error: 13631488,
					Panic: 13631488,
					Fatal: 13631488,
				},
			},
		))
	}

	return log, nil
}

// BridgeDiscordgo routes discordgo's internal logging into $log
func BridgeDiscordgo(log *logrus.Logger) {
	entry := log.WithField("module", "discordgo")

	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		pc, file, line, _ := runtime.Caller(caller)

		files := strings.Split(file, "/")
		file = files[len(files)-1]

		name := runtime.FuncForPC(pc).Name()
		fns := strings.Split(name, ".")
		name = fns[len(fns)-1]

		msg := fmt.Sprintf(format, a...)

		switch msgL {
		case discordgo.LogError:
			entry.Errorf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogWarning:
			entry.Warnf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogInformational:
			entry.Infof("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogDebug:
			entry.Debugf("%s:%d:%s() %s", file, line, name, msg)
		}
	}
}
