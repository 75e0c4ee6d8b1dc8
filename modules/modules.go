package modules

import (
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/robyulchat/modplugins/metrics"
	"github.com/sirupsen/logrus"
)

type registeredPlugin struct {
	plugin Plugin
	// set once Init succeeded
	ready atomic.Bool
}

// Registry routes commands and events to the plugins
type Registry struct {
	log     *logrus.Entry
	metrics *metrics.Metrics

	plugins  []*registeredPlugin
	commands map[string]*registeredPlugin
}

// NewRegistry registers $plugins, every command may only be claimed by one plugin
func NewRegistry(log *logrus.Entry, m *metrics.Metrics, plugins ...Plugin) (*Registry, error) {
	r := &Registry{
		log:      log.WithField("module", "modules"),
		metrics:  m,
		commands: make(map[string]*registeredPlugin),
	}

	owners := make(map[string]Plugin)
	for _, plugin := range plugins {
		ref := &registeredPlugin{plugin: plugin}
		for _, cmd := range plugin.Commands() {
			if occupant, ok := owners[cmd]; ok {
				return nil, errors.Errorf("failed to load %T because '%s' was already registered by %T", plugin, cmd, occupant)
			}
			owners[cmd] = plugin
			r.commands[cmd] = ref
		}
		r.plugins = append(r.plugins, ref)
	}

	return r, nil
}

// Commands returns every registered command, sorted
func (r *Registry) Commands() []string {
	commands := make([]string, 0, len(r.commands))
	for cmd := range r.commands {
		commands = append(commands, cmd)
	}
	sort.Strings(commands)
	return commands
}

// Ready reports whether the plugin handling $command initialized successfully
func (r *Registry) Ready(command string) bool {
	ref, ok := r.commands[command]
	return ok && ref.ready.Load()
}

// Handles reports whether a plugin claimed $command
func (r *Registry) Handles(command string) bool {
	_, ok := r.commands[command]
	return ok
}
