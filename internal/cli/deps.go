package cli

import (
	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/session"
	"taskdeck/internal/task"

	"github.com/sirupsen/logrus"
)

// deps wires the client stack the same way for every command: config,
// session store, authenticated API client, task manager.
type deps struct {
	cfg      config.Config
	sessions *session.Store
	api      *api.Client
	tasks    *task.Manager
	log      *logrus.Logger
}

func (a *App) open() (*deps, error) {
	cfg := config.Load()
	if a.BaseURL != "" {
		cfg.BaseURL = a.BaseURL
	}
	log := logging.Open(cfg.LogPath)
	sessions, err := session.Open(cfg.SessionPath())
	if err != nil {
		return nil, err
	}
	client := api.New(cfg.BaseURL, sessions, log)
	return &deps{
		cfg:      cfg,
		sessions: sessions,
		api:      client,
		tasks:    task.NewManager(client, sessions, log),
		log:      log,
	}, nil
}

func (d *deps) Close() {
	_ = d.sessions.Close()
}
