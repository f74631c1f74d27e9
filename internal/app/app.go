/*
Package app is the composition root of the HabitPet client core.

New wires the persisted session store, the auto-logout coordinator, the transport,
the API client and every domain service including the profile, and subscribes the
domain caches to the session's identity before anything can sign in. Nothing here
is global: each App owns its own graph.
*/
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"habitpet/internal/app/api"
	"habitpet/internal/app/auth"
	"habitpet/internal/app/character"
	"habitpet/internal/app/economy"
	"habitpet/internal/app/habit"
	"habitpet/internal/app/profile"
	"habitpet/internal/app/room"
	"habitpet/internal/app/store"
	"habitpet/internal/app/transport"
	"habitpet/internal/configs"
	"habitpet/internal/pkg/logx"
)

type App struct {
	Session   *auth.Service
	Profile   *profile.Service
	Economy   *economy.Service
	Character *character.Service
	Room      *room.Service
	Habit     *habit.Service

	API         *api.Client
	Coordinator *transport.Coordinator

	logger zerolog.Logger
}

// Options overrides parts of the graph built by New.
type Options struct {
	// Store replaces the key/value store chosen from the configuration.
	Store store.Store

	// Transport is merged over the configuration-derived transport settings.
	Transport transport.Config
}

// New builds the client graph from cfg.
func New(cfg *configs.ClientConfig, opts Options) (*App, error) {
	kv := opts.Store
	if kv == nil {
		if cfg.SessionFile != "" {
			fs, err := store.NewFileStore(cfg.SessionFile)
			if err != nil {
				return nil, fmt.Errorf("app: %w", err)
			}
			kv = fs
		} else {
			kv = store.NewMemoryStore()
		}
	}

	session := store.NewSession(kv)
	coordinator := transport.NewCoordinator(session)

	tcfg := opts.Transport
	if tcfg.BaseURL == "" {
		tcfg.BaseURL = cfg.BaseURL
	}
	if tcfg.Timeout == 0 {
		tcfg.Timeout = cfg.HTTPTimeout
	}
	tcfg.RefreshEnabled = tcfg.RefreshEnabled || cfg.RefreshEnabled

	client := api.NewClient(transport.New(tcfg, session, coordinator))

	sessions := auth.New(client, session, coordinator)
	prof := profile.New(sessions, client, sessions)
	econ := economy.New(sessions, client)
	chars := character.New(sessions, client, econ)
	rooms := room.New(sessions, client, econ)
	habits := habit.New(sessions, client, econ)

	// Subscription order is reset order: the wallet empties first.
	sessions.Subscribe(econ)
	sessions.Subscribe(chars)
	sessions.Subscribe(rooms)
	sessions.Subscribe(habits)
	sessions.Subscribe(prof)

	return &App{
		Session:     sessions,
		Profile:     prof,
		Economy:     econ,
		Character:   chars,
		Room:        rooms,
		Habit:       habits,
		API:         client,
		Coordinator: coordinator,
		logger:      logx.Component("app"),
	}, nil
}

// Start resumes a persisted session. The domain caches begin loading in the
// background when one is found.
func (a *App) Start(ctx context.Context) bool {
	resumed := a.Session.ResumeSession(ctx)
	a.logger.Info().Bool("resumed", resumed).Msg("Client started")
	return resumed
}

// RefreshAll re-fetches every domain concurrently, as a screen regaining focus
// does. One failure does not cancel the others. It reports whether all of them
// succeeded.
func (a *App) RefreshAll(ctx context.Context) bool {
	var g errgroup.Group

	refreshers := map[string]func(context.Context) bool{
		"economy":        a.Economy.Refresh,
		"characters":     a.Character.Refresh,
		"character_shop": a.Character.RefreshShop,
		"room":           a.Room.Refresh,
		"room_shop":      a.Room.RefreshShop,
		"habits":         a.Habit.Refresh,
		"profile":        a.Profile.Refresh,
	}
	for name, refresh := range refreshers {
		g.Go(func() error {
			if !refresh(ctx) {
				return fmt.Errorf("refresh %s failed", name)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Warn().Err(err).Msg("Focus refresh incomplete")
		return false
	}
	return true
}

// LoadErrors returns, per domain, the error of its last failed load in this
// session. Domains whose caches loaded, or have not failed yet, are absent.
func (a *App) LoadErrors() map[string]error {
	out := make(map[string]error)
	for name, err := range map[string]error{
		"economy":    a.Economy.LoadError(),
		"characters": a.Character.LoadError(),
		"room":       a.Room.LoadError(),
		"habits":     a.Habit.LoadError(),
		"profile":    a.Profile.LoadError(),
	} {
		if err != nil {
			out[name] = err
		}
	}
	return out
}

// Wait blocks until every background load has settled.
func (a *App) Wait() {
	a.Economy.Wait()
	a.Character.Wait()
	a.Room.Wait()
	a.Habit.Wait()
	a.Profile.Wait()
}
