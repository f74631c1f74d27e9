/*
Package main is a headless smoke client for the HabitPet client core.

It builds the client from configuration, resumes the persisted session or signs in
with HABITPET_EMAIL and HABITPET_PASSWORD, waits for every domain to load, and logs
what it found. With -logout it ends the session before exiting.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"habitpet/internal/app"
	"habitpet/internal/app/api"
	"habitpet/internal/app/character"
	"habitpet/internal/configs"
	"habitpet/internal/pkg/logx"
)

func main() {
	logout := flag.Bool("logout", false, "end the session before exiting")
	signup := flag.Bool("signup", false, "register the account before signing in")
	flag.Parse()

	cfg, err := configs.LoadClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.BaseURL).
		Dur("timeout", cfg.HTTPTimeout).
		Bool("refresh_enabled", cfg.RefreshEnabled).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := app.New(cfg, app.Options{})
	if err != nil {
		logx.Fatal(err, "Failed to build client")
	}

	if !client.Start(ctx) && !signIn(ctx, client, *signup) {
		logx.Fatal(errors.New(client.Session.State().LastError), "Sign-in failed")
	}
	client.Wait()

	report(client)

	if *logout {
		client.Session.Logout(ctx)
		logx.Info("Signed out")
	}
}

func signIn(ctx context.Context, client *app.App, signup bool) bool {
	email := os.Getenv("HABITPET_EMAIL")
	password := os.Getenv("HABITPET_PASSWORD")
	if email == "" || password == "" {
		logx.Warn("No persisted session and no HABITPET_EMAIL/HABITPET_PASSWORD set")
		return false
	}

	if signup {
		return client.Session.SignUp(ctx, api.SignUpRequest{Email: email, Password: password, Name: email})
	}
	return client.Session.Login(ctx, api.LoginRequest{Email: email, Password: password})
}

func report(client *app.App) {
	state := client.Session.State()
	logx.Info("Session", "status", state.Status.String(), "user_id", state.Identity.ID, "email", state.Identity.Email)

	for domain, err := range client.LoadErrors() {
		logx.Warn("Domain not loaded", "domain", domain, "error", err.Error())
	}

	if p, ok := client.Profile.Get(); ok {
		logx.Info("Profile", "name", p.Name, "nick_name", p.NickName)
	}

	if game, ok := client.Economy.State(); ok {
		logx.Info("Economy", "coins", game.Coins, "level", game.Level, "experience", game.Experience)
	}

	if roster, ok := client.Character.Roster(); ok {
		logx.Info("Characters", "owned", len(roster.Characters))
		if roster.Active != nil {
			mood := character.MoodFor(roster.Active.Happiness)
			logx.Info("Active character", "id", roster.Active.ID, "happiness", roster.Active.Happiness, "mood", mood.Label)
		}
	}

	if st, ok := client.Room.State(); ok {
		logx.Info("Room", "room_id", st.Layout.ID, "placed", len(st.Layout.Items), "inventory", len(st.Inventory))
	}

	if st, ok := client.Habit.State(); ok {
		logx.Info("Habits", "count", len(st.Habits), "completed_today", len(st.Today))
	}
}
