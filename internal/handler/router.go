/*
Package handler provides the HTTP handlers and routing setup for the HabitPet development backend.

This file defines the main Router, applying middleware like logging, CORS and IP-based
rate limiting before delegating requests to the session, profile, game and habit handlers.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"habitpet/internal/pkg/auth/jwt"
	"habitpet/internal/pkg/limiter"
	"habitpet/internal/pkg/logx"
	"habitpet/internal/pkg/resp"
)

const (
	AuthRate  = 0.5
	AuthBurst = 10
)

// Router sets up the HTTP routing table for the development backend.
// The limiter's sweeper stops when ctx is cancelled.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(AuthRate), AuthBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "HabitPet Dev Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Group(func(public chi.Router) {
		public.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))
		public.With(authLimiter.Middleware).Post("/signup", HandleSignUp(deps))
		public.With(authLimiter.Middleware).Post("/oauth2/google", HandleGoogleLogin(deps))
		public.Post("/logout", HandleLogout(deps))
		public.Post("/api/auth/refresh", HandleRefresh(deps))
	})

	r.Group(func(private chi.Router) {
		private.Use(jwt.RequireAuth(deps.Config.JWTSecret, deps.Store))

		private.Route("/users/profile", func(profile chi.Router) {
			profile.Get("/", HandleGetProfile(deps))
			profile.Put("/updateNickname", HandleUpdateNickName(deps))
			profile.Patch("/updatePassword", HandleUpdatePassword(deps))
		})

		private.Route("/game", func(game chi.Router) {
			game.Get("/user-data", HandleGetGameData(deps))
			game.Post("/user-data", HandleCreateGameData(deps))
			game.Patch("/user-data", HandleUpdateGameData(deps))
			game.Post("/user-data/level-up", HandleCheckLevelUp(deps))
			game.Get("/rewards", HandleRewards(deps))

			game.Get("/characters", HandleListCharacters(deps))
			game.Post("/characters/{id}/purchase", HandlePurchaseCharacter(deps))

			game.Route("/user-characters", func(uc chi.Router) {
				uc.Get("/", HandleListUserCharacters(deps))
				uc.Get("/{id}", HandleGetUserCharacter(deps))
				uc.Patch("/{id}", HandleUpdateUserCharacter(deps))
				uc.Patch("/{id}/activation", HandleSetCharacterActive(deps))
				uc.Post("/{id}/feeding", HandleFeedCharacter(deps))
				uc.Post("/{id}/playing", HandlePlayWithCharacter(deps))
			})

			game.Route("/user-rooms", func(room chi.Router) {
				room.Get("/", HandleGetRoom(deps))
				room.Post("/", HandleCreateRoom(deps))
				room.Post("/{roomId}/items", HandlePlaceItem(deps))
				room.Put("/{roomId}/items/{placedItemId}", HandleMoveItem(deps))
				room.Delete("/{roomId}/items/{placedItemId}", HandleRemoveItem(deps))
			})

			game.Get("/room-items", HandleListRoomItems(deps))
			game.Get("/room-items/{id}", HandleGetRoomItem(deps))
			game.Get("/user-items", HandleListUserItems(deps))
			game.Post("/user-items", HandleBuyItem(deps))
		})

		private.Route("/api/habits", func(habits chi.Router) {
			habits.Get("/", HandleListHabits(deps))
			habits.Post("/", HandleCreateHabit(deps))
			habits.Get("/completions/today", HandleTodayCompletions(deps))
			habits.Get("/{id}", HandleGetHabit(deps))
			habits.Patch("/{id}", HandleUpdateHabit(deps))
			habits.Delete("/{id}", HandleDeleteHabit(deps))
			habits.Post("/{id}/complete", HandleCompleteHabit(deps))
			habits.Delete("/{id}/complete/{completionId}", HandleUncompleteHabit(deps))
		})
	})

	return r
}
