/*
Package handler provides HTTP handler functions for habits and their completions.
*/
package handler

import (
	"net/http"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/req"
	"habitpet/internal/pkg/resp"
)

func HandleListHabits(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		habits, cErr := deps.Store.Habits(uid)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}

		page, size := req.Paging(r)
		resp.RespondSuccess(w, r, api.NewPage(habits, page, size))
	}
}

func HandleGetHabit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		h, cErr := deps.Store.Habit(uid, id)
		respond(w, r, h, cErr)
	}
}

func HandleCreateHabit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input api.HabitRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		h, cErr := deps.Store.CreateHabit(uid, input)
		respond(w, r, h, cErr)
	}
}

func HandleUpdateHabit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input api.HabitRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		h, cErr := deps.Store.UpdateHabit(uid, id, input)
		respond(w, r, h, cErr)
	}
}

func HandleDeleteHabit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if cErr := deps.Store.DeleteHabit(uid, id); cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}
		resp.RespondSuccess(w, r, nil)
	}
}

func HandleCompleteHabit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input api.CompleteHabitRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		c, cErr := deps.Store.CompleteHabit(uid, id, input.Notes)
		respond(w, r, c, cErr)
	}
}

func HandleUncompleteHabit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		completionID, customErr := req.PathID(r, "completionId")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if cErr := deps.Store.UncompleteHabit(uid, id, completionID); cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}
		resp.RespondSuccess(w, r, nil)
	}
}

func HandleTodayCompletions(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		list, cErr := deps.Store.TodayCompletions(uid)
		respond(w, r, list, cErr)
	}
}
