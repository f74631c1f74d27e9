package api

import (
	"context"
	"net/http"
)

func (c *Client) Habits(ctx context.Context, page, size int) (Page[Habit], error) {
	return call[Page[Habit]](ctx, c, http.MethodGet, "/api/habits", pageQuery(page, size), nil)
}

func (c *Client) Habit(ctx context.Context, id int64) (Habit, error) {
	return call[Habit](ctx, c, http.MethodGet, idPath("/api/habits", id, ""), nil, nil)
}

func (c *Client) CreateHabit(ctx context.Context, req HabitRequest) (Habit, error) {
	return call[Habit](ctx, c, http.MethodPost, "/api/habits", nil, req)
}

func (c *Client) UpdateHabit(ctx context.Context, id int64, req HabitRequest) (Habit, error) {
	return call[Habit](ctx, c, http.MethodPatch, idPath("/api/habits", id, ""), nil, req)
}

func (c *Client) DeleteHabit(ctx context.Context, id int64) error {
	return exec(ctx, c, http.MethodDelete, idPath("/api/habits", id, ""), nil)
}

func (c *Client) CompleteHabit(ctx context.Context, id int64, notes string) (HabitCompletion, error) {
	return call[HabitCompletion](ctx, c, http.MethodPost, idPath("/api/habits", id, "/complete"), nil, CompleteHabitRequest{Notes: notes})
}

func (c *Client) UncompleteHabit(ctx context.Context, id, completionID int64) error {
	return exec(ctx, c, http.MethodDelete, idPath(idPath("/api/habits", id, "/complete"), completionID, ""), nil)
}

func (c *Client) TodayCompletions(ctx context.Context) ([]HabitCompletion, error) {
	return call[[]HabitCompletion](ctx, c, http.MethodGet, "/api/habits/completions/today", nil, nil)
}
