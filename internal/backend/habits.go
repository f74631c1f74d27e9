package backend

import (
	"slices"
	"strings"
	"time"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
)

const (
	// Rewards recorded per completion.
	completionCoins      = 10
	completionExperience = 20
)

func (a *account) habit(id int64) (*api.Habit, *errs.CustomError) {
	for i := range a.habits {
		if a.habits[i].ID == id {
			return &a.habits[i], nil
		}
	}
	return nil, errs.NewError(errs.ErrHabitNotFound)
}

func validateHabit(req api.HabitRequest) *errs.CustomError {
	if strings.TrimSpace(req.Title) == "" {
		return errs.NewError(errs.ErrInvalidParams, "title")
	}
	if _, err := time.Parse(time.DateOnly, req.StartAt); err != nil {
		return errs.NewError(errs.ErrInvalidParams, "startAt")
	}
	if req.IsAlarmEnabled {
		if _, err := time.Parse("15:04", req.ReminderTime); err != nil {
			return errs.NewError(errs.ErrInvalidParams, "reminderTime")
		}
	}
	return nil
}

func applyHabit(h *api.Habit, req api.HabitRequest) {
	h.Title = strings.TrimSpace(req.Title)
	h.Description = req.Description
	h.StartAt = req.StartAt
	h.RepeatDays = slices.Clone(req.RepeatDays)
	h.IsAlarmEnabled = req.IsAlarmEnabled
	h.ReminderTime = req.ReminderTime
}

// Habits returns the account's habits in creation order.
func (s *Store) Habits(userID int64) ([]api.Habit, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}
	return slices.Clone(a.habits), nil
}

func (s *Store) Habit(userID, id int64) (api.Habit, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.Habit{}, cErr
	}
	h, cErr := a.habit(id)
	if cErr != nil {
		return api.Habit{}, cErr
	}
	return *h, nil
}

func (s *Store) CreateHabit(userID int64, req api.HabitRequest) (api.Habit, *errs.CustomError) {
	if cErr := validateHabit(req); cErr != nil {
		return api.Habit{}, cErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.Habit{}, cErr
	}

	h := api.Habit{ID: s.id(), UserID: userID}
	applyHabit(&h, req)
	a.habits = append(a.habits, h)
	return h, nil
}

func (s *Store) UpdateHabit(userID, id int64, req api.HabitRequest) (api.Habit, *errs.CustomError) {
	if cErr := validateHabit(req); cErr != nil {
		return api.Habit{}, cErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.Habit{}, cErr
	}
	h, cErr := a.habit(id)
	if cErr != nil {
		return api.Habit{}, cErr
	}

	applyHabit(h, req)
	return *h, nil
}

// DeleteHabit removes the habit and its completions.
func (s *Store) DeleteHabit(userID, id int64) *errs.CustomError {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return cErr
	}
	if _, cErr := a.habit(id); cErr != nil {
		return cErr
	}

	a.habits = slices.DeleteFunc(a.habits, func(h api.Habit) bool { return h.ID == id })
	a.completions = slices.DeleteFunc(a.completions, func(c api.HabitCompletion) bool { return c.HabitID == id })
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CompleteHabit records today's completion and the reward it is worth.
func (s *Store) CompleteHabit(userID, id int64, notes string) (api.HabitCompletion, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.HabitCompletion{}, cErr
	}
	if _, cErr := a.habit(id); cErr != nil {
		return api.HabitCompletion{}, cErr
	}

	now := s.now()
	for _, c := range a.completions {
		if c.HabitID == id && sameDay(c.CompletedAt, now) {
			return api.HabitCompletion{}, errs.NewError(errs.ErrHabitAlreadyCompleted)
		}
	}

	c := api.HabitCompletion{ID: s.id(), HabitID: id, CompletedAt: now, Notes: notes}
	a.completions = append(a.completions, c)
	a.rewards = append(a.rewards, api.Reward{
		ID:               s.id(),
		HabitID:          id,
		UserID:           userID,
		CoinsEarned:      completionCoins,
		ExperienceEarned: completionExperience,
		Reason:           api.ReasonHabitCompletion,
		CreatedAt:        now,
	})
	return c, nil
}

func (s *Store) UncompleteHabit(userID, id, completionID int64) *errs.CustomError {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return cErr
	}
	if _, cErr := a.habit(id); cErr != nil {
		return cErr
	}

	i := slices.IndexFunc(a.completions, func(c api.HabitCompletion) bool {
		return c.ID == completionID && c.HabitID == id
	})
	if i < 0 {
		return errs.NewError(errs.ErrCompletionNotFound)
	}
	a.completions = slices.Delete(a.completions, i, i+1)
	return nil
}

// TodayCompletions returns the completions recorded today.
func (s *Store) TodayCompletions(userID int64) ([]api.HabitCompletion, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}

	now := s.now()
	out := []api.HabitCompletion{}
	for _, c := range a.completions {
		if sameDay(c.CompletedAt, now) {
			out = append(out, c)
		}
	}
	return out, nil
}
