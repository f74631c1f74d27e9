/*
Package habit manages the account's habits and today's completions.

Completing a habit can pay a reward through the economy: CompleteAndReward
completes the habit, then earns coins and experience, each as its own backend
call.
*/
package habit

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"habitpet/internal/app/api"
	"habitpet/internal/app/lifecycle"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

const (
	// RewardCoins and RewardExperience are paid per completed habit.
	RewardCoins      = 10
	RewardExperience = 20

	listPageSize = 100
)

var (
	errAlreadyCompleted = errs.Rejected("This habit is already completed today.")
	errNotCompleted     = errs.Rejected("This habit is not completed today.")
)

// Backend is the subset of the API client used by the habit domain.
type Backend interface {
	Habits(ctx context.Context, page, size int) (api.Page[api.Habit], error)
	Habit(ctx context.Context, id int64) (api.Habit, error)
	CreateHabit(ctx context.Context, req api.HabitRequest) (api.Habit, error)
	UpdateHabit(ctx context.Context, id int64, req api.HabitRequest) (api.Habit, error)
	DeleteHabit(ctx context.Context, id int64) error
	CompleteHabit(ctx context.Context, id int64, notes string) (api.HabitCompletion, error)
	UncompleteHabit(ctx context.Context, id, completionID int64) error
	TodayCompletions(ctx context.Context) ([]api.HabitCompletion, error)
}

// Rewarder pays habit rewards.
type Rewarder interface {
	EarnCoins(ctx context.Context, amount int) bool
	EarnExperience(ctx context.Context, amount int) (api.LevelUpResult, bool)
}

// State is the first page of habits and today's completions.
type State struct {
	Habits []api.Habit
	Today  []api.HabitCompletion
}

// Completion returns today's completion of the habit, if any.
func (s State) Completion(habitID int64) (api.HabitCompletion, bool) {
	i := slices.IndexFunc(s.Today, func(c api.HabitCompletion) bool { return c.HabitID == habitID })
	if i < 0 {
		return api.HabitCompletion{}, false
	}
	return s.Today[i], true
}

// Reward is the result of CompleteAndReward.
type Reward struct {
	Completion api.HabitCompletion
	Coins      bool
	Experience bool
	LevelUp    api.LevelUpResult
}

type Service struct {
	cache    *lifecycle.Cache[State]
	backend  Backend
	rewarder Rewarder
	outcome  lifecycle.Outcome
	logger   zerolog.Logger
}

func New(source lifecycle.Source, backend Backend, rewarder Rewarder) *Service {
	return &Service{
		cache: lifecycle.New(source, lifecycle.Options[State]{
			Name: "habit",
			Fetch: func(ctx context.Context) (State, error) {
				page, err := backend.Habits(ctx, 0, listPageSize)
				if err != nil {
					return State{}, err
				}
				today, err := backend.TodayCompletions(ctx)
				if err != nil {
					return State{}, err
				}
				return State{Habits: page.Content, Today: today}, nil
			},
		}),
		backend:  backend,
		rewarder: rewarder,
		logger:   logx.Component("habit"),
	}
}

// OnIdentityChange implements lifecycle.Listener.
func (s *Service) OnIdentityChange(snap lifecycle.Snapshot) {
	s.cache.OnIdentityChange(snap)
}

// State returns the cached habits and completions.
func (s *Service) State() (State, bool) {
	return s.cache.Get()
}

func (s *Service) Refresh(ctx context.Context) bool {
	return s.cache.Refresh(ctx)
}

func (s *Service) Loading() bool { return s.cache.Loading() }

func (s *Service) Wait() { s.cache.Wait() }

// LoadError returns the error of the last failed load for this session, or nil.
func (s *Service) LoadError() error {
	return s.cache.LastError()
}

// LastError returns the message of the last failed operation, or "".
func (s *Service) LastError() string {
	return s.outcome.Message("Something went wrong. Please try again.")
}

// List returns one page of habits without touching the cache.
func (s *Service) List(ctx context.Context, page, size int) (api.Page[api.Habit], bool) {
	var out api.Page[api.Habit]
	ok := lifecycle.Attempt(ctx, s.logger, &s.outcome, "list_habits", func(ctx context.Context) error {
		var err error
		out, err = s.backend.Habits(ctx, page, size)
		return err
	})
	return out, ok
}

// Get fetches one habit.
func (s *Service) Get(ctx context.Context, id int64) (api.Habit, bool) {
	var out api.Habit
	ok := lifecycle.Attempt(ctx, s.logger, &s.outcome, "get_habit", func(ctx context.Context) error {
		var err error
		out, err = s.backend.Habit(ctx, id)
		return err
	})
	return out, ok
}

// Create validates and creates a habit.
func (s *Service) Create(ctx context.Context, req api.HabitRequest) (api.Habit, bool) {
	var out api.Habit
	ok := lifecycle.Attempt(ctx, s.logger, &s.outcome, "create_habit", func(ctx context.Context) error {
		req = Normalize(req)
		if err := Validate(req); err != nil {
			return err
		}
		var err error
		if out, err = s.backend.CreateHabit(ctx, req); err != nil {
			return err
		}
		s.cache.Refresh(ctx)
		return nil
	})
	return out, ok
}

// Update validates and replaces a habit's fields.
func (s *Service) Update(ctx context.Context, id int64, req api.HabitRequest) (api.Habit, bool) {
	var out api.Habit
	ok := lifecycle.Attempt(ctx, s.logger, &s.outcome, "update_habit", func(ctx context.Context) error {
		req = Normalize(req)
		if err := Validate(req); err != nil {
			return err
		}
		var err error
		if out, err = s.backend.UpdateHabit(ctx, id, req); err != nil {
			return err
		}
		s.cache.Refresh(ctx)
		return nil
	})
	return out, ok
}

func (s *Service) Delete(ctx context.Context, id int64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "delete_habit", func(ctx context.Context) error {
		if err := s.backend.DeleteHabit(ctx, id); err != nil {
			return err
		}
		s.cache.Refresh(ctx)
		return nil
	})
}

// Complete records today's completion of a habit.
func (s *Service) Complete(ctx context.Context, id int64, notes string) (api.HabitCompletion, bool) {
	var out api.HabitCompletion
	ok := lifecycle.Attempt(ctx, s.logger, &s.outcome, "complete_habit", func(ctx context.Context) error {
		var err error
		out, err = s.complete(ctx, id, notes)
		return err
	})
	return out, ok
}

func (s *Service) complete(ctx context.Context, id int64, notes string) (api.HabitCompletion, error) {
	if st, ok := s.cache.Get(); ok {
		if _, done := st.Completion(id); done {
			return api.HabitCompletion{}, errAlreadyCompleted
		}
	}

	completion, err := s.backend.CompleteHabit(ctx, id, notes)
	if err != nil {
		return api.HabitCompletion{}, err
	}
	s.cache.Refresh(ctx)
	return completion, nil
}

// Uncomplete removes today's completion of a habit.
func (s *Service) Uncomplete(ctx context.Context, id int64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "uncomplete_habit", func(ctx context.Context) error {
		st, ok := s.cache.Get()
		if !ok {
			return errNotCompleted
		}
		completion, done := st.Completion(id)
		if !done {
			return errNotCompleted
		}

		if err := s.backend.UncompleteHabit(ctx, id, completion.ID); err != nil {
			return err
		}
		s.cache.Refresh(ctx)
		return nil
	})
}

// CompleteAndReward completes a habit and pays RewardCoins and RewardExperience.
// ok only reflects the completion; reward failures are reported in Reward.
func (s *Service) CompleteAndReward(ctx context.Context, id int64, notes string) (Reward, bool) {
	completion, ok := s.Complete(ctx, id, notes)
	if !ok {
		return Reward{}, false
	}

	r := Reward{Completion: completion}
	r.Coins = s.rewarder.EarnCoins(ctx, RewardCoins)
	r.LevelUp, r.Experience = s.rewarder.EarnExperience(ctx, RewardExperience)
	if !r.Coins || !r.Experience {
		s.logger.Warn().
			Int64("habit_id", id).
			Bool("coins", r.Coins).
			Bool("experience", r.Experience).
			Msg("Habit completed but reward was not fully paid")
	}
	return r, true
}
