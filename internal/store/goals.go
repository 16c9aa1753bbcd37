package store

import (
	"context"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// GetGoals returns every stored goal. A missing or unparsable collection reads as empty.
func (s *Store) GetGoals(ctx context.Context) []model.Goal {
	goals, ok := load[model.Goal](ctx, s, GoalsKey)
	if !ok {
		return []model.Goal{}
	}
	return goals
}

// SaveGoals replaces the stored goal collection.
func (s *Store) SaveGoals(ctx context.Context, goals []model.Goal) {
	save(ctx, s, GoalsKey, goals)
}

// AddGoal appends g to the stored goals.
func (s *Store) AddGoal(ctx context.Context, g model.Goal) {
	goals := s.GetGoals(ctx)
	s.SaveGoals(ctx, append(goals, g))
}

// UpdateGoal merges update into the first goal with id and reports whether it existed.
func (s *Store) UpdateGoal(ctx context.Context, id string, update model.GoalUpdate) bool {
	goals := s.GetGoals(ctx)
	for i := range goals {
		if goals[i].ID == id {
			goals[i] = update.Apply(goals[i])
			s.SaveGoals(ctx, goals)
			return true
		}
	}
	s.logger.Debug("Goal not found for update", "id", id)
	return false
}

// DeleteGoal removes every goal with id.
func (s *Store) DeleteGoal(ctx context.Context, id string) {
	goals := s.GetGoals(ctx)
	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	s.SaveGoals(ctx, kept)
}

// FindGoal returns the first goal with id.
func FindGoal(goals []model.Goal, id string) (model.Goal, bool) {
	for _, g := range goals {
		if g.ID == id {
			return g, true
		}
	}
	return model.Goal{}, false
}
