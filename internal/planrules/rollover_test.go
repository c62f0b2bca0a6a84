package planrules

import (
	"testing"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyPlan(updatedAt time.Time, current, goal int) *domain.Plan {
	return &domain.Plan{
		CustomerID: "cust-1",
		Sections: []*domain.PlanSection{{
			Title: "Social",
			Tasks: []*domain.PlanTask{
				{ID: "posts", Task: "Posts", Frequency: domain.FrequencyMonthly, Current: current, Goal: goal, UpdatedAt: updatedAt},
				{ID: "setup", Task: "Setup", Frequency: domain.FrequencyOneTime, Current: 3, UpdatedAt: updatedAt},
				{ID: "adhoc", Task: "Adhoc", Frequency: domain.FrequencyAsNeeded, Current: 4, UpdatedAt: updatedAt},
			},
		}},
	}
}

func TestRolloverIfNeeded_ArchivesPreviousMonth(t *testing.T) {
	plan := monthlyPlan(time.Date(2024, 4, 28, 9, 0, 0, 0, time.UTC), 7, 12)
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	changed := RolloverIfNeeded(plan, now, DueCurrentMonth)
	require.True(t, changed)

	posts := plan.Task("posts")
	assert.Equal(t, 0, posts.Current)
	require.Len(t, posts.MonthlyHistory, 1)
	assert.Equal(t, domain.MonthlySnapshot{Month: "2024-04", Current: 7, Goal: 12}, posts.MonthlyHistory[0])
	assert.Equal(t, now, posts.UpdatedAt)
	assert.Equal(t, now, plan.UpdatedAt)
}

func TestRolloverIfNeeded_TotalPreserved(t *testing.T) {
	plan := monthlyPlan(date(2024, 4, 10), 7, 12)
	posts := plan.Task("posts")
	before := TotalProgress(posts)

	RolloverIfNeeded(plan, date(2024, 5, 1), DueCurrentMonth)
	assert.Equal(t, before, TotalProgress(posts))
}

func TestRolloverIfNeeded_Idempotent(t *testing.T) {
	plan := monthlyPlan(date(2024, 4, 10), 7, 12)
	now := date(2024, 5, 3)

	require.True(t, RolloverIfNeeded(plan, now, DueCurrentMonth))
	assert.False(t, RolloverIfNeeded(plan, now, DueCurrentMonth))
	assert.False(t, RolloverIfNeeded(plan, now.Add(20*24*time.Hour), DueCurrentMonth))
	assert.Len(t, plan.Task("posts").MonthlyHistory, 1)
}

func TestRolloverIfNeeded_SameMonthNoop(t *testing.T) {
	plan := monthlyPlan(date(2024, 5, 1), 5, 10)
	assert.False(t, RolloverIfNeeded(plan, date(2024, 5, 31), DueCurrentMonth))
	assert.Equal(t, 5, plan.Task("posts").Current)
	assert.Empty(t, plan.Task("posts").MonthlyHistory)
}

func TestRolloverIfNeeded_OnlyMonthlyTasks(t *testing.T) {
	plan := monthlyPlan(date(2024, 1, 15), 2, 4)
	RolloverIfNeeded(plan, date(2024, 6, 1), DueCurrentMonth)

	assert.Equal(t, 3, plan.Task("setup").Current)
	assert.Equal(t, 4, plan.Task("adhoc").Current)
	assert.Empty(t, plan.Task("adhoc").MonthlyHistory)
}

func TestRolloverIfNeeded_SkipsNeverUpdated(t *testing.T) {
	plan := monthlyPlan(time.Time{}, 9, 10)
	assert.False(t, RolloverIfNeeded(plan, date(2024, 6, 1), DueCurrentMonth))
	assert.Equal(t, 9, plan.Task("posts").Current)
}

func TestRolloverIfNeeded_NilPlan(t *testing.T) {
	assert.False(t, RolloverIfNeeded(nil, date(2024, 6, 1), DueCurrentMonth))
}

func TestRolloverIfNeeded_MovesMonthlyDueDate(t *testing.T) {
	plan := monthlyPlan(date(2024, 3, 20), 4, 12)
	posts := plan.Task("posts")
	posts.MonthlyDueDate = intPtr(15)
	posts.DueDate = datePtr(date(2024, 3, 15))
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	require.True(t, RolloverIfNeeded(plan, now, DueCurrentMonth))
	require.NotNil(t, posts.DueDate)
	assert.Equal(t, date(2024, 5, 15), *posts.DueDate)
	assert.False(t, IsOverdue(posts, now))
	assert.Nil(t, plan.Task("setup").DueDate)
}

func TestRolloverIfNeeded_DueDateFollowsPolicy(t *testing.T) {
	plan := monthlyPlan(date(2024, 4, 20), 0, 12)
	posts := plan.Task("posts")
	posts.MonthlyDueDate = intPtr(1)
	posts.DueDate = datePtr(date(2024, 4, 1))

	require.True(t, RolloverIfNeeded(plan, date(2024, 5, 10), DueNextOccurrence))
	assert.Equal(t, date(2024, 6, 1), *posts.DueDate)
}
