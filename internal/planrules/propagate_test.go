package planrules

import (
	"testing"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRule_PreservesStaffState(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan, err := MaterializePlan(c, catalog, "ops@example.com", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)

	task := plan.Task("r-shop")
	task.Progress = domain.ProgressDoing
	task.Notes = "foo"
	task.AssignedTeamMembers = []string{"dana"}

	rule := catalog.Tasks[0]
	rule.Task = "Open the shop"
	rule.DaysAfterJoin = 10

	inserted := ApplyRule(plan, catalog, c, &rule, "lead@example.com", date(2024, 2, 1), DueCurrentMonth)
	assert.False(t, inserted)

	got := plan.Task("r-shop")
	assert.Equal(t, domain.ProgressDoing, got.Progress)
	assert.Equal(t, "foo", got.Notes)
	assert.Equal(t, []string{"dana"}, got.AssignedTeamMembers)
	assert.Equal(t, "Open the shop", got.Task)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-01-20", got.DueDate.Format(domain.DateLayout))
	assert.Equal(t, "lead@example.com", got.UpdatedBy)
}

func TestApplyRule_GoalKeptWhenRuleHasNoDefault(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan, err := MaterializePlan(c, catalog, "", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)
	plan.Task("r-posts").Goal = 30
	plan.Task("r-posts").Current = 4

	rule := catalog.Tasks[1]
	rule.DefaultGoal = nil
	ApplyRule(plan, catalog, c, &rule, "", date(2024, 1, 11), DueCurrentMonth)
	assert.Equal(t, 30, plan.Task("r-posts").Goal)
	assert.Equal(t, 4, plan.Task("r-posts").Current)

	rule.DefaultGoal = intPtr(8)
	ApplyRule(plan, catalog, c, &rule, "", date(2024, 1, 12), DueCurrentMonth)
	assert.Equal(t, 8, plan.Task("r-posts").Goal)
}

func TestApplyRule_InsertsMissingTaskInCatalogOrder(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan, err := MaterializePlan(c, catalog, "", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)

	require.True(t, plan.RemoveTask("r-shop"))
	inserted := ApplyRule(plan, catalog, c, &catalog.Tasks[0], "ops", date(2024, 1, 12), DueCurrentMonth)
	assert.True(t, inserted)

	setup := plan.Section("Setup")
	require.Len(t, setup.Tasks, 2)
	assert.Equal(t, "r-shop", setup.Tasks[0].ID)
	assert.Equal(t, domain.ProgressToDo, setup.Tasks[0].Progress)
}

func TestApplyRule_CreatesMissingSectionAtCatalogRank(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan := &domain.Plan{
		CustomerID: c.ID,
		Sections: []*domain.PlanSection{
			{Title: "Setup", Tasks: []*domain.PlanTask{}},
			{Title: "Social", Tasks: []*domain.PlanTask{}},
			{Title: domain.OtherTasksSection, Tasks: []*domain.PlanTask{}},
		},
	}

	ApplyRule(plan, catalog, c, &catalog.Tasks[3], "", date(2024, 1, 12), DueCurrentMonth)

	titles := make([]string, len(plan.Sections))
	for i, s := range plan.Sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Setup", "Listings", "Social", domain.OtherTasksSection}, titles)
}

func TestApplyRule_MovesTaskWhenSectionChanges(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan, err := MaterializePlan(c, catalog, "", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)
	plan.Task("r-banner").Progress = domain.ProgressDoing

	catalog.Tasks[2].Section = "Social"
	ApplyRule(plan, catalog, c, &catalog.Tasks[2], "", date(2024, 1, 12), DueCurrentMonth)

	assert.Len(t, plan.Section("Setup").Tasks, 1)
	social := plan.Section("Social")
	require.Len(t, social.Tasks, 2)
	assert.Equal(t, "r-posts", social.Tasks[0].ID)
	assert.Equal(t, "r-banner", social.Tasks[1].ID)
	assert.Equal(t, "Social", social.Tasks[1].Section)
	assert.Equal(t, domain.ProgressDoing, social.Tasks[1].Progress)
}

func TestApplyRule_DropsSectionLeftEmptyByMove(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan, err := MaterializePlan(c, catalog, "", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)

	// Social is retired from the catalog and its only rule moves to Listings.
	catalog.Sections = []string{"Setup", "Listings"}
	catalog.Tasks[1].Section = "Listings"
	ApplyRule(plan, catalog, c, &catalog.Tasks[1], "", date(2024, 1, 12), DueCurrentMonth)

	assert.Nil(t, plan.Section("Social"))
	titles := make([]string, 0, len(plan.Sections))
	for _, s := range plan.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Setup", "Listings"}, titles)
	assert.Len(t, plan.Section("Listings").Tasks, 2)
}

func TestApplyRule_KeepsEmptiedCatalogSection(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan, err := MaterializePlan(c, catalog, "", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)

	catalog.Tasks[1].Section = "Setup"
	ApplyRule(plan, catalog, c, &catalog.Tasks[1], "", date(2024, 1, 12), DueCurrentMonth)

	social := plan.Section("Social")
	require.NotNil(t, social, "sections the catalog still lists stay in place")
	assert.Empty(t, social.Tasks)
}

func TestApplyRule_MergesSubtasksById(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	catalog := testCatalog()
	plan, err := MaterializePlan(c, catalog, "", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)
	plan.Task("r-banner").Subtasks[1].Completed = true
	plan.Task("r-banner").Subtasks[1].CompletedBy = "dana"

	catalog.Tasks[2].Subtasks = []domain.SubtaskTemplate{
		{ID: "s2", Text: "Approve with client"},
		{ID: "s3", Text: "Upload"},
	}
	ApplyRule(plan, catalog, c, &catalog.Tasks[2], "", date(2024, 1, 12), DueCurrentMonth)

	subs := plan.Task("r-banner").Subtasks
	require.Len(t, subs, 2)
	assert.Equal(t, "s2", subs[0].ID)
	assert.Equal(t, "Approve with client", subs[0].Text)
	assert.True(t, subs[0].Completed)
	assert.Equal(t, "dana", subs[0].CompletedBy)
	assert.Equal(t, "s3", subs[1].ID)
	assert.False(t, subs[1].Completed)
}

func TestRemoveRule(t *testing.T) {
	c := testCustomer(date(2024, 1, 10))
	plan, err := MaterializePlan(c, testCatalog(), "", date(2024, 1, 10), DueCurrentMonth)
	require.NoError(t, err)

	now := date(2024, 1, 20)
	assert.True(t, RemoveRule(plan, "r-posts", now))
	assert.Nil(t, plan.Task("r-posts"))
	assert.Equal(t, now, plan.UpdatedAt)
	assert.False(t, RemoveRule(plan, "r-posts", now))
}
