package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planTestSetup(t *testing.T) (*SQLitePlanRepo, *domain.Customer) {
	t.Helper()
	db := testutil.NewTestDB(t)
	c := testutil.NewTestCustomer("Plan Shop")
	require.NoError(t, NewSQLiteCustomerRepo(db).Create(context.Background(), c))
	return NewSQLitePlanRepo(db), c
}

func samplePlan(customerID string) *domain.Plan {
	now := time.Date(2024, 4, 2, 9, 30, 0, 123, time.UTC)
	due := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	day := 15
	return &domain.Plan{
		CustomerID: customerID,
		Sections: []*domain.PlanSection{
			{Title: "Social", Tasks: []*domain.PlanTask{{
				ID:             "posts",
				Origin:         domain.OriginRule,
				Task:           "Instagram posts",
				Section:        "Social",
				Frequency:      domain.FrequencyMonthly,
				Progress:       domain.ProgressDoing,
				IsActive:       true,
				MonthlyDueDate: &day,
				DueDate:        &due,
				Current:        3,
				Goal:           12,
				MonthlyHistory: []domain.MonthlySnapshot{{Month: "2024-03", Current: 11, Goal: 12}},
				Subtasks:       []domain.Subtask{{ID: "s1", Text: "Draft"}},
				UpdatedAt:      now,
			}}},
			{Title: "Empty"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPlanRepo_CreateAndGet(t *testing.T) {
	repo, c := planTestSetup(t)
	ctx := context.Background()

	p := samplePlan(c.ID)
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, 1, p.Version)

	fetched, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Version)
	require.Len(t, fetched.Sections, 2)
	assert.NotNil(t, fetched.Sections[1].Tasks)

	task := fetched.Task("posts")
	require.NotNil(t, task)
	assert.Equal(t, domain.ProgressDoing, task.Progress)
	assert.Equal(t, 3, task.Current)
	assert.Equal(t, []domain.MonthlySnapshot{{Month: "2024-03", Current: 11, Goal: 12}}, task.MonthlyHistory)
	require.NotNil(t, task.DueDate)
	assert.True(t, p.Sections[0].Tasks[0].DueDate.Equal(*task.DueDate))
	assert.True(t, p.UpdatedAt.Equal(fetched.UpdatedAt))
}

func TestPlanRepo_Create_Duplicate(t *testing.T) {
	repo, c := planTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, samplePlan(c.ID)))
	assert.ErrorIs(t, repo.Create(ctx, samplePlan(c.ID)), ErrConflict)
}

func TestPlanRepo_Get_NotFound(t *testing.T) {
	repo, _ := planTestSetup(t)
	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_Save_IncrementsVersion(t *testing.T) {
	repo, c := planTestSetup(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, samplePlan(c.ID)))

	p, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	p.Task("posts").Notes = "reviewed"
	require.NoError(t, repo.Save(ctx, p))
	assert.Equal(t, 2, p.Version)

	fetched, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Version)
	assert.Equal(t, "reviewed", fetched.Task("posts").Notes)
}

func TestPlanRepo_Save_StaleVersionConflicts(t *testing.T) {
	repo, c := planTestSetup(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, samplePlan(c.ID)))

	first, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	second, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)

	first.Task("posts").Notes = "first writer"
	require.NoError(t, repo.Save(ctx, first))

	second.Task("posts").Notes = "second writer"
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ErrConflict)

	fetched, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", fetched.Task("posts").Notes)
}

func TestPlanRepo_Save_MissingPlan(t *testing.T) {
	repo, c := planTestSetup(t)
	p := samplePlan(c.ID)
	p.Version = 1
	assert.ErrorIs(t, repo.Save(context.Background(), p), ErrNotFound)
}

func TestPlanRepo_DeleteAndListCustomerIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	customers := NewSQLiteCustomerRepo(db)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	a := testutil.NewTestCustomer("A")
	b := testutil.NewTestCustomer("B")
	for _, c := range []*domain.Customer{a, b} {
		require.NoError(t, customers.Create(ctx, c))
		require.NoError(t, repo.Create(ctx, samplePlan(c.ID)))
	}

	ids, err := repo.ListCustomerIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	require.NoError(t, repo.Delete(ctx, a.ID))
	ids, err = repo.ListCustomerIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids)
}
