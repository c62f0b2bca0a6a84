package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/planops/internal/db"
	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/alexanderramin/planops/internal/repository"
	"github.com/alexanderramin/planops/internal/testutil"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	db        *sql.DB
	customers *repository.SQLiteCustomerRepo
	plans     *repository.SQLitePlanRepo
	catalogs  *repository.SQLiteCatalogRepo
	uow       db.UnitOfWork
	clock     *testClock
	settings  Settings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := &testClock{now: date(2024, 3, 10).Add(9 * time.Hour)}
	return &testEnv{
		db:        database,
		customers: repository.NewSQLiteCustomerRepo(database),
		plans:     repository.NewSQLitePlanRepo(database),
		catalogs:  repository.NewSQLiteCatalogRepo(database),
		uow:       testutil.NewTestUoW(database),
		clock:     clock,
		settings: Settings{
			DuePolicy:       planrules.DueCurrentMonth,
			BatchSize:       500,
			ReadConcurrency: 4,
			Now:             clock.Now,
		},
	}
}

func (e *testEnv) planService(observers ...UseCaseObserver) PlanService {
	return NewPlanService(e.customers, e.plans, e.catalogs, e.settings, observers...)
}

func (e *testEnv) ruleService(observers ...UseCaseObserver) RuleService {
	return e.ruleServiceWithUoW(e.uow, observers...)
}

func (e *testEnv) ruleServiceWithUoW(uow db.UnitOfWork, observers ...UseCaseObserver) RuleService {
	return NewRuleService(e.customers, e.plans, e.catalogs, uow, e.settings, observers...)
}

func (e *testEnv) addCustomer(t *testing.T, storeName string, opts ...testutil.CustomerOption) *domain.Customer {
	t.Helper()
	c := testutil.NewTestCustomer(storeName, opts...)
	require.NoError(t, e.customers.Create(context.Background(), c))
	return c
}

func (e *testEnv) addCatalog(t *testing.T, c *domain.RuleCatalog) {
	t.Helper()
	require.NoError(t, e.catalogs.Save(context.Background(), c))
}

// socialCatalog mirrors the Social package onboarding: setup tasks keyed off
// the join date plus a monthly posting goal.
func socialCatalog() *domain.RuleCatalog {
	return &domain.RuleCatalog{
		ID:       "social",
		Sections: []string{"Setup", "Social"},
		Tasks: []domain.PlanTaskRule{
			{ID: "connect-ig", Task: "Connect Instagram", Section: "Setup", Frequency: domain.FrequencyOneTime, DaysAfterJoin: 1, Order: 1,
				Subtasks: []domain.SubtaskTemplate{{ID: "login", Text: "Log in"}, {ID: "link", Text: "Link shop"}}},
			{ID: "bio", Task: "Write bio", Section: "Setup", Frequency: domain.FrequencyOneTime, DaysAfterJoin: 3, Order: 2},
			{ID: "posts", Task: "Instagram posts", Section: "Social", Frequency: domain.FrequencyMonthly, MonthlyDueDate: intPtr(15),
				RequiresGoal: true, DefaultGoal: intPtr(12), Order: 1},
		},
	}
}

func defaultCatalog() *domain.RuleCatalog {
	return &domain.RuleCatalog{
		ID:       domain.DefaultCatalogID,
		Sections: []string{"Onboarding"},
		Tasks: []domain.PlanTaskRule{
			{ID: "welcome", Task: "Welcome call", Section: "Onboarding", Frequency: domain.FrequencyOneTime, DaysAfterJoin: 2, Order: 1},
		},
	}
}

func actorCtx() context.Context {
	return WithActor(context.Background(), "maria@agency.test")
}
