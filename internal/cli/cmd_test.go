package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/planops/internal/cli/formatter"
	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/repository"
	"github.com/alexanderramin/planops/internal/service"
	"github.com/alexanderramin/planops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	formatter.DisableColor()
	os.Exit(m.Run())
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	customers := repository.NewSQLiteCustomerRepo(database)
	plans := repository.NewSQLitePlanRepo(database)
	catalogs := repository.NewSQLiteCatalogRepo(database)
	uow := testutil.NewTestUoW(database)
	settings := service.Settings{BatchSize: 100, ReadConcurrency: 2}

	planSvc := service.NewPlanService(customers, plans, catalogs, settings)
	return &App{
		Customers: service.NewCustomerService(customers, uow),
		Plans:     planSvc,
		Rules:     service.NewRuleService(customers, plans, catalogs, uow, settings),
		Overview:  service.NewOverviewService(customers, planSvc, settings),
		Actor:     "cli@agency.test",
	}
}

// seedSocialCustomer stores a social catalog and a customer on that package.
func seedSocialCustomer(t *testing.T, app *App) *domain.Customer {
	t.Helper()
	ctx := service.WithActor(context.Background(), app.Actor)

	catalog := testutil.NewTestCatalog("social",
		testutil.NewTestRule("Setup", "Connect Instagram", testutil.WithRuleID("connect-ig"), testutil.WithOneTime(1),
			testutil.WithSubtasks("Log in", "Link shop")),
		testutil.NewTestRule("Social", "Instagram posts", testutil.WithRuleID("posts"), testutil.WithMonthly(15),
			testutil.WithDefaultGoal(12)),
	)
	require.NoError(t, app.Rules.SaveCatalog(ctx, catalog))

	c := testutil.NewTestCustomer("Bloom Boutique", testutil.WithPackage(domain.PackageSocial))
	require.NoError(t, app.Customers.Create(ctx, c))
	return c
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- Root ---

func TestRootCmd_SetupErrorStopsCommand(t *testing.T) {
	app := testApp(t)
	app.Setup = func(ctx context.Context, configPath string) error {
		assert.Equal(t, "planops.yaml", configPath)
		return errors.New("boom")
	}

	_, err := executeCmd(t, app, "--config", "planops.yaml", "overview")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting planops: boom")
}

func TestRootCmd_ActorFlagOverridesDefault(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)

	_, err := executeCmd(t, app, "--actor", "dana@agency.test", "customer", "list")
	require.NoError(t, err)
	assert.Equal(t, "dana@agency.test", app.Actor)
}

func TestServeCmd_NotConfigured(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestTokenCmd(t *testing.T) {
	app := testApp(t)
	app.IssueToken = func(email string, ttl time.Duration) (string, error) {
		assert.Equal(t, "maria@agency.test", email)
		assert.Equal(t, time.Hour, ttl)
		return "signed-token", nil
	}

	out, err := executeCmd(t, app, "token", "--email", "maria@agency.test", "--ttl", "1h")
	require.NoError(t, err)
	assert.Equal(t, "signed-token\n", out)

	_, err = executeCmd(t, app, "token")
	assert.Error(t, err)
}

// --- Customers ---

func TestCustomerCmd_Lifecycle(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "customer", "add", "--store", "Corner Cafe", "--package", "Growth", "--joined", "2024-02-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Created customer Corner Cafe")

	out, err = executeCmd(t, app, "customer", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Corner Cafe")
	assert.Contains(t, out, "Growth")
	assert.Contains(t, out, "2024-02-01")

	out, err = executeCmd(t, app, "customer", "update", "corner cafe", "--active=false", "--package", "Premium")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated customer Corner Cafe")

	list, err := app.Customers.List(context.Background(), repository.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)
	assert.Equal(t, domain.PackagePremium, list[0].PackageType)

	out, err = executeCmd(t, app, "customer", "list", "--active")
	require.NoError(t, err)
	assert.Contains(t, out, "No customers found.")

	_, err = executeCmd(t, app, "customer", "remove", list[0].ID[:8])
	require.NoError(t, err)
	_, err = app.Customers.GetByID(context.Background(), list[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerCmd_AddRejectsBadInput(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "customer", "add", "--store", "X", "--joined", "03/01/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid join date")

	_, err = executeCmd(t, app, "customer", "add", "--store", "X", "--package", "Gold")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestCustomerCmd_ListFiltersByPackage(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)
	ctx := context.Background()
	require.NoError(t, app.Customers.Create(ctx, testutil.NewTestCustomer("Other Shop")))

	out, err := executeCmd(t, app, "customer", "list", "--package", "social")
	require.NoError(t, err)
	assert.Contains(t, out, "Bloom Boutique")
	assert.NotContains(t, out, "Other Shop")

	_, err = executeCmd(t, app, "customer", "list", "--package", "Gold")
	assert.Error(t, err)
}

func TestResolveCustomerID(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	a := testutil.NewTestCustomer("Alpha")
	a.ID = "abc11111-0000-0000-0000-000000000000"
	b := testutil.NewTestCustomer("Beta")
	b.ID = "abc22222-0000-0000-0000-000000000000"
	require.NoError(t, app.Customers.Create(ctx, a))
	require.NoError(t, app.Customers.Create(ctx, b))

	id, err := resolveCustomerID(ctx, app, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	id, err = resolveCustomerID(ctx, app, "abc2")
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)

	id, err = resolveCustomerID(ctx, app, "alpha")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = resolveCustomerID(ctx, app, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveCustomerID(ctx, app, "zzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// --- Plans and tasks ---

func TestPlanCmd_ShowMaterializesPlan(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)

	out, err := executeCmd(t, app, "plan", "show", "Bloom Boutique")
	require.NoError(t, err)
	assert.Contains(t, out, "Setup")
	assert.Contains(t, out, "Connect Instagram")
	assert.Contains(t, out, "Instagram posts")
	assert.Contains(t, out, "0/12")
}

func TestPlanCmd_ShowFiltered(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)

	out, err := executeCmd(t, app, "plan", "show", "Bloom Boutique", "--section", "Social")
	require.NoError(t, err)
	assert.Contains(t, out, "Instagram posts")
	assert.NotContains(t, out, "Connect Instagram")

	_, err = executeCmd(t, app, "plan", "show", "Bloom Boutique", "--progress", "Blocked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not one of")
}

func TestPlanCmd_TaskDetail(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)

	out, err := executeCmd(t, app, "plan", "task", "Bloom Boutique", "connect-ig")
	require.NoError(t, err)
	assert.Contains(t, out, "Connect Instagram")
	assert.Contains(t, out, "Log in")
	assert.Contains(t, out, "Link shop")
}

func TestTaskCmd_AddAndRemove(t *testing.T) {
	app := testApp(t)
	c := seedSocialCustomer(t, app)

	out, err := executeCmd(t, app, "task", "add", "Bloom Boutique", "Holiday banner",
		"--due", "2024-12-01", "--assign", "Dana", "--subtask", "Draft", "--subtask", "Approve")
	require.NoError(t, err)
	assert.Contains(t, out, `Added task "Holiday banner"`)

	plan, err := app.Plans.GetPlan(context.Background(), c.ID)
	require.NoError(t, err)
	other := plan.Section(domain.OtherTasksSection)
	require.NotNil(t, other)
	require.Len(t, other.Tasks, 1)
	task := other.Tasks[0]
	assert.Equal(t, domain.OriginCustom, task.Origin)
	assert.Equal(t, []string{"Dana"}, task.AssignedTeamMembers)
	assert.Len(t, task.Subtasks, 2)
	assert.Equal(t, "cli@agency.test", task.CreatedBy)

	_, err = executeCmd(t, app, "task", "rm", "Bloom Boutique", "holiday banner")
	require.NoError(t, err)

	plan, err = app.Plans.GetPlan(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Nil(t, plan.Section(domain.OtherTasksSection))
}

func TestTaskCmd_ProgressCounterToggle(t *testing.T) {
	app := testApp(t)
	c := seedSocialCustomer(t, app)

	out, err := executeCmd(t, app, "task", "progress", "Bloom Boutique", "connect-ig", "done")
	require.NoError(t, err)
	assert.Contains(t, out, "Connect Instagram → Done")

	out, err = executeCmd(t, app, "task", "counter", "Bloom Boutique", "posts", "--delta", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Instagram posts: 3/12")

	out, err = executeCmd(t, app, "task", "toggle", "Bloom Boutique", "connect-ig", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Link shop")

	plan, err := app.Plans.GetPlan(context.Background(), c.ID)
	require.NoError(t, err)
	task := plan.Task("connect-ig")
	assert.Equal(t, domain.ProgressDone, task.Progress)
	assert.NotNil(t, task.CompletedDate)
	assert.True(t, task.Subtasks[1].Completed)
	assert.Equal(t, "cli@agency.test", task.Subtasks[1].CompletedBy)

	_, err = executeCmd(t, app, "task", "counter", "Bloom Boutique", "connect-ig")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = executeCmd(t, app, "task", "progress", "Bloom Boutique", "connect-ig", "Blocked")
	assert.Error(t, err)
}

func TestParseProgress(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Progress
	}{
		{"To Do", domain.ProgressToDo},
		{"todo", domain.ProgressToDo},
		{"DOING", domain.ProgressDoing},
		{"done", domain.ProgressDone},
	}
	for _, tt := range tests {
		got, err := parseProgress(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := parseProgress("later")
	assert.Error(t, err)
}

func TestPlanCmd_Rollover(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)
	_, err := executeCmd(t, app, "plan", "show", "Bloom Boutique")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "rollover")
	require.NoError(t, err)
	assert.Contains(t, out, "Checked 1 plans, rolled over 0")
}

// --- Catalogs and rules ---

func TestCatalogCmd_ListAndShow(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)

	out, err := executeCmd(t, app, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "social")
	assert.Contains(t, out, "cli@agency.test")
	assert.Contains(t, out, "using default for:")

	out, err = executeCmd(t, app, "catalog", "show", "social")
	require.NoError(t, err)
	assert.Contains(t, out, "Connect Instagram")
	assert.Contains(t, out, "Instagram posts")

	_, err = executeCmd(t, app, "catalog", "show", "gold")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogCmd_Import(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "growth.yaml")
	content := `package: Growth
sections: [Launch]
rules:
  - id: launch-site
    task: Launch website
    section: Launch
    frequency: one time
    days_after_join: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := executeCmd(t, app, "catalog", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported catalog growth: 1 sections, 1 rules")

	_, err = executeCmd(t, app, "catalog", "import", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRuleCmd_ApplyAndRemove(t *testing.T) {
	app := testApp(t)
	c := seedSocialCustomer(t, app)
	ctx := service.WithActor(context.Background(), app.Actor)
	_, err := app.Plans.GetPlan(ctx, c.ID)
	require.NoError(t, err)

	rule := testutil.NewTestRule("Social", "Story highlights", testutil.WithRuleID("stories"), testutil.WithAsNeeded())
	_, err = app.Rules.UpsertRule(ctx, "social", rule)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "rule", "apply", "social", "stories")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied rule stories in catalog social")
	assert.Contains(t, out, "1 inserted")

	plan, err := app.Plans.GetPlan(ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, plan.Task("stories"))

	out, err = executeCmd(t, app, "rule", "remove", "social", "stories")
	require.NoError(t, err)
	assert.Contains(t, out, "1 removed")

	out, err = executeCmd(t, app, "rule", "delete", "social", "stories")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted rule stories from social (2 rules left)")

	_, err = executeCmd(t, app, "rule", "apply", "social", "stories")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- Overview ---

func TestOverviewCmd(t *testing.T) {
	app := testApp(t)
	seedSocialCustomer(t, app)

	out, err := executeCmd(t, app, "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "Bloom Boutique")
	assert.Contains(t, out, "TOTAL")
}
