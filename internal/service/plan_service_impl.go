package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/alexanderramin/planops/internal/repository"
	"github.com/google/uuid"
)

type planService struct {
	customers repository.CustomerRepo
	plans     repository.PlanRepo
	catalogs  repository.CatalogRepo
	settings  Settings
	observer  UseCaseObserver
}

func NewPlanService(
	customers repository.CustomerRepo,
	plans repository.PlanRepo,
	catalogs repository.CatalogRepo,
	settings Settings,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		customers: customers,
		plans:     plans,
		catalogs:  catalogs,
		settings:  settings,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// GetPlan returns the customer's plan, building it from the rule catalog on
// first access and persisting any monthly rollover.
func (s *planService) GetPlan(ctx context.Context, customerID string) (*domain.Plan, error) {
	_, plan, rolled, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !rolled {
		return plan, nil
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("saving rolled over plan: %w", err)
		}
		// Another writer saved first; its copy already carries the rollover
		// or will on the next read.
		plan, err = s.plans.Get(ctx, customerID)
		if err != nil {
			return nil, err
		}
		planrules.RolloverIfNeeded(plan, s.settings.now(), s.settings.DuePolicy)
	}
	return plan, nil
}

func (s *planService) ListTasks(ctx context.Context, customerID string, f planrules.TaskFilter) ([]*domain.PlanTask, error) {
	plan, err := s.GetPlan(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return planrules.FilterTasks(plan, f, s.settings.now()), nil
}

// CreateTask adds a staff-authored task under Other Tasks.
func (s *planService) CreateTask(ctx context.Context, customerID string, t *domain.PlanTask) (task *domain.PlanTask, err error) {
	fields := map[string]any{"customer_id": customerID}
	defer observe(ctx, s.observer, "create-task", time.Now(), fields, &err)

	if t == nil {
		return nil, fmt.Errorf("task payload is required: %w", domain.ErrInvalid)
	}
	t.Task = strings.TrimSpace(t.Task)
	if t.Progress == "" {
		t.Progress = domain.ProgressToDo
	}
	if err = t.Validate(); err != nil {
		return nil, err
	}

	actor := ActorFrom(ctx)
	err = s.mutate(ctx, customerID, func(c *domain.Customer, plan *domain.Plan, now time.Time) error {
		t.ID = uuid.New().String()
		t.Origin = domain.OriginCustom
		t.Section = domain.OtherTasksSection
		t.IsActive = true
		t.MonthlyHistory = nil
		t.Subtasks = assignSubtaskIDs(t.Subtasks)
		if t.DueDate == nil {
			t.DueDate = planrules.TaskDueDate(c, t, now, s.settings.DuePolicy)
		}
		t.CompletedDate = nil
		t.SetProgress(t.Progress, now)
		t.CreatedBy = actor
		t.CreatedAt = now
		t.UpdatedBy = actor
		t.UpdatedAt = now

		section := plan.EnsureSection(domain.OtherTasksSection)
		section.Tasks = append(section.Tasks, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["task_id"] = t.ID
	return t, nil
}

// UpdateTask replaces a task with the payload, keeping its identity, origin,
// section, creation stamps and archived monthly history.
func (s *planService) UpdateTask(ctx context.Context, customerID string, t *domain.PlanTask) (task *domain.PlanTask, err error) {
	fields := map[string]any{"customer_id": customerID}
	defer observe(ctx, s.observer, "update-task", time.Now(), fields, &err)

	if t == nil || t.ID == "" {
		return nil, fmt.Errorf("task id is required: %w", domain.ErrInvalid)
	}
	fields["task_id"] = t.ID
	t.Task = strings.TrimSpace(t.Task)
	if t.Progress == "" {
		t.Progress = domain.ProgressToDo
	}
	if err = t.Validate(); err != nil {
		return nil, err
	}

	actor := ActorFrom(ctx)
	err = s.mutate(ctx, customerID, func(c *domain.Customer, plan *domain.Plan, now time.Time) error {
		si, ti, ok := plan.FindTask(t.ID)
		if !ok {
			return fmt.Errorf("task %s: %w", t.ID, domain.ErrNotFound)
		}
		existing := plan.Sections[si].Tasks[ti]

		t.Origin = existing.Origin
		t.Section = existing.Section
		t.CreatedBy = existing.CreatedBy
		t.CreatedAt = existing.CreatedAt
		t.MonthlyHistory = existing.MonthlyHistory
		t.Subtasks = assignSubtaskIDs(t.Subtasks)
		if t.DueDate == nil {
			t.DueDate = planrules.TaskDueDate(c, t, now, s.settings.DuePolicy)
		}
		if t.CompletedDate == nil {
			t.CompletedDate = existing.CompletedDate
		}
		t.SetProgress(t.Progress, now)
		t.UpdatedBy = actor
		t.UpdatedAt = now

		plan.Sections[si].Tasks[ti] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTask removes a task. An emptied Other Tasks section is dropped.
func (s *planService) DeleteTask(ctx context.Context, customerID, taskID string) (err error) {
	defer observe(ctx, s.observer, "delete-task", time.Now(), map[string]any{"customer_id": customerID, "task_id": taskID}, &err)

	return s.mutate(ctx, customerID, func(_ *domain.Customer, plan *domain.Plan, _ time.Time) error {
		if !plan.RemoveTask(taskID) {
			return fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
		}
		plan.RemoveSection(domain.OtherTasksSection)
		return nil
	})
}

func (s *planService) ToggleSubtask(ctx context.Context, customerID, taskID, subtaskID string) (task *domain.PlanTask, err error) {
	defer observe(ctx, s.observer, "toggle-subtask", time.Now(), map[string]any{"customer_id": customerID, "task_id": taskID}, &err)

	actor := ActorFrom(ctx)
	err = s.mutate(ctx, customerID, func(_ *domain.Customer, plan *domain.Plan, now time.Time) error {
		task = plan.Task(taskID)
		if task == nil {
			return fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
		}
		for i := range task.Subtasks {
			st := &task.Subtasks[i]
			if st.ID != subtaskID {
				continue
			}
			st.Completed = !st.Completed
			if st.Completed {
				at := now
				st.CompletedAt = &at
				st.CompletedBy = actor
			} else {
				st.CompletedAt = nil
				st.CompletedBy = ""
			}
			task.UpdatedBy = actor
			task.UpdatedAt = now
			return nil
		}
		return fmt.Errorf("subtask %s: %w", subtaskID, domain.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AdjustCounter adds delta to a recurring task's current counter, stopping at zero.
func (s *planService) AdjustCounter(ctx context.Context, customerID, taskID string, delta int) (task *domain.PlanTask, err error) {
	defer observe(ctx, s.observer, "adjust-counter", time.Now(), map[string]any{"customer_id": customerID, "task_id": taskID, "delta": delta}, &err)

	actor := ActorFrom(ctx)
	err = s.mutate(ctx, customerID, func(_ *domain.Customer, plan *domain.Plan, now time.Time) error {
		task = plan.Task(taskID)
		if task == nil {
			return fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
		}
		if !task.Frequency.Recurring() && !task.RequiresGoal {
			return fmt.Errorf("task %s has no counter: %w", taskID, domain.ErrInvalid)
		}
		task.Current = max(task.Current+delta, 0)
		task.UpdatedBy = actor
		task.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// RolloverAll applies the monthly rollover to every stored plan. Plans that
// change concurrently are left for their next read.
func (s *planService) RolloverAll(ctx context.Context) (result *RolloverResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "rollover-all", time.Now(), fields, &err)

	ids, err := s.plans.ListCustomerIDs(ctx)
	if err != nil {
		return nil, err
	}
	result = &RolloverResult{}
	now := s.settings.now()
	for _, id := range ids {
		plan, err := s.plans.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		result.Checked++
		if !planrules.RolloverIfNeeded(plan, now, s.settings.DuePolicy) {
			continue
		}
		if err := s.plans.Save(ctx, plan); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			return nil, err
		}
		result.RolledOver++
	}
	fields["checked"] = result.Checked
	fields["rolled_over"] = result.RolledOver
	return result, nil
}

// load fetches the customer and plan, materializing a missing plan and
// applying rollover in memory. rolled reports whether rollover changed it.
func (s *planService) load(ctx context.Context, customerID string) (*domain.Customer, *domain.Plan, bool, error) {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, nil, false, err
	}
	now := s.settings.now()

	plan, err := s.plans.Get(ctx, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		plan, err = s.materialize(ctx, c, now)
	}
	if err != nil {
		return nil, nil, false, err
	}
	rolled := planrules.RolloverIfNeeded(plan, now, s.settings.DuePolicy)
	return c, plan, rolled, nil
}

func (s *planService) materialize(ctx context.Context, c *domain.Customer, now time.Time) (*domain.Plan, error) {
	catalog, err := resolveCatalog(ctx, s.catalogs, c.PackageType)
	if err != nil {
		return nil, err
	}
	plan, err := planrules.MaterializePlan(c, catalog, ActorFrom(ctx), now, s.settings.DuePolicy)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.plans.Get(ctx, c.ID)
		}
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "materialize-plan",
		StartedAt: now,
		Success:   true,
		Fields:    map[string]any{"customer_id": c.ID, "catalog_id": catalog.ID, "tasks": len(plan.AllTasks())},
	})
	return plan, nil
}

// mutate runs fn against the current plan and saves the result. A plan changed
// by someone else in between yields domain.ErrConflict.
func (s *planService) mutate(ctx context.Context, customerID string, fn func(c *domain.Customer, plan *domain.Plan, now time.Time) error) error {
	c, plan, _, err := s.load(ctx, customerID)
	if err != nil {
		return err
	}
	now := s.settings.now()
	if err := fn(c, plan, now); err != nil {
		return err
	}
	plan.UpdatedAt = now
	return s.plans.Save(ctx, plan)
}

func assignSubtaskIDs(subtasks []domain.Subtask) []domain.Subtask {
	for i := range subtasks {
		if subtasks[i].ID == "" {
			subtasks[i].ID = uuid.New().String()
		}
	}
	return subtasks
}
