package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/labstack/echo/v4"
)

// TaskRequest is the full task payload for create and update. Update replaces
// every editable field with what is sent.
type TaskRequest struct {
	Task                string            `json:"task"`
	Frequency           domain.Frequency  `json:"frequency"`
	Progress            domain.Progress   `json:"progress"`
	IsActive            *bool             `json:"is_active,omitempty"`
	Order               int               `json:"order"`
	DaysAfterJoin       int               `json:"days_after_join"`
	MonthlyDueDate      *int              `json:"monthly_due_date,omitempty"`
	DueDate             string            `json:"due_date,omitempty"` // YYYY-MM-DD
	RequiresGoal        bool              `json:"requires_goal"`
	Current             int               `json:"current"`
	Goal                int               `json:"goal"`
	Subtasks            []domain.Subtask  `json:"subtasks,omitempty"`
	AssignedTeamMembers []string          `json:"assigned_team_members,omitempty"`
	Files               []domain.TaskFile `json:"files,omitempty"`
	Notes               string            `json:"notes,omitempty"`
}

func (r TaskRequest) toDomain(id string) (*domain.PlanTask, error) {
	t := &domain.PlanTask{
		ID:                  id,
		Task:                r.Task,
		Frequency:           r.Frequency,
		Progress:            r.Progress,
		IsActive:            domain.BoolFromPtrWithDefault(true, r.IsActive),
		Order:               r.Order,
		DaysAfterJoin:       r.DaysAfterJoin,
		MonthlyDueDate:      r.MonthlyDueDate,
		RequiresGoal:        r.RequiresGoal,
		Current:             r.Current,
		Goal:                r.Goal,
		Subtasks:            r.Subtasks,
		AssignedTeamMembers: r.AssignedTeamMembers,
		Files:               r.Files,
		Notes:               r.Notes,
	}
	if r.DueDate != "" {
		d, err := time.Parse(domain.DateLayout, r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("due_date must be YYYY-MM-DD: %w", domain.ErrInvalid)
		}
		t.DueDate = &d
	}
	return t, nil
}

// taskFilter reads the task view query: progress (repeatable), section,
// frequency, assignee, q, active, overdue, due_within.
func taskFilter(c echo.Context) (planrules.TaskFilter, error) {
	f := planrules.TaskFilter{
		Section:   c.QueryParam("section"),
		Frequency: domain.Frequency(c.QueryParam("frequency")),
		Assignee:  c.QueryParam("assignee"),
		Search:    c.QueryParam("q"),
	}
	for _, p := range c.QueryParams()["progress"] {
		if !domain.ValidProgress[domain.Progress(p)] {
			return f, fmt.Errorf("progress %q is not one of To Do, Doing, Done: %w", p, domain.ErrInvalid)
		}
		f.Progress = append(f.Progress, domain.Progress(p))
	}
	var err error
	if f.ActiveOnly, err = boolParam(c, "active"); err != nil {
		return f, err
	}
	if f.OverdueOnly, err = boolParam(c, "overdue"); err != nil {
		return f, err
	}
	if v := c.QueryParam("due_within"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return f, fmt.Errorf("due_within must be a non-negative number of days: %w", domain.ErrInvalid)
		}
		f.DueWithinDays = &days
	}
	return f, nil
}

func boolParam(c echo.Context, name string) (bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", name, domain.ErrInvalid)
	}
	return b, nil
}

func (s *Server) getPlan(c echo.Context) error {
	plan, err := s.services.Plans.GetPlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

func (s *Server) listTasks(c echo.Context) error {
	f, err := taskFilter(c)
	if err != nil {
		return err
	}
	tasks, err := s.services.Plans.ListTasks(c.Request().Context(), c.Param("id"), f)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []*domain.PlanTask{}
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	t, err := req.toDomain("")
	if err != nil {
		return err
	}
	task, err := s.services.Plans.CreateTask(c.Request().Context(), c.Param("id"), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	t, err := req.toDomain(c.Param("taskID"))
	if err != nil {
		return err
	}
	task, err := s.services.Plans.UpdateTask(c.Request().Context(), c.Param("id"), t)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c echo.Context) error {
	if err := s.services.Plans.DeleteTask(c.Request().Context(), c.Param("id"), c.Param("taskID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) toggleSubtask(c echo.Context) error {
	task, err := s.services.Plans.ToggleSubtask(c.Request().Context(), c.Param("id"), c.Param("taskID"), c.Param("subtaskID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// CounterRequest adjusts a recurring task's current counter.
type CounterRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) adjustCounter(c echo.Context) error {
	var req CounterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	task, err := s.services.Plans.AdjustCounter(c.Request().Context(), c.Param("id"), c.Param("taskID"), req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) rolloverAll(c echo.Context) error {
	res, err := s.services.Plans.RolloverAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) overview(c echo.Context) error {
	o, err := s.services.Overview.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}
