package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/planops/internal/repository"
)

// resolveCustomerID accepts a full id, a unique id prefix or an exact store
// name (case-insensitive).
func resolveCustomerID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("customer is required")
	}

	customers, err := app.Customers.List(ctx, repository.CustomerFilter{})
	if err != nil {
		return "", err
	}

	for _, c := range customers {
		if c.ID == input {
			return c.ID, nil
		}
	}
	for _, c := range customers {
		if strings.EqualFold(c.StoreName, input) {
			return c.ID, nil
		}
	}

	var matches []string
	for _, c := range customers {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("customer not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("customer ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTaskID matches a task by full id, unique id prefix or exact name
// within the customer's plan.
func resolveTaskID(ctx context.Context, app *App, customerID, input string) (string, error) {
	plan, err := app.Plans.GetPlan(ctx, customerID)
	if err != nil {
		return "", err
	}
	tasks := plan.AllTasks()

	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
	}
	for _, t := range tasks {
		if strings.EqualFold(t.Task, input) {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
