package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/planops/internal/domain"
	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/alexanderramin/planops/internal/repository"
	"golang.org/x/sync/errgroup"
)

type overviewService struct {
	customers repository.CustomerRepo
	plans     PlanService
	settings  Settings
	observer  UseCaseObserver
}

func NewOverviewService(customers repository.CustomerRepo, plans PlanService, settings Settings, observers ...UseCaseObserver) OverviewService {
	return &overviewService{
		customers: customers,
		plans:     plans,
		settings:  settings,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Overview summarizes the plan of every active paid customer. Plans are read
// through PlanService so missing plans are built and rollover is applied. A
// customer whose plan cannot be read gets an error row instead of failing the
// dashboard; only a canceled context aborts it.
func (s *overviewService) Overview(ctx context.Context) (overview *Overview, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "overview", time.Now(), fields, &err)

	customers, err := s.customers.List(ctx, repository.CustomerFilter{
		ActiveOnly:   true,
		CustomerType: domain.CustomerPaid,
	})
	if err != nil {
		return nil, err
	}

	now := s.settings.now()
	rows := make([]CustomerOverview, len(customers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.readConcurrency())
	for i, c := range customers {
		g.Go(func() error {
			plan, err := s.plans.GetPlan(gctx, c.ID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				rows[i] = CustomerOverview{Customer: c, Error: fmt.Sprintf("plan for %s: %v", c.StoreName, err)}
				return nil
			}
			rows[i] = CustomerOverview{Customer: c, Summary: planrules.Summarize(plan, now)}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	overview = &Overview{GeneratedAt: now, Customers: rows}
	for _, r := range rows {
		if r.Error != "" {
			overview.Failed++
			continue
		}
		addSummary(&overview.Totals, r.Summary)
	}
	if overview.Totals.Total > 0 {
		overview.Totals.CompletionPct = float64(overview.Totals.Done) / float64(overview.Totals.Total) * 100
	}
	fields["customers"] = len(rows)
	fields["failed"] = overview.Failed
	return overview, nil
}

func addSummary(dst *planrules.Summary, s planrules.Summary) {
	dst.Total += s.Total
	dst.ToDo += s.ToDo
	dst.Doing += s.Doing
	dst.Done += s.Done
	dst.Inactive += s.Inactive
	dst.Overdue += s.Overdue
	dst.DueSoon += s.DueSoon
	dst.MonthlyCurrent += s.MonthlyCurrent
	dst.MonthlyGoal += s.MonthlyGoal
}
