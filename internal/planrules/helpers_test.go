package planrules

import (
	"time"

	"github.com/alexanderramin/planops/internal/domain"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(d time.Time) *time.Time { return &d }

func testCustomer(joined time.Time) *domain.Customer {
	return &domain.Customer{
		ID:           "cust-1",
		StoreName:    "Fern & Loom",
		PackageType:  domain.PackageSocial,
		CustomerType: domain.CustomerPaid,
		DateJoined:   joined,
		IsActive:     true,
	}
}

func testCatalog() *domain.RuleCatalog {
	return &domain.RuleCatalog{
		ID:       "social",
		Sections: []string{"Setup", "Listings", "Social"},
		Tasks: []domain.PlanTaskRule{
			{ID: "r-shop", Task: "Open shop", Section: "Setup", Frequency: domain.FrequencyOneTime, DaysAfterJoin: 3, Order: 1},
			{ID: "r-posts", Task: "Instagram posts", Section: "Social", Frequency: domain.FrequencyMonthly, MonthlyDueDate: intPtr(15), RequiresGoal: true, DefaultGoal: intPtr(12), Order: 1},
			{ID: "r-banner", Task: "Design banner", Section: "Setup", Frequency: domain.FrequencyOneTime, DaysAfterJoin: 7, Order: 2,
				Subtasks: []domain.SubtaskTemplate{{ID: "s1", Text: "Draft"}, {ID: "s2", Text: "Approve"}}},
			{ID: "r-listings", Task: "Optimize listings", Section: "Listings", Frequency: domain.FrequencyAsNeeded, DefaultGoal: intPtr(20), DefaultCurrent: intPtr(2), Order: 1},
		},
	}
}
