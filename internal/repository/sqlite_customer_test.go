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

func TestCustomerRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCustomerRepo(db)
	ctx := context.Background()

	joined := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := testutil.NewTestCustomer("Fern & Loom",
		testutil.WithPackage(domain.PackageSocial),
		testutil.WithDateJoined(joined),
		testutil.WithEmail("owner@fernloom.test"),
	)
	require.NoError(t, repo.Create(ctx, c))

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fern & Loom", fetched.StoreName)
	assert.Equal(t, "owner@fernloom.test", fetched.Email)
	assert.Equal(t, domain.PackageSocial, fetched.PackageType)
	assert.Equal(t, domain.CustomerPaid, fetched.CustomerType)
	assert.Equal(t, joined, fetched.DateJoined)
	assert.True(t, fetched.IsActive)
	assert.True(t, c.CreatedAt.Equal(fetched.CreatedAt))
}

func TestCustomerRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteCustomerRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerRepo_List_Filters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCustomerRepo(db)
	ctx := context.Background()

	alpha := testutil.NewTestCustomer("Alpha Goods", testutil.WithPackage(domain.PackageGrowth))
	beta := testutil.NewTestCustomer("beta bakes", testutil.WithPackage(domain.PackageStarter), testutil.WithCustomerType(domain.CustomerFree))
	gamma := testutil.NewTestCustomer("Gamma Gear", testutil.WithPackage(domain.PackageGrowth), testutil.WithInactive())
	for _, c := range []*domain.Customer{gamma, beta, alpha} {
		require.NoError(t, repo.Create(ctx, c))
	}

	all, err := repo.List(ctx, CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, alpha.ID, all[0].ID, "ordered by store name, case-insensitive")
	assert.Equal(t, beta.ID, all[1].ID)

	active, err := repo.List(ctx, CustomerFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	paidGrowth, err := repo.List(ctx, CustomerFilter{
		CustomerType: domain.CustomerPaid,
		PackageTypes: []domain.PackageType{domain.PackageGrowth},
	})
	require.NoError(t, err)
	assert.Len(t, paidGrowth, 2)

	search, err := repo.List(ctx, CustomerFilter{Search: "bake"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, beta.ID, search[0].ID)
}

func TestCustomerRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCustomerRepo(db)
	ctx := context.Background()

	c := testutil.NewTestCustomer("Old Name")
	require.NoError(t, repo.Create(ctx, c))

	c.StoreName = "New Name"
	c.PackageType = domain.PackagePremium
	c.IsActive = false
	require.NoError(t, repo.Update(ctx, c))

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", fetched.StoreName)
	assert.Equal(t, domain.PackagePremium, fetched.PackageType)
	assert.False(t, fetched.IsActive)

	missing := testutil.NewTestCustomer("Ghost")
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestCustomerRepo_Delete_CascadesPlan(t *testing.T) {
	db := testutil.NewTestDB(t)
	customers := NewSQLiteCustomerRepo(db)
	plans := NewSQLitePlanRepo(db)
	ctx := context.Background()

	c := testutil.NewTestCustomer("Doomed")
	require.NoError(t, customers.Create(ctx, c))
	require.NoError(t, plans.Create(ctx, &domain.Plan{CustomerID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.CreatedAt}))

	require.NoError(t, customers.Delete(ctx, c.ID))

	_, err := plans.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, customers.Delete(ctx, c.ID), ErrNotFound)
}
