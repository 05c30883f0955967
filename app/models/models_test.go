package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/pkg/auth"
)

func TestNewUserDefaults(t *testing.T) {
	u := models.NewUser("  Ann ", " Ann@Example.COM ", "")

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, auth.RoleCustomer, u.Role)
}

func TestPasswordIsHashedOnce(t *testing.T) {
	u := models.NewUser("Ann", "ann@example.com", "")
	assert.ErrorIs(t, u.HashPendingPassword(), models.ErrNoPassword)

	u.SetPassword("s3cret!")
	require.NoError(t, u.HashPendingPassword())
	first := u.Password
	assert.NotEqual(t, "s3cret!", first)
	assert.True(t, u.CheckPassword("s3cret!"))

	// a second save without a new plaintext keeps the same hash
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, first, u.Password)
	assert.True(t, u.CheckPassword("s3cret!"))

	u.SetPassword("changed")
	require.NoError(t, u.HashPendingPassword())
	assert.NotEqual(t, first, u.Password)
	assert.False(t, u.CheckPassword("s3cret!"))
	assert.True(t, u.CheckPassword("changed"))
}

func TestIdentityExcludesPassword(t *testing.T) {
	u := models.NewUser("Ann", "ann@example.com", auth.RoleAdmin)
	u.Password = "hash"

	assert.Equal(t, auth.Identity{ID: u.ID, Name: "Ann", Email: "ann@example.com", Role: auth.RoleAdmin}, u.Identity())
}

func TestParseCategory(t *testing.T) {
	c, err := models.ParseCategory("main course")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMainCourse, c)

	_, err = models.ParseCategory("Soup")
	assert.ErrorIs(t, err, models.ErrInvalidCategory)
}

func TestComputeTotal(t *testing.T) {
	items := []models.LineItem{{Name: "a", Price: 5}, {Name: "b", Price: 3}}
	assert.Equal(t, 8.0, models.ComputeTotal(items))

	items = []models.LineItem{{Price: 0.1}, {Price: 0.2}}
	assert.Equal(t, 0.3, models.ComputeTotal(items))

	o := models.NewOrder("u-1", "Ann", []models.LineItem{{Name: "a", Price: 5}, {Name: "b", Price: 3}})
	assert.Equal(t, 8.0, o.Total)
	assert.Equal(t, models.StatusPending, o.Status)
}

func TestParseOrderStatus(t *testing.T) {
	for in, want := range map[string]models.OrderStatus{
		"Pending":     models.StatusPending,
		"preparing":   models.StatusPreparing,
		"COMPLETED":   models.StatusCompleted,
		" cancelled ": models.StatusCancelled,
	} {
		got, err := models.ParseOrderStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := models.ParseOrderStatus("Delivered")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.StatusPending, models.StatusPreparing, true},
		{models.StatusPending, models.StatusCompleted, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPreparing, models.StatusCompleted, true},
		{models.StatusPreparing, models.StatusCancelled, true},
		{models.StatusPreparing, models.StatusPending, false},
		{models.StatusCompleted, models.StatusPending, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPreparing, false},
		{models.StatusCompleted, models.StatusCompleted, true},
		{models.StatusCancelled, models.StatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
			if tt.ok {
				assert.NoError(t, tt.from.CheckTransition(tt.to))
			} else {
				assert.ErrorIs(t, tt.from.CheckTransition(tt.to), models.ErrInvalidTransition)
			}
		})
	}

	assert.ErrorIs(t, models.OrderStatus("Lost").CheckTransition(models.StatusPending), models.ErrInvalidStatus)
	assert.True(t, models.StatusCompleted.IsTerminal())
	assert.False(t, models.StatusPreparing.IsTerminal())
}
