//go:build integration
// +build integration

package repository_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"counsel_hub/internal/common"
	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/domain/repository"
	"counsel_hub/internal/platform/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupTestDB starts PostgreSQL in a container and applies the migrations.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("counsel_hub_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.Connect(ctx, connStr, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool, zap.NewNop()))
	// running twice must be harmless
	require.NoError(t, database.Migrate(ctx, pool, zap.NewNop()))
	return pool
}

func seedAccount(t *testing.T, repo repository.AdminRepository, email, role string) *model.Admin {
	t.Helper()
	a := &model.Admin{ID: uuid.NewString(), Name: "N " + email, Email: email, HashedPassword: "x", Role: role}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestPgRepositories(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	admins := repository.NewPgAdminRepository(pool)
	blogs := repository.NewPgBlogRepository(pool)
	appts := repository.NewPgAppointmentRepository(pool)

	admin := seedAccount(t, admins, "admin@example.com", model.RoleAdmin)
	client := seedAccount(t, admins, "client@example.com", model.RoleUser)

	t.Run("admin email unique", func(t *testing.T) {
		err := admins.Create(ctx, &model.Admin{ID: uuid.NewString(), Email: "admin@example.com", HashedPassword: "x", Role: model.RoleUser})
		assert.True(t, errors.Is(err, common.ErrConflict))

		_, err = admins.FindByID(ctx, uuid.NewString())
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("blog crud and list", func(t *testing.T) {
		b := &model.Blog{ID: uuid.NewString(), Title: "First", Slug: "first", Content: "c", AuthorID: admin.ID, Tags: []string{"health"}}
		require.NoError(t, blogs.Create(ctx, b))
		b2 := &model.Blog{ID: uuid.NewString(), Title: "Second", Slug: "second", Content: "c", AuthorID: admin.ID, Tags: []string{"general"}, IsPublished: true}
		require.NoError(t, blogs.Create(ctx, b2))

		b.Image = &model.BlogImage{PublicID: "blog_images/1", URL: "https://img/1"}
		require.NoError(t, blogs.Update(ctx, b))
		got, err := blogs.FindByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Image)
		assert.Equal(t, "blog_images/1", got.Image.PublicID)

		values, _ := url.ParseQuery("tags=health&select=title")
		opts, err := query.Parse(values, repository.BlogQuerySchema)
		require.NoError(t, err)
		list, total, err := blogs.List(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "First", list[0].Title)

		values, _ = url.ParseQuery("isPublished=true")
		opts, err = query.Parse(values, repository.BlogQuerySchema)
		require.NoError(t, err)
		_, total, err = blogs.List(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		require.NoError(t, blogs.Delete(ctx, b.ID))
		assert.True(t, errors.Is(blogs.Delete(ctx, b.ID), common.ErrNotFound))
	})

	t.Run("blog check constraints", func(t *testing.T) {
		b := &model.Blog{ID: uuid.NewString(), Title: "T", Slug: "t", Content: "c", AuthorID: admin.ID, Tags: []string{}}
		err := blogs.Create(ctx, b)
		assert.True(t, errors.Is(err, common.ErrValidation), "empty tag set rejected by the store")
	})

	t.Run("slot unique under concurrency", func(t *testing.T) {
		date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := appts.Create(ctx, &model.Appointment{
					ID: uuid.NewString(), UserID: client.ID, CounselorID: admin.ID,
					Type: model.AppointmentShort, Date: date, Time: "10:00", Status: model.StatusPending,
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, common.ErrSlotTaken):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, conflicts)

		taken, err := appts.SlotTaken(ctx, model.Slot{CounselorID: admin.ID, Date: date, Time: "10:00"}, "")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("appointment summaries and delete", func(t *testing.T) {
		a := &model.Appointment{
			ID: uuid.NewString(), UserID: client.ID, CounselorID: admin.ID,
			Type: model.AppointmentLong, Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Time: "11:30", Status: model.StatusPending,
		}
		require.NoError(t, appts.Create(ctx, a))

		got, err := appts.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "client@example.com", got.User.Email)
		assert.Equal(t, "admin@example.com", got.Counselor.Email)
		assert.Equal(t, "2025-06-02", got.Date.Format(model.DateLayout))

		taken, err := appts.SlotTaken(ctx, a.Slot(), a.ID)
		require.NoError(t, err)
		assert.False(t, taken, "own slot is excluded")

		byCounselor, err := appts.ListByCounselor(ctx, admin.ID)
		require.NoError(t, err)
		assert.Len(t, byCounselor, 2)

		require.NoError(t, appts.Delete(ctx, a.ID))
		_, err = appts.FindByID(ctx, a.ID)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}
