package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
	"github.com/trackify/trackify-backend-go/internal/pkg/database"
	"github.com/trackify/trackify-backend-go/internal/repository/postgresql"
)

// setupTestDB connects to TEST_DATABASE_URL, migrates it and empties the
// tables. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = postgresql.Migrate(ctx, db)
	require.NoError(t, err)

	_, err = db.Exec(ctx, "TRUNCATE TABLE attendance, employees, users")
	require.NoError(t, err)

	return db
}

func ptr[T any](v T) *T { return &v }

func TestEmployeeRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	ann, err := repo.Create(ctx, employee.Employee{ID: "e1", Name: "Ann", Site: "A", Rate: 100})
	require.NoError(t, err)
	assert.Equal(t, 100.0, ann.Rate)
	assert.False(t, ann.CreatedAt.IsZero())

	_, err = repo.Create(ctx, employee.Employee{ID: "e1", Name: "Dup", Rate: 1})
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	_, err = repo.Create(ctx, employee.Employee{ID: "e2", Name: "Bob", Site: "B", Rate: 50})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e1", list[0].ID)

	ann.Site = "North"
	ann.Rate = 120.5
	updated, err := repo.Update(ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, "North", updated.Site)
	assert.Equal(t, 120.5, updated.Rate)

	sites, err := repo.ListSites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "North"}, sites)

	require.NoError(t, repo.Delete(ctx, "e2"))
	assert.ErrorIs(t, repo.Delete(ctx, "e2"), employee.ErrEmployeeNotFound)

	_, err = repo.GetByID(ctx, "e2")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = repo.Update(ctx, employee.Employee{ID: "missing", Name: "X", Rate: 1})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceRepository_UpsertIsLastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, attendance.Record{EmployeeID: "e1", Date: "2024-06-01", Status: ptr(1.0)})
	require.NoError(t, err)

	saved, err := repo.Upsert(ctx, attendance.Record{
		EmployeeID: "e1", Date: "2024-06-01", Status: ptr(0.5), Comment: ptr("left early"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", saved.Date)
	assert.Equal(t, 0.5, *saved.Status)
	assert.Equal(t, "left early", *saved.Comment)
	assert.Nil(t, saved.Target)

	day, err := repo.ListByDate(ctx, "2024-06-01")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, 0.5, *day[0].Status)
}

func TestAttendanceRepository_ListByDateRangeIsInclusive(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewAttendanceRepository(db)
	ctx := context.Background()

	for _, date := range []string{"2024-05-31", "2024-06-01", "2024-06-15", "2024-06-30", "2024-07-01"} {
		_, err := repo.Upsert(ctx, attendance.Record{EmployeeID: "e1", Date: date, Status: ptr(1.0)})
		require.NoError(t, err)
	}

	records, err := repo.ListByDateRange(ctx, "2024-06-01", "2024-06-30")
	require.NoError(t, err)

	var dates []string
	for _, r := range records {
		dates = append(dates, r.Date)
	}
	assert.Equal(t, []string{"2024-06-01", "2024-06-15", "2024-06-30"}, dates)
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewUserRepository(db)
	ctx := context.Background()

	id := uuid.NewString()
	created, err := repo.Create(ctx, user.User{
		ID: id, Name: "Ann", Email: "Ann@Example.com", PasswordHash: "hash", Role: user.RolePending,
	})
	require.NoError(t, err)
	assert.Equal(t, user.RolePending, created.Role)

	_, err = repo.Create(ctx, user.User{
		ID: uuid.NewString(), Name: "Ann 2", Email: "ann@example.com", PasswordHash: "hash", Role: user.RolePending,
	})
	assert.ErrorIs(t, err, user.ErrEmailExists)

	byEmail, err := repo.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := repo.UpdateAccess(ctx, id, user.RoleViewer, true)
	require.NoError(t, err)
	assert.Equal(t, user.RoleViewer, approved.Role)
	assert.True(t, approved.Approved)

	pending, err = repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	repo := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	err := postgresql.NewTransactor(db).WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, employee.Employee{ID: "e1", Name: "Ann", Rate: 1}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = repo.GetByID(ctx, "e1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestChangeNotifier_RelaysThroughListen(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := changefeed.NewHub()
	sub := hub.Subscribe("employees", nil)
	defer sub.Cancel()

	channel := "record_changes_test"
	go changefeed.NewRelay(db.Pool, channel, hub).Run(ctx)

	notifier := postgresql.NewChangeNotifier(db, channel)
	deadline := time.After(5 * time.Second)
	for {
		// The relay may not be listening yet; keep notifying until it is.
		require.NoError(t, notifier.Publish(ctx, changefeed.Event{
			Collection: "employees", Op: changefeed.OpUpsert, ID: "e1",
		}))
		select {
		case ev := <-sub.Events():
			assert.Equal(t, "e1", ev.ID)
			assert.Equal(t, changefeed.OpUpsert, ev.Op)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no event relayed")
		}
	}
}

func TestRepositories_MapNumericOverflowToDomainErrors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(db)
	records := postgresql.NewAttendanceRepository(db)

	_, err := employees.Create(ctx, employee.Employee{ID: "e1", Name: "Ann", Rate: 1e15})
	assert.ErrorIs(t, err, employee.ErrInvalidRate)

	ann, err := employees.Create(ctx, employee.Employee{ID: "e1", Name: "Ann", Rate: 10})
	require.NoError(t, err)
	ann.Rate = 1e15
	_, err = employees.Update(ctx, ann)
	assert.ErrorIs(t, err, employee.ErrInvalidRate)

	_, err = records.Upsert(ctx, attendance.Record{EmployeeID: "e1", Date: "2024-06-01", Status: ptr(1.0), Target: ptr(100000.0)})
	assert.ErrorIs(t, err, attendance.ErrValueOutOfRange)
}

func TestRelay_DoesNotReturnListeningConnectionToPool(t *testing.T) {
	db := setupTestDB(t)

	cfg, err := pgxpool.ParseConfig(db.Config().ConnString())
	require.NoError(t, err)
	cfg.MaxConns = 1
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	defer pool.Close()

	channel := "record_changes_pool_test"
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		changefeed.NewRelay(pool, channel, changefeed.NewHub()).Run(ctx)
		close(done)
	}()

	// Wait until the relay holds the only connection and is listening.
	require.Eventually(t, func() bool {
		var listening bool
		err := db.QueryRow(context.Background(),
			`SELECT EXISTS (SELECT 1 FROM pg_stat_activity WHERE query LIKE 'LISTEN%' AND query LIKE '%' || $1 || '%')`,
			channel,
		).Scan(&listening)
		return err == nil && listening
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done

	var channels int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM pg_listening_channels()`,
	).Scan(&channels))
	assert.Zero(t, channels)
}
