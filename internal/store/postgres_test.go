package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/openmeteo-daily-aggregation/internal/meteo"
)

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// fakeRows is a minimal pgx.Rows for the (date, data) result shape.
type fakeRows struct {
	idx  int
	rows []fakeRow
	err  error
}

type fakeRow struct {
	date    time.Time
	payload []byte
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	*dest[0].(*time.Time) = row.date
	*dest[1].(*[]byte) = row.payload
	return nil
}

func pgTestLocation(t *testing.T) meteo.Location {
	t.Helper()
	loc, err := meteo.NewLocation("83.0", "55.0")
	require.NoError(t, err)
	return loc
}

func TestPostgresStoreSaveRecords(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgresStore(db)
	ctx := context.Background()
	loc := pgTestLocation(t)

	records := []meteo.DatedRecord{
		{Date: "2025-06-18", Record: meteo.DayRecord{DaylightHours: 16}},
		{Date: "2025-06-19", Record: meteo.DayRecord{DaylightHours: 16.02}},
	}

	db.On("Exec", ctx, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "ON CONFLICT (longitude, latitude, date) DO NOTHING")
	}), mock.MatchedBy(func(args []any) bool {
		return args[0] == "83" && args[1] == "55"
	})).Return(pgconn.NewCommandTag("INSERT 0 1"), nil).Twice()

	err := repo.SaveRecords(ctx, loc, "Asia/Novosibirsk", records)
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestPostgresStoreSaveRecordsDBError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgresStore(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("connection refused"))

	err := repo.SaveRecords(ctx, pgTestLocation(t), "UTC", []meteo.DatedRecord{{Date: "2025-06-18"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-06-18")
}

func TestPostgresStoreGetRange(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgresStore(db)
	ctx := context.Background()

	rec := meteo.DayRecord{DaylightHours: 16, SunriseISO: "2025-06-18T04:00:00Z"}
	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	rows := &fakeRows{rows: []fakeRow{
		{date: time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), payload: payload},
	}}

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	got, err := repo.GetRange(ctx, pgTestLocation(t), "2025-06-18", "2025-06-19")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-06-18", got[0].Date)
	assert.Equal(t, 16.0, got[0].Record.DaylightHours)
	assert.Equal(t, "2025-06-18T04:00:00Z", got[0].Record.SunriseISO)
}

func TestPostgresStoreGetRangeNotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgresStore(db)
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(&fakeRows{}, nil)

	_, err := repo.GetRange(ctx, pgTestLocation(t), "2025-06-18", "2025-06-19")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	db := new(mockDBTX)
	repo := NewPostgresStore(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "CREATE TABLE IF NOT EXISTS location_data")
	}), mock.Anything).Return(pgconn.NewCommandTag("CREATE TABLE"), nil)

	require.NoError(t, repo.EnsureSchema(ctx))
	db.AssertExpectations(t)
}
