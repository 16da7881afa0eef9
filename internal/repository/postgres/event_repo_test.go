package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"bettercorq/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventColumns = []string{"name", "start_at", "end_at", "location", "organization", "source"}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    []domain.CandidateEvent
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT name, start_at, end_at, location, organization, source\s+FROM candidate_events\s+ORDER BY position`).
					WillReturnRows(sqlmock.NewRows(eventColumns).
						AddRow("Chess club", start, end, "Room 1", "Chess Society", "events.yaml").
						AddRow("Movie night", start.Add(24*time.Hour), end.Add(24*time.Hour), "Hall", "Film Club", "events.yaml"))
			},
			want: []domain.CandidateEvent{
				{Name: "Chess club", Start: start, End: end, Location: "Room 1", Organization: "Chess Society", Source: "events.yaml"},
				{Name: "Movie night", Start: start.Add(24 * time.Hour), End: end.Add(24 * time.Hour), Location: "Hall", Organization: "Film Club", Source: "events.yaml"},
			},
		},
		{
			name: "empty catalog",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT name, start_at`).
					WillReturnRows(sqlmock.NewRows(eventColumns))
			},
			want: []domain.CandidateEvent{},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT name, start_at`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.List(ctx)
			if tt.wantErr {
				require.Error(t, err)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	events := []domain.CandidateEvent{
		{Name: "Chess club", Start: start, End: start.Add(time.Hour), Location: "Room 1", Organization: "Chess Society"},
		{Name: "Movie night", Start: start.Add(10 * time.Hour), End: start.Add(12 * time.Hour), Location: "Hall", Organization: "Film Club"},
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM candidate_events`).WillReturnResult(sqlmock.NewResult(0, 5))
		for i, e := range events {
			mock.ExpectExec(`INSERT INTO candidate_events`).
				WithArgs(i, e.Name, e.Start, e.End, e.Location, e.Organization, e.Source).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, NewEventRepository(db).ReplaceAll(ctx, events))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM candidate_events`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO candidate_events`).WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err = NewEventRepository(db).ReplaceAll(ctx, events)
		require.ErrorIs(t, err, sql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
