package availability

import (
	"testing"
	"time"

	"bettercorq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{in: "Mon", want: time.Monday},
		{in: "mon", want: time.Monday},
		{in: "Thursday", want: time.Thursday},
		{in: " SAT ", want: time.Saturday},
		{in: "Funday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnresolvableWeekday)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String()[:3], ShortWeekday(got))
		})
	}
}

func TestReconciler_ResolveWeekday(t *testing.T) {
	r := NewReconciler(testGrid(t, 30))

	tests := []struct {
		name string
		want string
	}{
		{name: "Mon", want: "2025-11-10"},
		{name: "Tue", want: "2025-11-11"},
		{name: "Sun", want: "2025-11-16"},
		{name: "saturday", want: "2025-11-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveWeekday(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	t.Run("outside a short window", func(t *testing.T) {
		short := Reconciler{Granularity: 30, Today: date(t, "2025-11-10"), Days: 3}
		_, err := short.ResolveWeekday("Fri")
		require.ErrorIs(t, err, domain.ErrUnresolvableWeekday)
	})
}

func TestReconciler_Reconcile(t *testing.T) {
	r := NewReconciler(testGrid(t, 30))
	manual := []domain.Interval{iv(t, "2025-11-12", "08:00", "09:00")}

	t.Run("manual only", func(t *testing.T) {
		got, err := r.Reconcile(manual, nil)
		require.NoError(t, err)
		assert.Equal(t, manual, got)
	})

	t.Run("manual first then extracted by date", func(t *testing.T) {
		extracted := domain.FreeTimeResult{
			"Wed": {{"08:00", "09:00"}, {"13:00", "14:30"}},
			"Mon": {{"18:00", "20:00"}},
			"Sun": {{"10:00", "11:00"}},
		}
		got, err := r.Reconcile(manual, extracted)
		require.NoError(t, err)
		assert.Equal(t, []domain.Interval{
			iv(t, "2025-11-12", "08:00", "09:00"),
			iv(t, "2025-11-10", "18:00", "20:00"),
			iv(t, "2025-11-12", "08:00", "09:00"),
			iv(t, "2025-11-12", "13:00", "14:30"),
			iv(t, "2025-11-16", "10:00", "11:00"),
		}, got)
	})

	t.Run("bad entries are dropped and reported", func(t *testing.T) {
		extracted := domain.FreeTimeResult{
			"Tue":     {{"09:00", "10:00"}, {"10:00", "9:00"}, {"noon", "13:00"}, {"11:10", "12:00"}},
			"Someday": {{"09:00", "10:00"}},
		}
		got, err := r.Reconcile(nil, extracted)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnresolvableWeekday)
		assert.ErrorIs(t, err, domain.ErrMalformedTimeValue)
		assert.Equal(t, []domain.Interval{iv(t, "2025-11-11", "09:00", "10:00")}, got)
	})
}

func TestReconciler_TodayResolvesToToday(t *testing.T) {
	// 2025-11-13 is a Thursday.
	cfg := domain.DefaultGridConfig()
	cfg.Location = time.UTC
	grid, err := domain.NewGrid(time.Date(2025, time.November, 13, 23, 59, 0, 0, time.UTC), cfg)
	require.NoError(t, err)

	r := NewReconciler(grid)
	thu, err := r.ResolveWeekday("Thu")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-13", thu.String())

	wed, err := r.ResolveWeekday("Wed")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-19", wed.String())
}
