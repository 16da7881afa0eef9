package availability

import (
	"testing"
	"time"

	"bettercorq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is 2025-11-10, a Monday; tests build their windows from it.
var monday = time.Date(2025, time.November, 10, 9, 30, 0, 0, time.UTC)

func date(t *testing.T, s string) domain.CalendarDate {
	t.Helper()
	d, err := domain.ParseCalendarDate(s)
	require.NoError(t, err)
	return d
}

func coord(t *testing.T, day, slot string) domain.GridCoordinate {
	t.Helper()
	return domain.GridCoordinate{Day: date(t, day), Slot: domain.MustTimeOfDay(slot)}
}

func iv(t *testing.T, day, from, to string) domain.Interval {
	t.Helper()
	return domain.Interval{Day: date(t, day), From: domain.MustTimeOfDay(from), To: domain.MustTimeOfDay(to)}
}

func testGrid(t *testing.T, g domain.Granularity) *domain.Grid {
	t.Helper()
	cfg := domain.DefaultGridConfig()
	cfg.Granularity = g
	cfg.Location = time.UTC
	grid, err := domain.NewGrid(monday, cfg)
	require.NoError(t, err)
	return grid
}

func TestCodec_Encode(t *testing.T) {
	tests := []struct {
		name        string
		granularity domain.Granularity
		cells       []domain.GridCoordinate
		want        []domain.Interval
	}{
		{
			name:        "empty selection",
			granularity: 30,
			want:        []domain.Interval{},
		},
		{
			name:        "single slot",
			granularity: 30,
			cells:       []domain.GridCoordinate{coord(t, "2025-11-10", "09:00")},
			want:        []domain.Interval{iv(t, "2025-11-10", "09:00", "09:30")},
		},
		{
			name:        "contiguous quarter hours merge",
			granularity: 15,
			cells: []domain.GridCoordinate{
				coord(t, "2025-11-10", "08:30"),
				coord(t, "2025-11-10", "08:00"),
				coord(t, "2025-11-10", "08:15"),
			},
			want: []domain.Interval{iv(t, "2025-11-10", "08:00", "08:45")},
		},
		{
			name:        "gap splits the run",
			granularity: 30,
			cells: []domain.GridCoordinate{
				coord(t, "2025-11-10", "08:00"),
				coord(t, "2025-11-10", "08:30"),
				coord(t, "2025-11-10", "10:00"),
			},
			want: []domain.Interval{
				iv(t, "2025-11-10", "08:00", "09:00"),
				iv(t, "2025-11-10", "10:00", "10:30"),
			},
		},
		{
			name:        "runs never cross days",
			granularity: 30,
			cells: []domain.GridCoordinate{
				coord(t, "2025-11-11", "08:00"),
				coord(t, "2025-11-10", "21:30"),
			},
			want: []domain.Interval{
				iv(t, "2025-11-10", "21:30", "22:00"),
				iv(t, "2025-11-11", "08:00", "08:30"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCodec(tt.granularity).Encode(domain.NewSelectionSet(tt.cells...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_EncodeNeverEmitsAdjacentIntervals(t *testing.T) {
	grid := testGrid(t, 30)
	set := make(domain.SelectionSet)
	for i, day := range grid.AllDays() {
		for j, slot := range grid.AllSlots() {
			if (i+j)%3 != 0 {
				set[domain.GridCoordinate{Day: day, Slot: slot}] = struct{}{}
			}
		}
	}
	got := NewCodec(30).Encode(set)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Day == cur.Day {
			assert.NotEqual(t, prev.To, cur.From, "intervals %s and %s touch", prev, cur)
			assert.Less(t, prev.To, cur.From)
		}
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, g := range []domain.Granularity{15, 30} {
		grid := testGrid(t, g)
		codec := NewCodec(g)
		set := make(domain.SelectionSet)
		for i, day := range grid.AllDays() {
			for j, slot := range grid.AllSlots() {
				if (i*7+j)%5 < 2 || j%11 == 0 {
					set[domain.GridCoordinate{Day: day, Slot: slot}] = struct{}{}
				}
			}
		}

		decoded, err := codec.Decode(codec.Encode(set), grid)
		require.NoError(t, err)
		assert.Equal(t, set, decoded, "granularity %d", g)
	}
}

func TestCodec_Decode(t *testing.T) {
	grid := testGrid(t, 30)
	codec := NewCodec(30)

	t.Run("expands intervals", func(t *testing.T) {
		set, err := codec.Decode([]domain.Interval{iv(t, "2025-11-12", "09:00", "10:30")}, grid)
		require.NoError(t, err)
		assert.Equal(t, domain.NewSelectionSet(
			coord(t, "2025-11-12", "09:00"),
			coord(t, "2025-11-12", "09:30"),
			coord(t, "2025-11-12", "10:00"),
		), set)
	})

	t.Run("out of grid cells are skipped silently", func(t *testing.T) {
		set, err := codec.Decode([]domain.Interval{
			iv(t, "2025-11-09", "09:00", "10:00"),
			iv(t, "2025-11-10", "07:00", "08:30"),
			iv(t, "2025-11-10", "21:30", "23:00"),
		}, grid)
		require.NoError(t, err)
		assert.Equal(t, domain.NewSelectionSet(
			coord(t, "2025-11-10", "08:00"),
			coord(t, "2025-11-10", "21:30"),
		), set)
	})

	t.Run("malformed intervals are skipped and reported", func(t *testing.T) {
		set, err := codec.Decode([]domain.Interval{
			iv(t, "2025-11-10", "09:15", "10:00"),
			iv(t, "2025-11-10", "11:00", "11:00"),
			iv(t, "2025-11-11", "12:00", "12:30"),
		}, grid)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMalformedTimeValue)
		assert.Equal(t, domain.NewSelectionSet(coord(t, "2025-11-11", "12:00")), set)
	})

	t.Run("nil grid accepts every aligned cell", func(t *testing.T) {
		set, err := codec.Decode([]domain.Interval{iv(t, "2030-01-01", "23:00", "24:00")}, nil)
		require.NoError(t, err)
		assert.Len(t, set, 2)
	})
}

func TestCodec_ParseIntervals(t *testing.T) {
	codec := NewCodec(30)
	raw := []domain.RawInterval{
		{Day: "2025-11-10", From: "08:00", To: "09:30"},
		{Day: "10/11/2025", From: "08:00", To: "09:00"},
		{Day: "2025-11-10", From: "8:00", To: "25:00"},
		{Day: "2025-11-11", From: "13:00", To: "13:20"},
		{Day: "2025-11-12", From: "9:00", To: "10:00"},
	}

	got, err := codec.ParseIntervals(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedTimeValue)
	assert.Contains(t, err.Error(), "entry 1")
	assert.Equal(t, []domain.Interval{
		iv(t, "2025-11-10", "08:00", "09:30"),
		iv(t, "2025-11-12", "09:00", "10:00"),
	}, got)

	assert.Equal(t, raw[:1], RawIntervals(got[:1]))
}
