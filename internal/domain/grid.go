package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60

	// DefaultGranularity is the slot size used when none is configured.
	DefaultGranularity Granularity = 30
	// DefaultDays is the length of the rolling window.
	DefaultDays = 7
)

// CalendarDate is a date with no time component. Its canonical text form is YYYY-MM-DD.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseCalendarDate parses a YYYY-MM-DD string.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: date %q", ErrMalformedTimeValue, s)
	}
	return DateOf(t), nil
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero date.
func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns d shifted by n days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the day of the week of d.
func (d CalendarDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// At returns the absolute time of t on date d in loc. A nil loc means time.Local.
func (d CalendarDate) At(t TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, int(t), 0, 0, loc)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDate) UnmarshalText(b []byte) error {
	parsed, err := ParseCalendarDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time expressed in minutes since midnight. 24:00 is valid only as
// an exclusive interval end.
type TimeOfDay int

// ParseTimeOfDay parses an HH:MM string in 24-hour form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("%w: time %q", ErrMalformedTimeValue, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q", ErrMalformedTimeValue, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: time %q", ErrMalformedTimeValue, s)
	}
	return TimeOfDay(h*60 + m), nil
}

// MustTimeOfDay is ParseTimeOfDay for constants; it panics on malformed input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether t lies within [00:00, 24:00].
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= minutesPerDay
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Granularity is the slot size of the grid in minutes.
type Granularity int

// Validate returns ErrInvalidGrid unless g is 15 or 30 minutes.
func (g Granularity) Validate() error {
	if g != 15 && g != 30 {
		return fmt.Errorf("%w: granularity must be 15 or 30 minutes, got %d", ErrInvalidGrid, int(g))
	}
	return nil
}

// Step returns one slot as a TimeOfDay offset.
func (g Granularity) Step() TimeOfDay {
	return TimeOfDay(g)
}

// Aligned reports whether t falls on a slot boundary.
func (g Granularity) Aligned(t TimeOfDay) bool {
	return g > 0 && t.Valid() && int(t)%int(g) == 0
}

// Floor rounds t down to a slot boundary.
func (g Granularity) Floor(t TimeOfDay) TimeOfDay {
	return t - t%TimeOfDay(g)
}

// Ceil rounds t up to a slot boundary.
func (g Granularity) Ceil(t TimeOfDay) TimeOfDay {
	if r := t % TimeOfDay(g); r != 0 {
		return t + TimeOfDay(g) - r
	}
	return t
}

// GridCoordinate is one (day, time-slot) cell of the weekly grid.
type GridCoordinate struct {
	Day  CalendarDate `json:"day"`
	Slot TimeOfDay    `json:"slot"`
}

func (c GridCoordinate) String() string {
	return c.Day.String() + " " + c.Slot.String()
}

// CompareCoordinates orders coordinates by day, then slot.
func CompareCoordinates(a, b GridCoordinate) int {
	if c := a.Day.Compare(b.Day); c != 0 {
		return c
	}
	return cmpInt(int(a.Slot), int(b.Slot))
}

// GridConfig controls grid construction.
type GridConfig struct {
	Granularity Granularity
	DayStart    TimeOfDay
	DayEnd      TimeOfDay
	Days        int
	// Location is used to combine dates and times into absolute timestamps.
	Location *time.Location
}

// DefaultGridConfig returns the 08:00-22:00 seven day grid at 30 minute slots.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Granularity: DefaultGranularity,
		DayStart:    8 * 60,
		DayEnd:      22 * 60,
		Days:        DefaultDays,
		Location:    time.Local,
	}
}

// Grid is the discretised rolling week. It is immutable and derived from "today" at
// construction time, so the day offset to date mapping changes across calendar days.
type Grid struct {
	cfg   GridConfig
	days  []CalendarDate
	slots []TimeOfDay
}

// NewGrid builds the grid starting at the calendar date of now in cfg.Location.
func NewGrid(now time.Time, cfg GridConfig) (*Grid, error) {
	if err := cfg.Granularity.Validate(); err != nil {
		return nil, err
	}
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if !cfg.Granularity.Aligned(cfg.DayStart) || !cfg.Granularity.Aligned(cfg.DayEnd) {
		return nil, fmt.Errorf("%w: window %s-%s is not aligned to %d minutes", ErrInvalidGrid, cfg.DayStart, cfg.DayEnd, int(cfg.Granularity))
	}
	if cfg.DayStart >= cfg.DayEnd {
		return nil, fmt.Errorf("%w: empty window %s-%s", ErrInvalidGrid, cfg.DayStart, cfg.DayEnd)
	}

	today := DateOf(now.In(cfg.Location))
	g := &Grid{cfg: cfg}
	for i := 0; i < cfg.Days; i++ {
		g.days = append(g.days, today.AddDays(i))
	}
	for s := cfg.DayStart; s < cfg.DayEnd; s += cfg.Granularity.Step() {
		g.slots = append(g.slots, s)
	}
	return g, nil
}

// AllDays returns the dates of the window, today first.
func (g *Grid) AllDays() []CalendarDate {
	return append([]CalendarDate(nil), g.days...)
}

// AllSlots returns the slot start times of one day.
func (g *Grid) AllSlots() []TimeOfDay {
	return append([]TimeOfDay(nil), g.slots...)
}

// IsAligned reports whether t is on a slot boundary of this grid.
func (g *Grid) IsAligned(t TimeOfDay) bool {
	return g.cfg.Granularity.Aligned(t)
}

// Contains reports whether c is a visible cell of the grid.
func (g *Grid) Contains(c GridCoordinate) bool {
	if !g.IsAligned(c.Slot) || c.Slot < g.cfg.DayStart || c.Slot >= g.cfg.DayEnd {
		return false
	}
	return c.Day.Compare(g.days[0]) >= 0 && c.Day.Compare(g.days[len(g.days)-1]) <= 0
}

// Today returns the first day of the window.
func (g *Grid) Today() CalendarDate {
	return g.days[0]
}

func (g *Grid) Granularity() Granularity {
	return g.cfg.Granularity
}

func (g *Grid) Location() *time.Location {
	return g.cfg.Location
}

// Window returns the visible hour range of a day.
func (g *Grid) Window() (start, end TimeOfDay) {
	return g.cfg.DayStart, g.cfg.DayEnd
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
