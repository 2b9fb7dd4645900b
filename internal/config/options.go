package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOption is returned when an option value breaks an engine invariant
var ErrInvalidOption = errors.New("invalid option")

// OverscrollCurve selects how scroll past the content bounds is rendered
type OverscrollCurve string

const (
	// OverscrollAccelerated reaches the visual limit at half a page of real scroll
	OverscrollAccelerated OverscrollCurve = "accelerated"
	// OverscrollDamped eases with a cubic curve and a fixed damping factor
	OverscrollDamped OverscrollCurve = "damped"
	// OverscrollNone pins the offset at the bounds
	OverscrollNone OverscrollCurve = "none"
)

// Overview solver names
const (
	SolverGrid    = "grid"
	SolverStrip   = "strip"
	SolverColumns = "columns"
)

// Default values
const (
	DefaultPageWidth           float32 = 480
	DefaultPageHeight          float32 = 800
	DefaultPageSpacing         float32 = 0
	DefaultLookAhead                   = 2
	DefaultLookBehind                  = 2
	DefaultEdgeZoneWidth       float32 = 24
	DefaultTouchSlop           float32 = 8
	DefaultPagingSlopScale     float32 = 2
	DefaultMinFlingLength      float32 = 15
	DefaultMinFlingVelocity    float32 = 250
	DefaultMinSnapVelocity     float32 = 1500
	DefaultSnapVelocity        float32 = 2200
	DefaultMaxVelocity         float32 = 8000
	DefaultOverscroll                  = OverscrollAccelerated
	DefaultCircular                    = true
	DefaultPrefetchDelay               = 200 * time.Millisecond
	DefaultPrefetchWorkers             = 2
	DefaultPinchThreshold      float32 = 20
	DefaultOverviewSolver              = SolverGrid
	DefaultOverviewColumns             = 3
	DefaultOverviewTransition          = 300 * time.Millisecond
	DefaultInertiaFriction     float32 = 4
	DefaultInertiaStopVelocity float32 = 20
	DefaultPageSnapDuration            = 550 * time.Millisecond
	DefaultCellsX                      = 2
	DefaultCellsY                      = 2
)

// Limits used by setters and Validate
const (
	MaxPrefetchWorkers = 8
	MaxLookDistance    = 8
)

// Options is the full construction-time configuration of a paging surface
type Options struct {
	PageWidth   float32 `toml:"page_width"`
	PageHeight  float32 `toml:"page_height"`
	PageSpacing float32 `toml:"page_spacing"`

	LookAhead  int `toml:"look_ahead"`
	LookBehind int `toml:"look_behind"`

	EdgeZoneWidth   float32 `toml:"edge_zone_width"`
	TouchSlop       float32 `toml:"touch_slop"`
	PagingSlopScale float32 `toml:"paging_slop_scale"`

	MinFlingLength   float32  `toml:"min_fling_length"`
	MinFlingVelocity float32  `toml:"min_fling_velocity"`
	MinSnapVelocity  float32  `toml:"min_snap_velocity"`
	SnapVelocity     float32  `toml:"snap_velocity"`
	MaxVelocity      float32  `toml:"max_velocity"`
	PageSnapDuration Duration `toml:"page_snap_duration"`

	Overscroll OverscrollCurve `toml:"overscroll"`
	Circular   bool            `toml:"circular"`

	PrefetchDelay   Duration `toml:"prefetch_delay"`
	PrefetchWorkers int      `toml:"prefetch_workers"`

	CellsX int `toml:"cells_x"`
	CellsY int `toml:"cells_y"`

	PinchThreshold      float32  `toml:"pinch_threshold"`
	OverviewSolver      string   `toml:"overview_solver"`
	OverviewColumns     int      `toml:"overview_columns"`
	OverviewTransition  Duration `toml:"overview_transition"`
	InertiaFriction     float32  `toml:"inertia_friction"`
	InertiaStopVelocity float32  `toml:"inertia_stop_velocity"`
}

// Duration wraps time.Duration so TOML files can say "200ms"
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in Go syntax
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the reference configuration
func Defaults() Options {
	return Options{
		PageWidth:           DefaultPageWidth,
		PageHeight:          DefaultPageHeight,
		PageSpacing:         DefaultPageSpacing,
		LookAhead:           DefaultLookAhead,
		LookBehind:          DefaultLookBehind,
		EdgeZoneWidth:       DefaultEdgeZoneWidth,
		TouchSlop:           DefaultTouchSlop,
		PagingSlopScale:     DefaultPagingSlopScale,
		MinFlingLength:      DefaultMinFlingLength,
		MinFlingVelocity:    DefaultMinFlingVelocity,
		MinSnapVelocity:     DefaultMinSnapVelocity,
		SnapVelocity:        DefaultSnapVelocity,
		MaxVelocity:         DefaultMaxVelocity,
		PageSnapDuration:    Duration{DefaultPageSnapDuration},
		Overscroll:          DefaultOverscroll,
		Circular:            DefaultCircular,
		PrefetchDelay:       Duration{DefaultPrefetchDelay},
		PrefetchWorkers:     DefaultPrefetchWorkers,
		CellsX:              DefaultCellsX,
		CellsY:              DefaultCellsY,
		PinchThreshold:      DefaultPinchThreshold,
		OverviewSolver:      DefaultOverviewSolver,
		OverviewColumns:     DefaultOverviewColumns,
		OverviewTransition:  Duration{DefaultOverviewTransition},
		InertiaFriction:     DefaultInertiaFriction,
		InertiaStopVelocity: DefaultInertiaStopVelocity,
	}
}

// PagingTouchSlop is the slop a horizontal move must clear to start paging
func (o Options) PagingTouchSlop() float32 {
	return o.TouchSlop * o.PagingSlopScale
}

// SlotWidth is the distance between two adjacent page origins
func (o Options) SlotWidth() float32 {
	return o.PageWidth + 2*o.PageSpacing
}

// ItemsPerPage is the number of grid cells on one page
func (o Options) ItemsPerPage() int {
	return o.CellsX * o.CellsY
}

// Validate checks the invariants the engine relies on
func (o Options) Validate() error {
	switch {
	case o.PageWidth <= 0:
		return fmt.Errorf("%w: page width %v must be positive", ErrInvalidOption, o.PageWidth)
	case o.PageSpacing < 0:
		return fmt.Errorf("%w: page spacing %v is negative", ErrInvalidOption, o.PageSpacing)
	case o.LookAhead < 0 || o.LookBehind < 0:
		return fmt.Errorf("%w: negative load window span %d/%d", ErrInvalidOption, o.LookBehind, o.LookAhead)
	case o.LookAhead > MaxLookDistance || o.LookBehind > MaxLookDistance:
		return fmt.Errorf("%w: load window span %d/%d exceeds %d", ErrInvalidOption, o.LookBehind, o.LookAhead, MaxLookDistance)
	case o.TouchSlop < 0 || o.PagingSlopScale < 1:
		return fmt.Errorf("%w: touch slop %v x%v", ErrInvalidOption, o.TouchSlop, o.PagingSlopScale)
	case o.SnapVelocity <= 0 || o.MinSnapVelocity <= 0:
		return fmt.Errorf("%w: snap velocities must be positive", ErrInvalidOption)
	case o.MaxVelocity < o.SnapVelocity:
		return fmt.Errorf("%w: max velocity %v below snap velocity %v", ErrInvalidOption, o.MaxVelocity, o.SnapVelocity)
	case o.PrefetchDelay.Duration < 0:
		return fmt.Errorf("%w: prefetch delay %v is negative", ErrInvalidOption, o.PrefetchDelay)
	case o.PrefetchWorkers < 1 || o.PrefetchWorkers > MaxPrefetchWorkers:
		return fmt.Errorf("%w: prefetch workers %d outside 1..%d", ErrInvalidOption, o.PrefetchWorkers, MaxPrefetchWorkers)
	case o.CellsX < 1 || o.CellsY < 1:
		return fmt.Errorf("%w: page grid %dx%d", ErrInvalidOption, o.CellsX, o.CellsY)
	}

	switch o.Overscroll {
	case OverscrollAccelerated, OverscrollDamped, OverscrollNone:
	default:
		return fmt.Errorf("%w: unknown overscroll curve %q", ErrInvalidOption, o.Overscroll)
	}

	switch o.OverviewSolver {
	case SolverGrid, SolverStrip:
	case SolverColumns:
		if o.OverviewColumns < 1 {
			return fmt.Errorf("%w: overview columns %d", ErrInvalidOption, o.OverviewColumns)
		}
	default:
		return fmt.Errorf("%w: unknown overview solver %q", ErrInvalidOption, o.OverviewSolver)
	}
	return nil
}
