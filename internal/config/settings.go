package config

import (
	"time"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyPageSpacing     = "pager_page_spacing"
	KeyLookAhead       = "pager_look_ahead"
	KeyLookBehind      = "pager_look_behind"
	KeyMinFlingVel     = "pager_min_fling_velocity"
	KeySnapVelocity    = "pager_snap_velocity"
	KeyPagingSlopScale = "pager_paging_slop_scale"
	KeyOverscroll      = "pager_overscroll_curve"
	KeyCircular        = "pager_circular"
	KeyPrefetchDelayMs = "pager_prefetch_delay_ms"
	KeyPrefetchWorkers = "pager_prefetch_workers"
	KeyOverviewSolver  = "pager_overview_solver"
	KeyLanguage        = "ui_language"
)

// DefaultLanguage follows the system locale
const DefaultLanguage = "system"

// Settings persists the user-tunable subset of Options in app preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// Options returns Defaults overlaid with stored preferences
func (s *Settings) Options() Options {
	opts := Defaults()
	opts.PageSpacing = s.GetPageSpacing()
	opts.LookAhead = s.GetLookAhead()
	opts.LookBehind = s.GetLookBehind()
	opts.MinFlingVelocity = float32(s.app.Preferences().FloatWithFallback(KeyMinFlingVel, float64(DefaultMinFlingVelocity)))
	opts.SnapVelocity = s.GetSnapVelocity()
	opts.PagingSlopScale = float32(s.app.Preferences().FloatWithFallback(KeyPagingSlopScale, float64(DefaultPagingSlopScale)))
	opts.Overscroll = s.GetOverscrollCurve()
	opts.Circular = s.app.Preferences().BoolWithFallback(KeyCircular, DefaultCircular)
	opts.PrefetchDelay = Duration{s.GetPrefetchDelay()}
	opts.PrefetchWorkers = s.GetPrefetchWorkers()
	opts.OverviewSolver = s.GetOverviewSolver()
	return opts
}

// Store writes the user-tunable subset of opts
func (s *Settings) Store(opts Options) {
	s.SetPageSpacing(opts.PageSpacing)
	s.SetLookAhead(opts.LookAhead)
	s.SetLookBehind(opts.LookBehind)
	s.app.Preferences().SetFloat(KeyMinFlingVel, float64(opts.MinFlingVelocity))
	s.SetSnapVelocity(opts.SnapVelocity)
	s.app.Preferences().SetFloat(KeyPagingSlopScale, float64(opts.PagingSlopScale))
	s.SetOverscrollCurve(opts.Overscroll)
	s.app.Preferences().SetBool(KeyCircular, opts.Circular)
	s.SetPrefetchDelay(opts.PrefetchDelay.Duration)
	s.SetPrefetchWorkers(opts.PrefetchWorkers)
	s.SetOverviewSolver(opts.OverviewSolver)
}

// GetPageSpacing returns the configured page spacing
func (s *Settings) GetPageSpacing() float32 {
	return float32(s.app.Preferences().FloatWithFallback(KeyPageSpacing, float64(DefaultPageSpacing)))
}

// SetPageSpacing sets the page spacing; negative values are clamped to zero
func (s *Settings) SetPageSpacing(spacing float32) {
	if spacing < 0 {
		spacing = 0
	}
	s.app.Preferences().SetFloat(KeyPageSpacing, float64(spacing))
}

// GetLookAhead returns the number of pages loaded past the target page
func (s *Settings) GetLookAhead() int {
	return s.app.Preferences().IntWithFallback(KeyLookAhead, DefaultLookAhead)
}

// SetLookAhead sets the look-ahead span, clamped to 0..MaxLookDistance
func (s *Settings) SetLookAhead(pages int) {
	s.app.Preferences().SetInt(KeyLookAhead, clampInt(pages, 0, MaxLookDistance))
}

// GetLookBehind returns the number of pages loaded before the current page
func (s *Settings) GetLookBehind() int {
	return s.app.Preferences().IntWithFallback(KeyLookBehind, DefaultLookBehind)
}

// SetLookBehind sets the look-behind span, clamped to 0..MaxLookDistance
func (s *Settings) SetLookBehind(pages int) {
	s.app.Preferences().SetInt(KeyLookBehind, clampInt(pages, 0, MaxLookDistance))
}

// GetSnapVelocity returns the fling threshold velocity
func (s *Settings) GetSnapVelocity() float32 {
	value := s.app.Preferences().Float(KeySnapVelocity)
	if value <= 0 {
		s.SetSnapVelocity(DefaultSnapVelocity)
		return DefaultSnapVelocity
	}
	return float32(value)
}

// SetSnapVelocity sets the fling threshold velocity
func (s *Settings) SetSnapVelocity(velocity float32) {
	if velocity <= 0 {
		velocity = DefaultSnapVelocity
	}
	s.app.Preferences().SetFloat(KeySnapVelocity, float64(velocity))
}

// GetOverscrollCurve returns the configured overscroll curve
func (s *Settings) GetOverscrollCurve() OverscrollCurve {
	curve := OverscrollCurve(s.app.Preferences().String(KeyOverscroll))
	switch curve {
	case OverscrollAccelerated, OverscrollDamped, OverscrollNone:
		return curve
	}
	s.SetOverscrollCurve(DefaultOverscroll)
	return DefaultOverscroll
}

// SetOverscrollCurve sets the overscroll curve; unknown curves fall back to the default
func (s *Settings) SetOverscrollCurve(curve OverscrollCurve) {
	switch curve {
	case OverscrollAccelerated, OverscrollDamped, OverscrollNone:
	default:
		curve = DefaultOverscroll
	}
	s.app.Preferences().SetString(KeyOverscroll, string(curve))
}

// GetPrefetchDelay returns the per-page prefetch start delay
func (s *Settings) GetPrefetchDelay() time.Duration {
	ms := s.app.Preferences().IntWithFallback(KeyPrefetchDelayMs, int(DefaultPrefetchDelay/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

// SetPrefetchDelay sets the per-page prefetch start delay
func (s *Settings) SetPrefetchDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	s.app.Preferences().SetInt(KeyPrefetchDelayMs, int(delay/time.Millisecond))
}

// GetPrefetchWorkers returns the preview worker pool size
func (s *Settings) GetPrefetchWorkers() int {
	value := s.app.Preferences().Int(KeyPrefetchWorkers)
	if value <= 0 {
		s.SetPrefetchWorkers(DefaultPrefetchWorkers)
		return DefaultPrefetchWorkers
	}
	return value
}

// SetPrefetchWorkers sets the worker pool size, clamped to 1..MaxPrefetchWorkers
func (s *Settings) SetPrefetchWorkers(count int) {
	s.app.Preferences().SetInt(KeyPrefetchWorkers, clampInt(count, 1, MaxPrefetchWorkers))
}

// GetOverscrollOptions returns the selectable overscroll curves
func (s *Settings) GetOverscrollOptions() []OverscrollCurve {
	return []OverscrollCurve{OverscrollAccelerated, OverscrollDamped, OverscrollNone}
}

// GetOverviewSolver returns the overview layout solver name
func (s *Settings) GetOverviewSolver() string {
	solver := s.app.Preferences().StringWithFallback(KeyOverviewSolver, DefaultOverviewSolver)
	switch solver {
	case SolverGrid, SolverStrip, SolverColumns:
		return solver
	}
	return DefaultOverviewSolver
}

// SetOverviewSolver sets the overview solver; unknown names fall back to the default
func (s *Settings) SetOverviewSolver(solver string) {
	switch solver {
	case SolverGrid, SolverStrip, SolverColumns:
	default:
		solver = DefaultOverviewSolver
	}
	s.app.Preferences().SetString(KeyOverviewSolver, solver)
}

// GetOverviewSolverOptions returns the selectable overview solvers
func (s *Settings) GetOverviewSolverOptions() []string {
	return []string{SolverGrid, SolverColumns, SolverStrip}
}

// GetLanguage returns the UI language code
func (s *Settings) GetLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyLanguage, DefaultLanguage)
}

// SetLanguage sets the UI language code
func (s *Settings) SetLanguage(lang string) {
	if lang == "" {
		lang = DefaultLanguage
	}
	s.app.Preferences().SetString(KeyLanguage, lang)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
