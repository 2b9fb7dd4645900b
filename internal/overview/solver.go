package overview

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"

	"github.com/ytget/pager/internal/config"
)

const (
	// DefaultGap is the space between pages in the overview, in container units
	DefaultGap float32 = 16
	// StripFill is the share of the container height a page takes in a strip
	StripFill float32 = 0.6
)

// Layout is the solved overview arrangement: the top-left offset of every
// page, a uniform scale and the extent of the whole matrix
type Layout struct {
	Offsets []fyne.Position
	Scale   float32
	Extent  fyne.Size
}

// Solver arranges count pages of size page inside container
type Solver interface {
	Solve(container, page fyne.Size, count int) Layout
}

// GridSolver lays pages out on a near-square grid that fits the container
type GridSolver struct {
	Gap float32
}

// Solve implements Solver
func (g GridSolver) Solve(container, page fyne.Size, count int) Layout {
	checkCount(count)
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	return solveGrid(container, page, count, cols, g.Gap, true)
}

// ColumnsSolver uses a fixed number of columns; the matrix may be taller than
// the container and is panned vertically
type ColumnsSolver struct {
	Columns int
	Gap     float32
}

// Solve implements Solver
func (c ColumnsSolver) Solve(container, page fyne.Size, count int) Layout {
	checkCount(count)
	cols := c.Columns
	if cols < 1 {
		panic(fmt.Sprintf("overview: invalid column count %d", cols))
	}
	return solveGrid(container, page, count, cols, c.Gap, false)
}

// StripSolver puts every page in a single row panned horizontally
type StripSolver struct {
	Gap float32
}

// Solve implements Solver
func (s StripSolver) Solve(container, page fyne.Size, count int) Layout {
	checkCount(count)
	scale := container.Height * StripFill / page.Height
	if w := (container.Width - 2*s.Gap) / page.Width; w < scale {
		scale = w
	}
	pw, ph := page.Width*scale, page.Height*scale
	y := (container.Height - ph) / 2

	offsets := make([]fyne.Position, count)
	for i := range offsets {
		offsets[i] = fyne.NewPos(s.Gap+float32(i)*(pw+s.Gap), y)
	}
	extent := fyne.NewSize(s.Gap+float32(count)*(pw+s.Gap), container.Height)
	return Layout{Offsets: offsets, Scale: scale, Extent: extent}
}

func solveGrid(container, page fyne.Size, count, cols int, gap float32, fitHeight bool) Layout {
	if cols > count {
		cols = count
	}
	if cols < 1 {
		cols = 1
	}
	rows := (count + cols - 1) / cols

	scale := (container.Width - float32(cols+1)*gap) / (float32(cols) * page.Width)
	if fitHeight {
		if s := (container.Height - float32(rows+1)*gap) / (float32(rows) * page.Height); s < scale {
			scale = s
		}
	}
	if scale > 1 {
		scale = 1
	}
	pw, ph := page.Width*scale, page.Height*scale

	gridW := float32(cols)*pw + float32(cols+1)*gap
	gridH := float32(rows)*ph + float32(rows+1)*gap
	left := max((container.Width-gridW)/2, 0)
	top := max((container.Height-gridH)/2, 0)

	offsets := make([]fyne.Position, count)
	for i := range offsets {
		col, row := i%cols, i/cols
		offsets[i] = fyne.NewPos(
			left+gap+float32(col)*(pw+gap),
			top+gap+float32(row)*(ph+gap),
		)
	}
	extent := fyne.NewSize(max(gridW, container.Width), max(gridH, container.Height))
	return Layout{Offsets: offsets, Scale: scale, Extent: extent}
}

func checkCount(count int) {
	if count < 1 {
		panic(fmt.Sprintf("overview: cannot solve %d pages", count))
	}
}

// NewSolver returns the solver registered under name
func NewSolver(name string, columns int) (Solver, error) {
	switch name {
	case config.SolverGrid, "":
		return GridSolver{Gap: DefaultGap}, nil
	case config.SolverStrip:
		return StripSolver{Gap: DefaultGap}, nil
	case config.SolverColumns:
		if columns < 1 {
			return nil, fmt.Errorf("%w: %d overview columns", config.ErrInvalidOption, columns)
		}
		return ColumnsSolver{Columns: columns, Gap: DefaultGap}, nil
	}
	return nil, fmt.Errorf("%w: unknown overview solver %q", config.ErrInvalidOption, name)
}
