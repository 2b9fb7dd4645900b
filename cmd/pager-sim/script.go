package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op is the kind of a scripted step
type Op string

const (
	OpDrag     Op = "drag"     // drag FROM TO [MS]: slow swipe
	OpFling    Op = "fling"    // fling FROM TO: fast swipe
	OpTap      Op = "tap"      // tap X
	OpPinch    Op = "pinch"    // two-finger pinch in, enters the overview
	OpOverview Op = "overview" // leave the overview
	OpWait     Op = "wait"     // wait MS
	OpPage     Op = "page"     // page SLOT: snap to a slot
	OpNext     Op = "next"
	OpPrev     Op = "prev"
)

// DefaultDragMs is how long a drag lasts without an explicit duration
const DefaultDragMs = 300

// ErrEmptyScript is returned for a script without steps
var ErrEmptyScript = errors.New("script has no steps")

// arity is the accepted argument count of every op
var arity = map[Op][2]int{
	OpDrag:     {2, 3},
	OpFling:    {2, 2},
	OpTap:      {1, 1},
	OpPinch:    {0, 0},
	OpOverview: {0, 0},
	OpWait:     {1, 1},
	OpPage:     {1, 1},
	OpNext:     {0, 0},
	OpPrev:     {0, 0},
}

// Step is one scripted action
type Step struct {
	Op   Op
	Args []float32
}

// String renders the step as it would be written in a script
func (s Step) String() string {
	parts := []string{string(s.Op)}
	for _, a := range s.Args {
		parts = append(parts, strconv.FormatFloat(float64(a), 'f', -1, 32))
	}
	return strings.Join(parts, " ")
}

// ParseScript reads steps separated by ';' or newlines. '#' starts a comment
// running to the end of the line.
func ParseScript(text string) ([]Step, error) {
	var steps []Step
	for lineNo, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, part := range strings.Split(line, ";") {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}
			step, err := parseStep(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			steps = append(steps, step)
		}
	}
	if len(steps) == 0 {
		return nil, ErrEmptyScript
	}
	return steps, nil
}

func parseStep(fields []string) (Step, error) {
	op := Op(strings.ToLower(fields[0]))
	bounds, ok := arity[op]
	if !ok {
		return Step{}, fmt.Errorf("unknown step %q", fields[0])
	}
	args := fields[1:]
	if len(args) < bounds[0] || len(args) > bounds[1] {
		return Step{}, fmt.Errorf("%s takes %d to %d arguments, got %d", op, bounds[0], bounds[1], len(args))
	}

	step := Step{Op: op, Args: make([]float32, len(args))}
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return Step{}, fmt.Errorf("%s: bad argument %q: %w", op, a, err)
		}
		step.Args[i] = float32(v)
	}
	if op == OpDrag && len(step.Args) == 2 {
		step.Args = append(step.Args, DefaultDragMs)
	}
	return step, nil
}
