package prefetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ytget/pager/internal/model"
)

type fakeRenderer struct {
	mu       sync.Mutex
	fail     map[string]bool
	onRender func(item model.Item)
	rendered []string
}

func (r *fakeRenderer) Render(ctx context.Context, item model.Item, pool *Pool) (*Artifact, error) {
	r.mu.Lock()
	r.rendered = append(r.rendered, item.ID)
	fail := r.fail[item.ID]
	hook := r.onRender
	r.mu.Unlock()

	if hook != nil {
		hook(item)
	}
	if fail {
		return nil, errors.New("missing resource")
	}
	return pool.Wrap(item.ID, pool.Get(4, 4)), nil
}

func (r *fakeRenderer) Placeholder(item model.Item, pool *Pool) *Artifact {
	return pool.Placeholder(item.ID, 4, 4)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func items(ids ...string) []model.Item {
	out := make([]model.Item, len(ids))
	for i, id := range ids {
		out[i] = model.Item{ID: id, Label: id, SpanX: 1, SpanY: 1}
	}
	return out
}

func newTestQueue(r Renderer) (*Queue, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	q := NewQueue(Options{
		Workers:  1,
		Delay:    200 * time.Millisecond,
		Renderer: r,
		Now:      clock.Now,
	})
	return q, clock
}

// runOne claims and runs the best runnable job on the calling goroutine
func runOne(t *testing.T, q *Queue) *job {
	t.Helper()
	j, _, _ := q.next()
	if j == nil {
		t.Fatal("next() returned no runnable job")
	}
	q.run(j)
	return j
}

func TestSubmitSingleJobGetsBestPriority(t *testing.T) {
	q, clock := newTestQueue(&fakeRenderer{})
	q.SetTarget(0, 0)

	h, err := q.Submit(5, items("a"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	job, ok := q.Job(5)
	if !ok {
		t.Fatal("Job(5) not found")
	}
	if job.Priority != 0 {
		t.Errorf("Priority = %d, expected 0", job.Priority)
	}
	if job.Tier != model.TierLessFavorable {
		t.Errorf("Tier = %s, expected %s", job.Tier, model.TierLessFavorable)
	}
	if !job.StartAt.Equal(clock.t) {
		t.Errorf("StartAt = %v, expected %v", job.StartAt, clock.t)
	}
	if !strings.HasPrefix(h.ID(), JobIDPrefix) {
		t.Errorf("ID() = %q, expected prefix %q", h.ID(), JobIDPrefix)
	}
	if h.Key() != (model.JobKey{Page: 5, Generation: 1}) {
		t.Errorf("Key() = %+v", h.Key())
	}
}

func TestPrioritiesAndStartDelay(t *testing.T) {
	q, clock := newTestQueue(&fakeRenderer{})
	q.SetTarget(0, 0)

	q.Submit(2, items("a"))
	q.Submit(3, items("b"))
	q.Submit(5, items("c"))

	type row struct {
		Page     int
		Priority int
		Delay    time.Duration
	}
	var got []row
	for _, j := range q.Jobs() {
		got = append(got, row{j.PageIndex, j.Priority, j.StartAt.Sub(clock.t)})
	}
	expected := []row{
		{2, 0, 0},
		{3, 1, 200 * time.Millisecond},
		{5, 3, 600 * time.Millisecond},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("jobs mismatch (-expected +got):\n%s", diff)
	}

	// moving the target re-normalizes priorities and start delays
	q.SetTarget(0, 5)
	job, _ := q.Job(5)
	if job.Priority != 0 || job.Tier != model.TierLessFavorable {
		t.Errorf("page 5 after retarget = (%d, %s), expected (0, %s)", job.Priority, job.Tier, model.TierLessFavorable)
	}
	if !job.StartAt.Equal(clock.t) {
		t.Errorf("page 5 StartAt = %v after retarget, expected %v", job.StartAt.Sub(clock.t), time.Duration(0))
	}
	job, _ = q.Job(2)
	if job.Priority != 3 || job.Tier != model.TierLowest {
		t.Errorf("page 2 after retarget = (%d, %s), expected (3, %s)", job.Priority, job.Tier, model.TierLowest)
	}
	if delay := job.StartAt.Sub(clock.t); delay != 600*time.Millisecond {
		t.Errorf("page 2 start delay = %v after retarget, expected 600ms", delay)
	}
}

func TestRetargetRunsNearestJobWithoutDelay(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})
	q.SetTarget(0, 0)
	q.Submit(0, items("a"))
	q.Submit(4, items("b"))

	// page 0 runs; page 4 waits out its delay
	runOne(t, q)
	if j, wait, _ := q.next(); j != nil || wait != 800*time.Millisecond {
		t.Fatalf("next() = %v, %v, expected nothing for 800ms", j, wait)
	}

	q.SetTarget(0, 4)
	j, _, _ := q.next()
	if j == nil || j.PageIndex != 4 {
		t.Fatalf("next() = %v after retarget, expected page 4 right away", j)
	}
}

func TestDirectionLookAhead(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})
	q.SetTarget(3, 3)
	q.Submit(2, items("a"))
	q.Submit(4, items("b"))

	q.SetTarget(3, 4)

	behind, _ := q.Job(2)
	ahead, _ := q.Job(4)
	if behind.Tier != model.TierLowest {
		t.Errorf("behind tier = %s, expected %s", behind.Tier, model.TierLowest)
	}
	if ahead.Tier != model.TierLessFavorable {
		t.Errorf("ahead tier = %s, expected %s", ahead.Tier, model.TierLessFavorable)
	}
}

func TestNextHonoursDelayAndTier(t *testing.T) {
	q, clock := newTestQueue(&fakeRenderer{})
	q.SetTarget(0, 0)
	q.Submit(0, items("a"))
	q.Submit(2, items("b"))

	j, _, _ := q.next()
	if j == nil || j.PageIndex != 0 {
		t.Fatalf("next() = %v, expected page 0", j)
	}

	j, wait, _ := q.next()
	if j != nil {
		t.Fatalf("next() returned page %d before its start delay", j.PageIndex)
	}
	if wait != 400*time.Millisecond {
		t.Errorf("wait = %v, expected 400ms", wait)
	}

	clock.t = clock.t.Add(wait)
	j, _, _ = q.next()
	if j == nil || j.PageIndex != 2 {
		t.Fatalf("next() = %v, expected page 2", j)
	}
}

func TestCompletionDelivered(t *testing.T) {
	r := &fakeRenderer{fail: map[string]bool{"broken": true}}
	q, _ := newTestQueue(r)

	var results []Result
	q.SetCompletionCallback(func(res Result) { results = append(results, res) })

	q.Submit(1, items("a", "broken", "c"))
	runOne(t, q)

	if len(results) != 0 {
		t.Fatal("completion delivered off the mailbox")
	}
	if n := q.RunPending(); n != 1 {
		t.Fatalf("RunPending() = %d, expected 1", n)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, expected 1", len(results))
	}

	arts := results[0].Artifacts
	if len(arts) != 3 {
		t.Fatalf("got %d artifacts, expected 3", len(arts))
	}
	if arts[0].Placeholder || !arts[1].Placeholder || arts[2].Placeholder {
		t.Errorf("placeholder flags = %v %v %v, expected only the failed item", arts[0].Placeholder, arts[1].Placeholder, arts[2].Placeholder)
	}
	if _, ok := q.Job(1); ok {
		t.Error("finished job still live")
	}

	ReleaseAll(arts)
	if q.Pool().Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, expected 0", q.Pool().Outstanding())
	}
}

func TestCancelIdempotent(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})

	h, _ := q.Submit(1, items("a"))
	if !h.Cancel() {
		t.Error("first Cancel() = false, expected true")
	}
	if h.Cancel() {
		t.Error("second Cancel() = true, expected false")
	}
	if j, _, _ := q.next(); j != nil {
		t.Error("cancelled job was handed to a worker")
	}
}

func TestCancelAfterCompletion(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})
	calls := 0
	var arts []*Artifact
	q.SetCompletionCallback(func(res Result) {
		calls++
		arts = res.Artifacts
	})

	h, _ := q.Submit(1, items("a", "b"))
	runOne(t, q)
	q.RunPending()

	if h.Cancel() {
		t.Error("Cancel() after completion = true, expected false")
	}
	if calls != 1 {
		t.Errorf("completion called %d times, expected 1", calls)
	}
	// the consumer still owns both bitmaps
	if q.Pool().Outstanding() != 2 {
		t.Errorf("Outstanding() = %d, expected 2", q.Pool().Outstanding())
	}
	if n := ReleaseAll(arts); n != 2 {
		t.Errorf("ReleaseAll() = %d, expected 2", n)
	}
	if n := ReleaseAll(arts); n != 0 {
		t.Errorf("second ReleaseAll() = %d, expected 0", n)
	}
	if _, released := q.Pool().Stats(); released != 2 {
		t.Errorf("released = %d, expected 2", released)
	}
}

func TestStaleCompletionDropped(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})
	var results []Result
	q.SetCompletionCallback(func(res Result) { results = append(results, res) })

	q.Submit(1, items("a", "b"))
	runOne(t, q)

	// re-issue before the first result reaches the UI goroutine
	h2, _ := q.Submit(1, items("a", "b"))
	q.RunPending()

	if len(results) != 0 {
		t.Fatalf("stale result delivered: %+v", results[0].Key)
	}
	if q.Pool().Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, expected stale buffer released", q.Pool().Outstanding())
	}

	runOne(t, q)
	q.RunPending()
	if len(results) != 1 || results[0].Key != h2.Key() {
		t.Fatalf("results = %+v, expected one for %+v", results, h2.Key())
	}
	ReleaseAll(results[0].Artifacts)
}

func TestPartialArtifactsReleasedOnCancel(t *testing.T) {
	r := &fakeRenderer{}
	q, _ := newTestQueue(r)
	completed := false
	q.SetCompletionCallback(func(Result) { completed = true })

	var h Handle
	r.onRender = func(item model.Item) {
		if item.ID == "c" {
			h.Cancel()
		}
	}
	h, _ = q.Submit(4, items("a", "b", "c", "d", "e"))
	runOne(t, q)
	q.RunPending()

	if completed {
		t.Error("cancelled job delivered a completion")
	}
	if q.Pool().Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, expected 0", q.Pool().Outstanding())
	}
	r.mu.Lock()
	rendered := len(r.rendered)
	r.mu.Unlock()
	if rendered != 3 {
		t.Errorf("rendered %d items, expected to stop after 3", rendered)
	}
}

func TestCancelOutside(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})
	for _, p := range []int{0, 3, 4, 9} {
		q.Submit(p, items("x"))
	}

	cancelled := q.CancelOutside(model.LoadWindow{Lower: 2, Upper: 6})
	if diff := cmp.Diff([]int{0, 9}, cancelled); diff != "" {
		t.Errorf("CancelOutside() mismatch (-expected +got):\n%s", diff)
	}

	var pages []int
	for _, j := range q.Jobs() {
		pages = append(pages, j.PageIndex)
	}
	if diff := cmp.Diff([]int{3, 4}, pages); diff != "" {
		t.Errorf("live pages mismatch (-expected +got):\n%s", diff)
	}
}

func TestUpdateCallback(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})
	var statuses []model.JobStatus
	q.SetUpdateCallback(func(j *model.PrefetchJob) { statuses = append(statuses, j.Status) })

	q.Submit(1, items("a"))
	q.Cancel(1, ReasonDirty)

	expected := []model.JobStatus{model.JobStatusQueued, model.JobStatusCancelled}
	if diff := cmp.Diff(expected, statuses); diff != "" {
		t.Errorf("statuses mismatch (-expected +got):\n%s", diff)
	}
}

func TestCloseRejectsSubmit(t *testing.T) {
	q, _ := newTestQueue(&fakeRenderer{})
	q.Submit(1, items("a"))
	q.Close()

	if _, ok := q.Job(1); ok {
		t.Error("job survived Close()")
	}
	if _, err := q.Submit(2, items("b")); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Submit() after Close() error = %v, expected %v", err, ErrQueueClosed)
	}
	q.Close()
}

func TestWorkersEndToEnd(t *testing.T) {
	q := NewQueue(Options{Workers: 3, Renderer: &fakeRenderer{}})
	q.Start()
	defer q.Close()

	results := map[int]int{}
	q.SetCompletionCallback(func(res Result) {
		results[res.Key.Page] = len(res.Artifacts)
		ReleaseAll(res.Artifacts)
	})

	for p := 0; p < 5; p++ {
		if _, err := q.Submit(p, items("a", "b")); err != nil {
			t.Fatalf("Submit(%d) error = %v", p, err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for len(results) < 5 && time.Now().Before(deadline) {
		q.RunPending()
		time.Sleep(5 * time.Millisecond)
	}

	if len(results) != 5 {
		t.Fatalf("got %d results, expected 5", len(results))
	}
	for p, n := range results {
		if n != 2 {
			t.Errorf("page %d got %d artifacts, expected 2", p, n)
		}
	}
	if q.Pool().Outstanding() != 0 {
		t.Errorf("Outstanding() = %d, expected 0", q.Pool().Outstanding())
	}
}
