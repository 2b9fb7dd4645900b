package prefetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/pager/internal/model"
)

const (
	// JobIDPrefix prefixes every job id
	JobIDPrefix = "preview-"
	// DefaultWorkers is used when Options.Workers is not positive
	DefaultWorkers = 2
)

// ErrQueueClosed is returned by Submit after Close
var ErrQueueClosed = errors.New("prefetch: queue closed")

// Reason tells why a job was cancelled
type Reason int

const (
	// ReasonDirty means the page was invalidated again
	ReasonDirty Reason = iota
	// ReasonOutOfWindow means the page left the load window
	ReasonOutOfWindow
	// ReasonTeardown means the owning surface went away
	ReasonTeardown
)

// String returns a readable reason
func (r Reason) String() string {
	switch r {
	case ReasonDirty:
		return "dirty"
	case ReasonOutOfWindow:
		return "out of window"
	case ReasonTeardown:
		return "teardown"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Result is a finished page delivered on the UI goroutine. The receiver owns
// the artifacts and releases them when done.
type Result struct {
	Key       model.JobKey
	JobID     string
	Artifacts []*Artifact
}

// Options configures a Queue
type Options struct {
	Workers  int
	Delay    time.Duration // start delay per priority step
	Renderer Renderer
	Pool     *Pool
	// Post runs fn on the UI goroutine. Nil queues completions in a mailbox
	// drained by RunPending.
	Post func(fn func())
	Now  func() time.Time
}

// Handle cancels one submitted job
type Handle struct {
	q   *Queue
	key model.JobKey
	id  string
}

// Key returns the job identity
func (h Handle) Key() model.JobKey { return h.key }

// ID returns the job id
func (h Handle) ID() string { return h.id }

// Cancel cancels the job if it is still live. Cancelling twice, or after
// completion, has no effect and returns false.
func (h Handle) Cancel() bool {
	if h.q == nil {
		return false
	}
	return h.q.cancelKey(h.key, ReasonDirty)
}

type job struct {
	model.PrefetchJob
	items  []model.Item
	ctx    context.Context
	cancel context.CancelFunc
}

// Queue is the prioritized, cancellable preview job queue. Submit, SetTarget,
// Cancel and RunPending belong to the UI goroutine; workers only render into
// a private buffer and post it back.
type Queue struct {
	jobs       map[int]*job
	jobsMutex  sync.RWMutex
	generation uint64
	current    int
	target     int
	closed     bool
	wake       chan struct{}
	updates    []model.PrefetchJob

	opts       Options
	onComplete func(Result)
	onUpdate   func(*model.PrefetchJob)

	mailMutex sync.Mutex
	mailbox   []func()

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	starts sync.Once
}

// NewQueue creates a queue. Workers are not running until Start.
func NewQueue(opts Options) *Queue {
	if opts.Renderer == nil {
		panic("prefetch: nil renderer")
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Pool == nil {
		opts.Pool = NewPool()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, stop := context.WithCancel(context.Background())
	q := &Queue{
		jobs: make(map[int]*job),
		wake: make(chan struct{}),
		opts: opts,
		ctx:  ctx,
		stop: stop,
	}
	if q.opts.Post == nil {
		q.opts.Post = q.enqueueMail
	}
	return q
}

// Pool returns the bitmap pool artifacts are drawn from
func (q *Queue) Pool() *Pool {
	return q.opts.Pool
}

// SetCompletionCallback sets the UI-goroutine callback for finished jobs
func (q *Queue) SetCompletionCallback(callback func(Result)) {
	q.onComplete = callback
}

// SetUpdateCallback sets the callback for job status changes
func (q *Queue) SetUpdateCallback(callback func(*model.PrefetchJob)) {
	q.onUpdate = callback
}

// Start launches the worker pool
func (q *Queue) Start() {
	q.starts.Do(func() {
		for i := 0; i < q.opts.Workers; i++ {
			q.wg.Add(1)
			go q.worker()
		}
	})
}

// SetTarget records the current and target page and recomputes the priority
// of every live job
func (q *Queue) SetTarget(current, target int) {
	q.jobsMutex.Lock()
	q.current = current
	q.target = target
	q.reprioritizeLocked()
	q.signalLocked()
	q.jobsMutex.Unlock()
}

// Submit queues a job for page, cancelling any live job for the same page
func (q *Queue) Submit(page int, items []model.Item) (Handle, error) {
	if page < 0 {
		panic(fmt.Sprintf("prefetch: negative page %d", page))
	}

	q.jobsMutex.Lock()
	if q.closed {
		q.jobsMutex.Unlock()
		return Handle{}, ErrQueueClosed
	}
	if prev, ok := q.jobs[page]; ok {
		q.cancelLocked(prev, ReasonDirty)
	}

	q.generation++
	now := q.opts.Now()
	ctx, cancel := context.WithCancel(q.ctx)
	j := &job{
		PrefetchJob: model.PrefetchJob{
			ID:         generateJobID(),
			PageIndex:  page,
			Generation: q.generation,
			Status:     model.JobStatusQueued,
			Items:      len(items),
			SubmitAt:   now,
		},
		items:  append([]model.Item(nil), items...),
		ctx:    ctx,
		cancel: cancel,
	}
	q.jobs[page] = j
	q.reprioritizeLocked()
	q.signalLocked()
	snapshot := j.PrefetchJob
	q.jobsMutex.Unlock()

	q.flushUpdates()
	q.notifyUpdate(&snapshot)
	return Handle{q: q, key: snapshot.Key(), id: snapshot.ID}, nil
}

// Cancel cancels the live job for page
func (q *Queue) Cancel(page int, reason Reason) bool {
	q.jobsMutex.Lock()
	j, ok := q.jobs[page]
	if ok {
		q.cancelLocked(j, reason)
	}
	q.jobsMutex.Unlock()
	q.flushUpdates()
	return ok
}

// CancelOutside cancels every job whose page lies outside window and returns
// the cancelled pages in ascending order
func (q *Queue) CancelOutside(window model.LoadWindow) []int {
	q.jobsMutex.Lock()
	var pages []int
	for page, j := range q.jobs {
		if !window.Contains(page) {
			q.cancelLocked(j, ReasonOutOfWindow)
			pages = append(pages, page)
		}
	}
	if len(pages) > 0 {
		q.reprioritizeLocked()
	}
	q.jobsMutex.Unlock()
	q.flushUpdates()
	sort.Ints(pages)
	return pages
}

// CancelAll cancels every live job
func (q *Queue) CancelAll(reason Reason) int {
	q.jobsMutex.Lock()
	n := len(q.jobs)
	for _, j := range q.jobs {
		q.cancelLocked(j, reason)
	}
	q.jobsMutex.Unlock()
	q.flushUpdates()
	return n
}

// Job returns a snapshot of the live job for page
func (q *Queue) Job(page int) (model.PrefetchJob, bool) {
	q.jobsMutex.RLock()
	defer q.jobsMutex.RUnlock()
	j, ok := q.jobs[page]
	if !ok {
		return model.PrefetchJob{}, false
	}
	return j.PrefetchJob, true
}

// Jobs returns snapshots of all live jobs ordered by page
func (q *Queue) Jobs() []model.PrefetchJob {
	q.jobsMutex.RLock()
	out := make([]model.PrefetchJob, 0, len(q.jobs))
	for _, j := range q.jobs {
		out = append(out, j.PrefetchJob)
	}
	q.jobsMutex.RUnlock()

	sort.Slice(out, func(a, b int) bool { return out[a].PageIndex < out[b].PageIndex })
	return out
}

// RunPending runs completions queued in the mailbox and returns how many ran.
// Only used when no poster was configured.
func (q *Queue) RunPending() int {
	q.mailMutex.Lock()
	pending := q.mailbox
	q.mailbox = nil
	q.mailMutex.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// Close cancels every job, stops the workers and releases undelivered
// results
func (q *Queue) Close() {
	q.jobsMutex.Lock()
	if q.closed {
		q.jobsMutex.Unlock()
		return
	}
	q.closed = true
	for _, j := range q.jobs {
		q.cancelLocked(j, ReasonTeardown)
	}
	q.jobsMutex.Unlock()
	q.flushUpdates()

	q.stop()
	q.wg.Wait()
	// completions still in the mailbox find no live job and release
	q.RunPending()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		j, wait, wake := q.next()
		if j != nil {
			q.run(j)
			continue
		}

		var timer *time.Timer
		var fire <-chan time.Time
		if wait > 0 {
			timer = time.NewTimer(wait)
			fire = timer.C
		}
		select {
		case <-q.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-wake:
		case <-fire:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

// next claims the best runnable job. With nothing runnable it returns how
// long until the earliest delayed job and the channel signalling new work.
func (q *Queue) next() (*job, time.Duration, <-chan struct{}) {
	q.jobsMutex.Lock()
	defer q.jobsMutex.Unlock()

	if q.closed {
		return nil, 0, q.wake
	}

	now := q.opts.Now()
	var best *job
	var wait time.Duration
	for _, j := range q.jobs {
		if j.Status != model.JobStatusQueued {
			continue
		}
		if j.StartAt.After(now) {
			if d := j.StartAt.Sub(now); wait == 0 || d < wait {
				wait = d
			}
			continue
		}
		if best == nil || before(j, best) {
			best = j
		}
	}
	if best == nil {
		return nil, wait, q.wake
	}
	best.Status = model.JobStatusRunning
	return best, 0, q.wake
}

func before(a, b *job) bool {
	if a.Tier != b.Tier {
		return a.Tier < b.Tier
	}
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.SubmitAt.Before(b.SubmitAt)
}

// run renders every item of j into a private buffer and posts it to the UI
// goroutine. Cancellation is checked between items.
func (q *Queue) run(j *job) {
	q.jobsMutex.RLock()
	snapshot := j.PrefetchJob
	q.jobsMutex.RUnlock()
	q.notifyUpdate(&snapshot)

	buf := make([]*Artifact, 0, len(j.items))
	for _, item := range j.items {
		if j.ctx.Err() != nil {
			q.discard(j, buf)
			return
		}
		a, err := q.opts.Renderer.Render(j.ctx, item, q.opts.Pool)
		if err != nil || a == nil {
			if j.ctx.Err() != nil {
				a.Release()
				q.discard(j, buf)
				return
			}
			log.Printf("prefetch: job %s page %d item %q: render failed: %v", j.ID, j.PageIndex, item.ID, err)
			a = q.opts.Renderer.Placeholder(item, q.opts.Pool)
		}
		buf = append(buf, a)
	}
	if j.ctx.Err() != nil {
		q.discard(j, buf)
		return
	}

	key := snapshot.Key()
	q.opts.Post(func() { q.complete(key, buf) })
}

// discard releases the partial buffer of a cancelled job
func (q *Queue) discard(j *job, buf []*Artifact) {
	if n := ReleaseAll(buf); n > 0 {
		log.Printf("prefetch: job %s page %d cancelled, released %d partial previews", j.ID, j.PageIndex, n)
	}
}

// complete runs on the UI goroutine. A result whose key is no longer the live
// job for its page is dropped and its buffer released.
func (q *Queue) complete(key model.JobKey, buf []*Artifact) {
	q.jobsMutex.Lock()
	j, ok := q.jobs[key.Page]
	if !ok || j.Generation != key.Generation || j.Status != model.JobStatusRunning {
		q.jobsMutex.Unlock()
		if n := ReleaseAll(buf); n > 0 {
			log.Printf("prefetch: dropped stale result for page %d generation %d", key.Page, key.Generation)
		}
		return
	}
	j.Status = model.JobStatusDone
	j.FinishedAt = q.opts.Now()
	j.cancel()
	delete(q.jobs, key.Page)
	q.reprioritizeLocked()
	snapshot := j.PrefetchJob
	q.jobsMutex.Unlock()

	q.notifyUpdate(&snapshot)
	if q.onComplete == nil {
		ReleaseAll(buf)
		return
	}
	q.onComplete(Result{Key: key, JobID: snapshot.ID, Artifacts: buf})
}

func (q *Queue) cancelKey(key model.JobKey, reason Reason) bool {
	q.jobsMutex.Lock()
	j, ok := q.jobs[key.Page]
	if !ok || j.Generation != key.Generation {
		q.jobsMutex.Unlock()
		return false
	}
	q.cancelLocked(j, reason)
	q.jobsMutex.Unlock()
	q.flushUpdates()
	return true
}

// cancelLocked removes j from the live set; a running worker notices the
// cancelled context and releases what it produced
func (q *Queue) cancelLocked(j *job, reason Reason) {
	if j.Status.IsFinished() {
		return
	}
	j.Status = model.JobStatusCancelled
	j.FinishedAt = q.opts.Now()
	j.cancel()
	delete(q.jobs, j.PageIndex)
	log.Printf("prefetch: cancelled job %s page %d (%s)", j.ID, j.PageIndex, reason)
	q.updates = append(q.updates, j.PrefetchJob)
}

// flushUpdates reports status changes collected under the lock
func (q *Queue) flushUpdates() {
	q.jobsMutex.Lock()
	updates := q.updates
	q.updates = nil
	q.jobsMutex.Unlock()

	for i := range updates {
		q.notifyUpdate(&updates[i])
	}
}

func (q *Queue) reprioritizeLocked() {
	others := make([]int, 0, len(q.jobs))
	for _, j := range q.jobs {
		others = others[:0]
		for _, o := range q.jobs {
			if o != j {
				others = append(others, o.PageIndex)
			}
		}
		j.Priority = normalizedPriority(j.PageIndex, q.target, others)
		j.Tier = directionalTier(j.PageIndex, q.current, q.target, j.Priority)
		if j.Status == model.JobStatusQueued {
			j.StartAt = j.SubmitAt.Add(time.Duration(j.Priority) * q.opts.Delay)
		}
	}
}

// signalLocked wakes every idle worker
func (q *Queue) signalLocked() {
	close(q.wake)
	q.wake = make(chan struct{})
}

func (q *Queue) enqueueMail(fn func()) {
	q.mailMutex.Lock()
	q.mailbox = append(q.mailbox, fn)
	q.mailMutex.Unlock()
}

func (q *Queue) notifyUpdate(job *model.PrefetchJob) {
	if q.onUpdate != nil {
		q.onUpdate(job)
	}
}

// generateJobID generates a unique, time ordered job id
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
