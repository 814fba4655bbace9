package dispatcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ln64-git/setwallpaper/src/utility"
)

// fakeRunner records every invocation instead of executing anything
type fakeRunner struct {
	mu        sync.Mutex
	onPath    map[string]bool
	running   []bool // successive IsRunning answers; the last one repeats
	failRun   map[string]error
	failSpawn error
	calls     []string
}

func newFakeRunner(onPath ...string) *fakeRunner {
	r := &fakeRunner{onPath: map[string]bool{}, failRun: map[string]error{}}
	for _, name := range onPath {
		r.onPath[name] = true
	}
	return r
}

func (r *fakeRunner) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (*utility.Result, error) {
	r.record("run " + strings.Join(append([]string{name}, args...), " "))
	if err := r.failRun[name]; err != nil {
		return &utility.Result{ExitCode: 1}, err
	}
	return &utility.Result{}, nil
}

func (r *fakeRunner) Start(name string, args ...string) error {
	r.record("start " + strings.Join(append([]string{name}, args...), " "))
	return r.failSpawn
}

func (r *fakeRunner) LookPath(name string) bool {
	return r.onPath[name]
}

func (r *fakeRunner) IsRunning(ctx context.Context, name string) bool {
	r.record("pgrep " + name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.running) == 0 {
		return false
	}
	answer := r.running[0]
	if len(r.running) > 1 {
		r.running = r.running[1:]
	}
	return answer
}

func (r *fakeRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// journal is shared by fake back ends and syncers so tests can assert on the
// combined call order
type journal struct {
	entries []string
}

func (j *journal) add(entry string) {
	j.entries = append(j.entries, entry)
}

type fakeBackend struct {
	name    string
	journal *journal
	errs    []error // returned by successive calls; nil once exhausted
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Apply(ctx context.Context, imagePath string) error {
	b.journal.add(b.name)
	if len(b.errs) == 0 {
		return nil
	}
	err := b.errs[0]
	b.errs = b.errs[1:]
	return err
}

type fakeSyncer struct {
	journal *journal
	err     error
}

func (s *fakeSyncer) Sync(ctx context.Context) error {
	s.journal.add("sync")
	return s.err
}

type fakePlasma struct {
	err     error
	scripts []string
}

func (p *fakePlasma) EvaluateScript(ctx context.Context, script string) error {
	p.scripts = append(p.scripts, script)
	return p.err
}

// fakeClock advances only when told to
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var errBoom = errors.New("boom")
