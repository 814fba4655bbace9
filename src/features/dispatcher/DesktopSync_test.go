package dispatcher

import (
	"context"
	"reflect"
	"testing"
	"time"

	wperrors "github.com/ln64-git/setwallpaper/src/errors"
)

func TestDesktopSync(t *testing.T) {
	const (
		settle = time.Second
		delay  = 150 * time.Millisecond
	)

	tests := []struct {
		name       string
		running    []bool
		spawnErr   error
		wantKind   wperrors.Kind
		wantSleeps []time.Duration
		wantCalls  []string
	}{
		{
			name:       "already running",
			running:    []bool{true},
			wantSleeps: []time.Duration{delay},
			wantCalls:  []string{"pgrep pcmanfm-qt"},
		},
		{
			name:       "started and settled",
			running:    []bool{false, true},
			wantSleeps: []time.Duration{settle},
			wantCalls:  []string{"pgrep pcmanfm-qt", "start pcmanfm-qt --desktop", "pgrep pcmanfm-qt"},
		},
		{
			name:       "never comes up",
			running:    []bool{false},
			wantKind:   wperrors.KindDesktopSyncTimeout,
			wantSleeps: []time.Duration{settle},
			wantCalls:  []string{"pgrep pcmanfm-qt", "start pcmanfm-qt --desktop", "pgrep pcmanfm-qt"},
		},
		{
			name:      "cannot be started",
			running:   []bool{false},
			spawnErr:  errBoom,
			wantKind:  wperrors.KindDesktopSyncTimeout,
			wantCalls: []string{"pgrep pcmanfm-qt", "start pcmanfm-qt --desktop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner()
			runner.running = tt.running
			runner.failSpawn = tt.spawnErr

			var sleeps []time.Duration
			s := NewDesktopSync(runner, nil, "pcmanfm-qt", settle, delay, func(d time.Duration) {
				sleeps = append(sleeps, d)
			})

			err := s.Sync(context.Background())
			if got := wperrors.KindOf(err); got != tt.wantKind {
				t.Errorf("kind = %q, want %q (err %v)", got, tt.wantKind, err)
			}
			if tt.wantKind != "" && tt.wantKind.Fatal() {
				t.Errorf("%s must not be fatal", tt.wantKind)
			}
			if !reflect.DeepEqual(sleeps, tt.wantSleeps) {
				t.Errorf("sleeps = %v, want %v", sleeps, tt.wantSleeps)
			}
			if got := runner.Calls(); !reflect.DeepEqual(got, tt.wantCalls) {
				t.Errorf("calls = %v, want %v", got, tt.wantCalls)
			}
		})
	}
}
