package agent

import (
	"context"
	"math/rand"
	"time"

	"gonum.org/x/gonum/stat/distuv"
)

// DefaultExecutorRateHz is the background executor's default tick rate
// when Config.ExecutorRateHz is left zero.
const DefaultExecutorRateHz = 10.0

// StartOptimizationLoop launches a background executor that sleeps for an
// exponentially distributed interval with rate config.ExecutorRateHz
// between ticks, calling Iterate(true) on each wake. Acceleration and the
// background executor are mutually exclusive: StartOptimizationLoop fails
// if AccelerationEnabled is set. A no-op if the executor is already
// running.
func (a *Agent) StartOptimizationLoop() error {
	if a.config.AccelerationEnabled {
		return ErrAccelerationExecutorConflict
	}

	a.executorMu.Lock()
	defer a.executorMu.Unlock()
	if a.executorCancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.executorCancel = cancel
	a.executorDone = done

	rng := a.config.ExecutorRand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	rate := a.config.ExecutorRateHz
	if rate <= 0 {
		rate = DefaultExecutorRateHz
	}
	interval := distuv.Exponential{Rate: rate, Src: rng}

	go a.runExecutor(ctx, done, interval)
	return nil
}

func (a *Agent) runExecutor(ctx context.Context, done chan struct{}, interval distuv.Exponential) {
	defer close(done)
	for {
		wait := time.Duration(interval.Rand() * float64(time.Second))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if err := a.Iterate(true); err != nil {
			a.logf("agent %d: background iterate failed: %v", a.config.RobotID, err)
		}
	}
}

// EndOptimizationLoop raises the executor's cancellation flag and blocks
// until its goroutine has exited: the executor wakes from its sleep on
// cancellation, exits, and is joined here. Reset calls this before mutating
// state. Safe to call when no executor is running.
func (a *Agent) EndOptimizationLoop() {
	a.executorMu.Lock()
	cancel := a.executorCancel
	done := a.executorDone
	a.executorCancel = nil
	a.executorDone = nil
	a.executorMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
