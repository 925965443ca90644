package lifecycle

import (
	"fmt"

	"vintage-auction/utils"

	"github.com/robfig/cron/v3"
)

// Sweeper runs the settlement sweep on a cron schedule. Duplicate or
// overlapping firings are harmless: settlement is idempotent.
type Sweeper struct {
	cron    *cron.Cron
	settler *Settler
}

// NewSweeper schedules SweepExpired on the given cron spec (with a seconds
// field, e.g. "*/5 * * * * *").
func NewSweeper(settler *Settler, schedule string) (*Sweeper, error) {
	s := &Sweeper{
		cron:    cron.New(cron.WithSeconds()),
		settler: settler,
	}

	_, err := s.cron.AddFunc(schedule, func() {
		settled, err := s.settler.SweepExpired()
		if err != nil {
			utils.Error("settlement sweep failed", map[string]any{"error": err.Error()})
			return
		}
		if settled > 0 {
			utils.Info("settlement sweep completed", map[string]any{"settled": settled})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule settlement sweep %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
