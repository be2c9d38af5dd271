package coordinator

import (
	"sync/atomic"

	"github.com/BTreeMap/CareRoute/internal/models"
)

// Stats counts routing outcomes. Counters are atomic so Process can bump
// them without holding any lock.
type Stats struct {
	deterministic atomic.Int64
	intelligent   atomic.Int64
	fallback      atomic.Int64
	emergencies   atomic.Int64
	errors        atomic.Int64

	dispatchDiabetes atomic.Int64
	dispatchObesity  atomic.Int64
	dispatchGeneral  atomic.Int64
}

func (s *Stats) countDispatch(specialty models.Specialty) {
	switch specialty {
	case models.SpecialtyDiabetes:
		s.dispatchDiabetes.Add(1)
	case models.SpecialtyObesity:
		s.dispatchObesity.Add(1)
	case models.SpecialtyGeneral:
		s.dispatchGeneral.Add(1)
	}
}

// StatsSnapshot is a point-in-time copy of the routing counters.
type StatsSnapshot struct {
	Deterministic int64 `json:"deterministic"`
	Intelligent   int64 `json:"intelligent"`
	Fallback      int64 `json:"fallback"`
	Emergencies   int64 `json:"emergencies"`
	Errors        int64 `json:"errors"`
	Total         int64 `json:"total"`

	Dispatches map[models.Specialty]int64 `json:"dispatches"`
}

// Snapshot returns the current counter values.
func (c *Coordinator) Snapshot() StatsSnapshot {
	s := StatsSnapshot{
		Deterministic: c.stats.deterministic.Load(),
		Intelligent:   c.stats.intelligent.Load(),
		Fallback:      c.stats.fallback.Load(),
		Emergencies:   c.stats.emergencies.Load(),
		Errors:        c.stats.errors.Load(),
		Dispatches: map[models.Specialty]int64{
			models.SpecialtyDiabetes: c.stats.dispatchDiabetes.Load(),
			models.SpecialtyObesity:  c.stats.dispatchObesity.Load(),
			models.SpecialtyGeneral:  c.stats.dispatchGeneral.Load(),
		},
	}
	s.Total = s.Deterministic + s.Intelligent + s.Fallback
	return s
}

// ActiveSessions reports the number of live sessions.
func (c *Coordinator) ActiveSessions() int {
	return c.sessions.ActiveCount()
}
