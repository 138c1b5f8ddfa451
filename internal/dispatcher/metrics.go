package dispatcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/dshills/qemacs/internal/dispatcher/handler"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	actions map[string]*ActionMetrics

	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64
	totalDuration   time.Duration
}

// ActionMetrics holds the counters of one action.
type ActionMetrics struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastStatus    handler.ResultStatus
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{actions: make(map[string]*ActionMetrics)}
}

// RecordDispatch records one completed dispatch.
func (m *Metrics) RecordDispatch(name string, d time.Duration, status handler.ResultStatus) {
	m.totalDispatches++
	m.totalDuration += d

	am := m.actions[name]
	if am == nil {
		am = &ActionMetrics{Name: name}
		m.actions[name] = am
	}
	am.DispatchCount++
	am.TotalDuration += d
	am.MaxDuration = max(am.MaxDuration, d)
	am.LastStatus = status
	if status == handler.StatusError {
		m.totalErrors++
		am.ErrorCount++
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(name string) {
	m.totalPanics++
}

// TotalDispatches returns the number of dispatches.
func (m *Metrics) TotalDispatches() uint64 { return m.totalDispatches }

// TotalErrors returns the number of failed dispatches.
func (m *Metrics) TotalErrors() uint64 { return m.totalErrors }

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 { return m.totalPanics }

// ActionStats returns a copy of the counters for an action, or nil.
func (m *Metrics) ActionStats(name string) *ActionMetrics {
	am := m.actions[name]
	if am == nil {
		return nil
	}
	c := *am
	return &c
}

// TopActions returns the n most dispatched actions.
func (m *Metrics) TopActions(n int) []ActionMetrics {
	out := make([]ActionMetrics, 0, len(m.actions))
	for _, am := range m.actions {
		out = append(out, *am)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DispatchCount != out[j].DispatchCount {
			return out[i].DispatchCount > out[j].DispatchCount
		}
		return out[i].Name < out[j].Name
	})
	return out[:min(n, len(out))]
}

// Summary renders the totals on one line.
func (m *Metrics) Summary() string {
	var avg time.Duration
	if m.totalDispatches > 0 {
		avg = m.totalDuration / time.Duration(m.totalDispatches)
	}
	return fmt.Sprintf("%d commands, %d errors, %d panics, average %v",
		m.totalDispatches, m.totalErrors, m.totalPanics, avg)
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	*m = *NewMetrics()
}
