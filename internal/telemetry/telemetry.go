// Package telemetry provides low-overhead, strictly observational workload
// classification for a CT tree. It never influences split, merge, or
// compression decisions; it only informs the Dump() diagnostic string.
//
// Adapted from the detector/metrics design of the HDF5 rebalancing
// subsystem this repository's base tree was grounded on: the same
// atomic-counter recording style, but with the decision-making half
// (WorkloadDetector driving a SmartRebalancer) deliberately dropped. Merge
// eagerness here is fixed (see basetree.Tree.tryMerge), so there is nothing
// for a workload classification to drive.
package telemetry

import (
	"fmt"
	"sync/atomic"
)

// OpKind identifies which tree operation was observed.
type OpKind int

const (
	OpGet OpKind = iota
	OpPut
	OpDelete
)

// WorkloadType classifies the operation mix recorded so far.
type WorkloadType int

const (
	WorkloadUnknown WorkloadType = iota
	WorkloadReadHeavy
	WorkloadWriteHeavy
	WorkloadDeleteHeavy
	WorkloadMixed
)

func (w WorkloadType) String() string {
	switch w {
	case WorkloadReadHeavy:
		return "read-heavy"
	case WorkloadWriteHeavy:
		return "write-heavy"
	case WorkloadDeleteHeavy:
		return "delete-heavy"
	case WorkloadMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// minSampleSize is the number of observations below which classification
// stays WorkloadUnknown rather than reacting to noise.
const minSampleSize = 20

// Collector records operation counts with atomic counters, matching the
// teacher's MetricsCollector's lock-free recording path.
type Collector struct {
	reads   atomic.Uint64
	writes  atomic.Uint64
	deletes atomic.Uint64
}

// NewCollector constructs an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Observe records one operation. key is accepted for future hot-key
// tracking but is not currently used by classification.
func (c *Collector) Observe(op OpKind, _ int64) {
	switch op {
	case OpGet:
		c.reads.Add(1)
	case OpPut:
		c.writes.Add(1)
	case OpDelete:
		c.deletes.Add(1)
	}
}

// Classify reports the dominant workload shape observed so far.
func (c *Collector) Classify() WorkloadType {
	reads := c.reads.Load()
	writes := c.writes.Load()
	deletes := c.deletes.Load()
	total := reads + writes + deletes
	if total < minSampleSize {
		return WorkloadUnknown
	}

	if deletes*100/total >= 40 {
		return WorkloadDeleteHeavy
	}
	if reads*100/total >= 70 {
		return WorkloadReadHeavy
	}
	if writes*100/total >= 70 {
		return WorkloadWriteHeavy
	}
	return WorkloadMixed
}

// Summary renders a one-line diagnostic fragment for Dump().
func (c *Collector) Summary() string {
	return fmt.Sprintf("telemetry{reads=%d, writes=%d, deletes=%d, workload=%s}",
		c.reads.Load(), c.writes.Load(), c.deletes.Load(), c.Classify())
}
