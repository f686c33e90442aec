package control

import (
	"math"

	"solenoid-seq/generative"
)

// noDeadline is the "nothing pending" sentinel. It is distinct from any
// reachable timestamp, including zero.
const noDeadline = math.MinInt64

// Schedule tracks one absolute off-deadline per solenoid channel plus
// one for the status indicator. Whoever energizes an output records a
// deadline here; the tick loop sweeps the table and guarantees release
// no matter who requested the pulse. Re-arming a channel overwrites its
// pending deadline: the newest request wins.
type Schedule struct {
	channel   [generative.NumChannels]int64
	indicator int64
}

func NewSchedule() *Schedule {
	s := &Schedule{indicator: noDeadline}
	for i := range s.channel {
		s.channel[i] = noDeadline
	}
	return s
}

// Arm records the off-deadline for a channel.
func (s *Schedule) Arm(ch int, deadline int64) {
	if ch < 0 || ch >= generative.NumChannels {
		return
	}
	s.channel[ch] = deadline
}

// ArmIndicator records the off-deadline for the indicator.
func (s *Schedule) ArmIndicator(deadline int64) {
	s.indicator = deadline
}

// Pending reports whether a channel has an outstanding deadline.
func (s *Schedule) Pending(ch int) bool {
	return s.channel[ch] != noDeadline
}

// IndicatorPending reports whether the indicator has an outstanding
// deadline.
func (s *Schedule) IndicatorPending() bool {
	return s.indicator != noDeadline
}

// Clear drops a channel's deadline without releasing the output.
func (s *Schedule) Clear(ch int) {
	if ch < 0 || ch >= generative.NumChannels {
		return
	}
	s.channel[ch] = noDeadline
}

// ClearAll drops every pending deadline, indicator included.
func (s *Schedule) ClearAll() {
	for i := range s.channel {
		s.channel[i] = noDeadline
	}
	s.indicator = noDeadline
}

// Sweep releases every output whose deadline is due. The comparison is
// a signed difference, so a deadline already in the past counts as due
// rather than sticking forever.
func (s *Schedule) Sweep(now int64, release func(ch int), releaseIndicator func()) {
	for i := range s.channel {
		if s.channel[i] != noDeadline && now-s.channel[i] >= 0 {
			s.channel[i] = noDeadline
			release(i)
		}
	}
	if s.indicator != noDeadline && now-s.indicator >= 0 {
		s.indicator = noDeadline
		releaseIndicator()
	}
}
