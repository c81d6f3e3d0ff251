package core

import "time"

// Timer frequencies for common MCUs
const (
	TimerFreq = 12000000 // 12MHz default timer frequency
)

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32((uint64(us) * TimerFreq) / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32((uint64(ticks) * 1000000) / TimerFreq)
}

// TimerFromDuration converts a duration to timer ticks, saturating at the
// 32-bit tick range
func TimerFromDuration(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	us := d.Microseconds()
	if us > int64(TimerToUS(^uint32(0))) {
		return ^uint32(0)
	}
	return TimerFromUS(uint32(us))
}
