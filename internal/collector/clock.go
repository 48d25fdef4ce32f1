package collector

import "time"

// Clock supplies the current time. Tests swap in a manual clock so
// throttle and flush arithmetic is deterministic.
type Clock func() time.Time
