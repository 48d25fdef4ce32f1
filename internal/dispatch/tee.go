package dispatch

import "github.com/LucasStill/webai-collector/internal/collector"

// Tee fans one snapshot out to several dispatchers in order.
type Tee []collector.Dispatcher

func (t Tee) Dispatch(snap collector.Snapshot) {
	for _, d := range t {
		d.Dispatch(snap)
	}
}
