package dispatchhandlers

import "github.com/vitalvas/strada/dispatch"

// MultiObserver notifies each observer in order with the same record.
// Nil entries are skipped.
type MultiObserver []dispatch.Observer

// ObserveDispatch implements dispatch.Observer.
func (m MultiObserver) ObserveDispatch(s dispatch.Stats) {
	for _, o := range m {
		if o != nil {
			o.ObserveDispatch(s)
		}
	}
}
