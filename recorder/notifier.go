package recorder

// Notifier receives lifecycle transitions from a Recorder: start,
// flush, stop, and (via RecoverWithNotifier) recover. recstatus.Broadcaster
// implements this structurally; this package never imports recstatus,
// keeping the status broadcast one layer above the synchronous core.
type Notifier interface {
	Notify(eventType, path string, frameCount uint64)
}

// SetNotifier wires an optional Notifier. A nil Notifier (the default)
// makes every lifecycle transition a no-op.
func (r *Recorder) SetNotifier(n Notifier) {
	r.notifier = n
}

func (r *Recorder) notify(eventType string) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(eventType, r.path, r.frameCount)
}

func notifyRecover(n Notifier, path string, frameCount uint64) {
	if n == nil {
		return
	}
	n.Notify("recover", path, frameCount)
}
