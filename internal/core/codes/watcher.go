package codes

// State is the part of the registry a watcher reads.
type State interface {
	Contains(Code) bool
	Consume(Code) bool
}

// Watcher reacts to a latched code. A plain watcher fires once, the first
// time its code is seen active, and leaves the code latched. A consuming
// watcher clears the code and fires every time it finds it latched.
type Watcher struct {
	Name    string
	Code    Code
	Consume bool

	activated bool
}

func NewWatcher(name string, code Code) *Watcher {
	return &Watcher{Name: name, Code: code}
}

func NewConsumeWatcher(name string, code Code) *Watcher {
	return &Watcher{Name: name, Code: code, Consume: true}
}

// Poll checks state and reports whether the watcher fired.
func (w *Watcher) Poll(state State) bool {
	if w.Consume {
		return state.Consume(w.Code)
	}
	if w.activated || !state.Contains(w.Code) {
		return false
	}
	w.activated = true
	return true
}
