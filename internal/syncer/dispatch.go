package syncer

// Dispatcher serializes cache mutations onto the UI-owning thread of
// control. Any network completion that writes to a cache hops through Do
// before mutating.
type Dispatcher interface {
	Do(fn func())
}

// InlineDispatcher runs functions synchronously on the calling goroutine.
// Used by the CLI (whose event loop is the calling goroutine) and by tests.
type InlineDispatcher struct{}

func (InlineDispatcher) Do(fn func()) {
	fn()
}

// Loop is a single-goroutine serial executor: the Go rendition of
// "post to the main thread".
type Loop struct {
	work chan func()
	done chan struct{}
}

func NewLoop() *Loop {
	l := &Loop{
		work: make(chan func(), 16),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for fn := range l.work {
		fn()
	}
}

// Do posts fn to the loop goroutine and returns once it has run. Blocking
// keeps the caller's view of the cache current, matching the UI dispatch
// discipline where the completion resumes after the hop.
func (l *Loop) Do(fn func()) {
	ran := make(chan struct{})
	l.work <- func() {
		fn()
		close(ran)
	}
	<-ran
}

// Close stops the loop after draining queued work.
func (l *Loop) Close() {
	close(l.work)
	<-l.done
}
