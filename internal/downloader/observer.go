package downloader

// Observer receives loop events. Methods are called synchronously from Run.
type Observer interface {
	AttemptStarted(s Session)
	ImageAccepted(path string, s Session)
	DuplicateSkipped(hash string, s Session)
	AttemptFailed(err error, s Session)
	// Completed fires once when the target count is reached, including a zero target
	Completed(s Session)
	// Stopped fires when the run ends early on cancellation, attempt bound or a fatal error
	Stopped(err error, s Session)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) AttemptStarted(Session)          {}
func (NopObserver) ImageAccepted(string, Session)    {}
func (NopObserver) DuplicateSkipped(string, Session) {}
func (NopObserver) AttemptFailed(error, Session)     {}
func (NopObserver) Completed(Session)                {}
func (NopObserver) Stopped(error, Session)           {}
