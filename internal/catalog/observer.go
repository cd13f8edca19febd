package catalog

// Observer records backend client metrics. Implementations are provided by
// the metrics package to break the import cycle between catalog and metrics.
type Observer interface {
	// ObserveRequest records duration and outcome of one backend call.
	// operation is one of "list", "remove", "scan_path", "suggest", "export".
	ObserveRequest(operation string, durationSeconds float64, err error)

	// ObservePollAttempt records one list attempt made while waiting for the
	// backend to come back after a rescan.
	ObservePollAttempt()
	ObservePollResult(success bool, attempts int)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observeRequest(operation string, durationSeconds float64, err error) {
	if defaultObserver != nil {
		defaultObserver.ObserveRequest(operation, durationSeconds, err)
	}
}

func observePollAttempt() {
	if defaultObserver != nil {
		defaultObserver.ObservePollAttempt()
	}
}

func observePollResult(success bool, attempts int) {
	if defaultObserver != nil {
		defaultObserver.ObservePollResult(success, attempts)
	}
}
