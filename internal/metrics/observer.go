package metrics

import "video-player/internal/catalog"

// catalogObserver implements catalog.Observer using the Prometheus
// metrics declared in this package.
type catalogObserver struct{}

// NewCatalogObserver creates an observer that records backend client metrics
// into the Prometheus counters and histograms declared in metrics.go.
func NewCatalogObserver() catalog.Observer {
	return &catalogObserver{}
}

func (o *catalogObserver) ObserveRequest(operation string, durationSeconds float64, err error) {
	BackendRequestDuration.WithLabelValues(operation).Observe(durationSeconds)
	BackendRequestsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
	if err != nil {
		BackendReachable.Set(0)
	} else {
		BackendReachable.Set(1)
	}
}

func (o *catalogObserver) ObservePollAttempt() {
	BackendPollAttemptsTotal.Inc()
}

func (o *catalogObserver) ObservePollResult(success bool, attempts int) {
	if success {
		BackendPollsTotal.WithLabelValues("ready").Inc()
	} else {
		BackendPollsTotal.WithLabelValues("gave_up").Inc()
	}
	BackendPollAttempts.Observe(float64(attempts))
}
