package metrics

// BackendOperations lists the operation labels used for backend calls.
var BackendOperations = []string{"list", "remove", "scan_path", "suggest", "export", "video"}

// SessionEvents lists the event labels counted by SessionEventsTotal.
var SessionEvents = []string{
	"load", "select", "ready", "advance", "sort", "remove", "delete",
	"scan_path", "toggle", "export", "player", "clear",
}

// ContractErrors lists the error labels counted by SessionContractViolations.
var ContractErrors = []string{"invalid_selection", "not_found", "empty_catalog", "no_current_selection"}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range BackendOperations {
		BackendRequestsTotal.WithLabelValues(op, "success")
		BackendRequestsTotal.WithLabelValues(op, "error")
		BackendRequestDuration.WithLabelValues(op)
	}
	for _, result := range []string{"ready", "gave_up"} {
		BackendPollsTotal.WithLabelValues(result)
	}

	for _, event := range SessionEvents {
		SessionEventsTotal.WithLabelValues(event)
	}
	for _, e := range ContractErrors {
		SessionContractViolations.WithLabelValues(e)
	}
	for _, status := range []string{"success", "error"} {
		CatalogLoadsTotal.WithLabelValues(status)
		PlaylistExportsTotal.WithLabelValues(status)
	}
	SetSessionState("idle")

	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}
	for _, op := range []string{"initialize_schema", "create_session", "validate_session",
		"delete_session", "delete_all_sessions", "cleanup_sessions", "get_preferences", "save_preferences"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, result := range []string{"success", "failure"} {
		AuthAttemptsTotal.WithLabelValues(result)
	}
	for _, outcome := range []string{"sent", "dropped"} {
		WebsocketMessagesTotal.WithLabelValues(outcome)
	}
}
