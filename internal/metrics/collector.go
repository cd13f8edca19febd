package metrics

import (
	"os"
	"time"

	"video-player/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current statistics
type Stats struct {
	State            string
	CatalogEntries   int
	CatalogBytes     uint64
	SelectionEntries int
	ActiveSessions   int
	WebsocketClients int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector. dbPath may be empty when
// there is no database to measure.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	c.collectDBSize()

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogEntries.Set(float64(stats.CatalogEntries))
	CatalogBytes.Set(float64(stats.CatalogBytes))
	SelectionEntries.Set(float64(stats.SelectionEntries))
	ActiveSessions.Set(float64(stats.ActiveSessions))
	WebsocketClients.Set(float64(stats.WebsocketClients))
	if stats.State != "" {
		SetSessionState(stats.State)
	}

	logging.Debug("Metrics collected: state=%s, catalog=%d, selection=%d, sessions=%d, ws=%d",
		stats.State, stats.CatalogEntries, stats.SelectionEntries, stats.ActiveSessions, stats.WebsocketClients)
}

func (c *Collector) collectDBSize() {
	if c.dbPath == "" {
		return
	}

	files := map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	}
	for label, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			DBSizeBytes.WithLabelValues(label).Set(0)
			continue
		}
		DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
	}
}

// StatsFunc adapts a plain function to StatsProvider.
type StatsFunc func() Stats

// GetStats calls f.
func (f StatsFunc) GetStats() Stats {
	return f()
}
