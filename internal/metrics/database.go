package metrics

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DatabaseCollector samples connection pool stats into gauges.
type DatabaseCollector struct {
	metrics *Metrics
	logger  *zap.Logger
	sqlDB   *sql.DB
	ticker  *time.Ticker
	stopCh  chan struct{}
}

func NewDatabaseCollector(m *Metrics, logger *zap.Logger, db *gorm.DB) *DatabaseCollector {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get sql.DB from gorm.DB", zap.Error(err))
	}
	return &DatabaseCollector{
		metrics: m,
		logger:  logger,
		sqlDB:   sqlDB,
		stopCh:  make(chan struct{}),
	}
}

func (dc *DatabaseCollector) Start(interval time.Duration) {
	if dc.sqlDB == nil {
		dc.logger.Warn("Cannot start database metrics collector: sqlDB is nil")
		return
	}
	dc.ticker = time.NewTicker(interval)
	go dc.loop()
	dc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dc *DatabaseCollector) Stop() {
	if dc.ticker != nil {
		dc.ticker.Stop()
	}
	close(dc.stopCh)
}

func (dc *DatabaseCollector) loop() {
	dc.collect()
	for {
		select {
		case <-dc.ticker.C:
			dc.collect()
		case <-dc.stopCh:
			return
		}
	}
}

func (dc *DatabaseCollector) collect() {
	stats := dc.sqlDB.Stats()
	dc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
	dc.metrics.DBWaitCount.Set(float64(stats.WaitCount))
}
