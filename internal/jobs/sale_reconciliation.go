// File: internal/jobs/sale_reconciliation.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"realestate_backend/internal/config"
	"realestate_backend/internal/offer"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SaleReconciliationJob periodically re-applies the sale cascade for bought
// offers whose side effects did not all land: property still open, pending
// competitors left behind, or stale wishlist entries. This is the retry arm
// of the best-effort cascade policy.
type SaleReconciliationJob struct {
	offerService  offer.Service
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewSaleReconciliationJob creates a new SaleReconciliationJob.
func NewSaleReconciliationJob(
	offerService offer.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *SaleReconciliationJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &SaleReconciliationJob{
		offerService:  offerService,
		logger:        logger.Named("SaleReconciliationJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *SaleReconciliationJob) SetupAndStart() error {
	jobSpec := j.cfg.SaleReconcileJobSchedule // e.g., "@hourly", "0 * * * *"
	if jobSpec == "" {
		j.logger.Warn("Sale reconciliation job schedule not defined (SALE_RECONCILE_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule sale reconciliation job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Sale reconciliation job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *SaleReconciliationJob) runJob() {
	j.logger.Info("Starting sale reconciliation job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repaired, err := j.offerService.ReconcileSales(ctx)
	if err != nil {
		j.logger.Error("Sale reconciliation job run failed", zap.Error(err))
	} else {
		j.logger.Info("Sale reconciliation job run completed", zap.Int("sales_repaired", repaired))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *SaleReconciliationJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping sale reconciliation job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Sale reconciliation job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Sale reconciliation job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
