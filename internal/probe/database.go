package probe

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zapdesk/statusd/internal/models"
)

// DatabaseProbe checks the relational datastore with a trivial
// round-trip query.
type DatabaseProbe struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewDatabaseProbe creates a datastore probe.
func NewDatabaseProbe(db *gorm.DB, timeout time.Duration) *DatabaseProbe {
	return &DatabaseProbe{db: db, timeout: timeout}
}

// Slug returns the service slug this probe reports under.
func (p *DatabaseProbe) Slug() string {
	return "database"
}

// Check runs SELECT 1 against the datastore.
func (p *DatabaseProbe) Check(ctx context.Context) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var one int
	err := p.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			Status:         models.StatusOutage,
			ResponseTimeMs: elapsed,
			Err:            err.Error(),
		}
	}

	return Result{Status: models.StatusOperational, ResponseTimeMs: elapsed}
}
