package database

import (
	"taskhub-service/prometheus"

	"gorm.io/gorm"
)

const metricsDoneKey = "taskhub:metrics_done"

type registerFunc func(name string, fn func(*gorm.DB)) error

// registerMetrics times every statement into the db operation histogram,
// labelled "<kind>_<table>"
func registerMetrics(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		kind   string
		before registerFunc
		after  registerFunc
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		kind := h.kind
		if err := h.before("metrics:before_"+kind, func(tx *gorm.DB) {
			tx.InstanceSet(metricsDoneKey, prometheus.TrackDBOperation(kind+"_"+tx.Statement.Table))
		}); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+kind, func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(metricsDoneKey); ok {
				if done, ok := v.(func()); ok {
					done()
				}
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
