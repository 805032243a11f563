// Package audit writes best-effort audit entries. Failures are logged and
// counted, never returned.
package audit

import (
	"context"

	"taskhub-service/internal/model"
	"taskhub-service/internal/store"
	"taskhub-service/prometheus"

	"go.uber.org/zap"
)

type ipKey struct{}

// WithIP stores the client address for entries recorded under ctx
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

// IPFrom returns the client address stored by WithIP
func IPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey{}).(string)
	return ip
}

// Entry describes one mutating action
type Entry struct {
	TenantID   string
	UserID     string
	Action     model.AuditAction
	EntityType string
	EntityID   string
}

// Sink accepts audit entries
type Sink interface {
	Record(ctx context.Context, entry Entry)
}

// Recorder persists entries through the audit log store
type Recorder struct {
	store  store.AuditLogStore
	logger *zap.Logger
}

func NewRecorder(s store.AuditLogStore, logger *zap.Logger) *Recorder {
	return &Recorder{store: s, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, entry Entry) {
	row := &model.AuditLog{
		TenantID:   optional(entry.TenantID),
		UserID:     optional(entry.UserID),
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   optional(entry.EntityID),
		IPAddress:  optional(IPFrom(ctx)),
	}

	if err := r.store.Create(ctx, row); err != nil {
		prometheus.RecordAuditFailure(string(entry.Action))
		r.logger.Warn("Failed to write audit log",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
