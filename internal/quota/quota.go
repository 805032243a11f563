package quota

import (
	"fmt"

	"taskhub-service/internal/apperror"
	"taskhub-service/internal/model"
	"taskhub-service/prometheus"
)

// Resource is a quota-limited resource kind
type Resource string

const (
	Users    Resource = "users"
	Projects Resource = "projects"
)

// Limit returns the tenant's cap for the resource
func Limit(tenant *model.Tenant, resource Resource) int {
	switch resource {
	case Users:
		return tenant.MaxUsers
	case Projects:
		return tenant.MaxProjects
	}
	return 0
}

// CheckCapacity allows a creation only while current < limit
func CheckCapacity(tenant *model.Tenant, resource Resource, current int64) error {
	limit := Limit(tenant, resource)
	if current < int64(limit) {
		return nil
	}
	prometheus.RecordQuotaRejected(string(resource))
	return apperror.Limit(fmt.Sprintf("%s limit reached (%d)", resource, limit))
}
