package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store is the gorm backed Provider and TxRunner
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Tenants() TenantStore     { return &tenantStore{db: s.db} }
func (s *Store) Users() UserStore         { return &userStore{db: s.db} }
func (s *Store) Projects() ProjectStore   { return &projectStore{db: s.db} }
func (s *Store) Tasks() TaskStore         { return &taskStore{db: s.db} }
func (s *Store) AuditLogs() AuditLogStore { return &auditLogStore{db: s.db} }

func (s *Store) WithTx(ctx context.Context, fn func(Provider) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translate maps gorm sentinels to store errors and wraps the rest
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(ErrDuplicate, op)
	default:
		return errors.Wrap(err, op)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a lowercase substring pattern; queries use ESCAPE '\'
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
