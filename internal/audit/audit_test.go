package audit_test

import (
	"context"
	"errors"

	"taskhub-service/internal/audit"
	"taskhub-service/internal/model"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAuditStore struct {
	createFn func(ctx context.Context, entry *model.AuditLog) error
}

func (f *fakeAuditStore) Create(ctx context.Context, entry *model.AuditLog) error {
	return f.createFn(ctx, entry)
}

var _ = Describe("Recorder", func() {
	var (
		logs  *observer.ObservedLogs
		log   *zap.Logger
		saved []*model.AuditLog
		fake  *fakeAuditStore
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		log = zap.New(core)
		saved = nil
		fake = &fakeAuditStore{createFn: func(_ context.Context, entry *model.AuditLog) error {
			saved = append(saved, entry)
			return nil
		}}
	})

	It("persists the entry with the request ip", func() {
		ctx := audit.WithIP(context.Background(), "10.0.0.7")
		audit.NewRecorder(fake, log).Record(ctx, audit.Entry{
			TenantID: "t-1", UserID: "u-1", Action: model.ActionCreateProject, EntityType: "project", EntityID: "p-1",
		})

		Expect(saved).To(HaveLen(1))
		Expect(*saved[0].TenantID).To(Equal("t-1"))
		Expect(*saved[0].IPAddress).To(Equal("10.0.0.7"))
		Expect(saved[0].Action).To(Equal(model.ActionCreateProject))
	})

	It("stores empty identifiers as null", func() {
		audit.NewRecorder(fake, log).Record(context.Background(), audit.Entry{Action: model.ActionLogin, EntityType: "user"})

		Expect(saved).To(HaveLen(1))
		Expect(saved[0].TenantID).To(BeNil())
		Expect(saved[0].IPAddress).To(BeNil())
	})

	It("swallows store failures and logs them", func() {
		fake.createFn = func(context.Context, *model.AuditLog) error { return errors.New("disk full") }

		Expect(func() {
			audit.NewRecorder(fake, log).Record(context.Background(), audit.Entry{Action: model.ActionDeleteUser, EntityType: "user"})
		}).NotTo(Panic())
		Expect(logs.FilterMessage("Failed to write audit log").Len()).To(Equal(1))
	})
})
