package service_test

import (
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/model"
	"taskhub-service/internal/service"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("EnsureSuperAdmin", func() {
	It("creates the account once", func() {
		f := newFixture()
		in := service.SuperAdminInput{Email: "Root@Taskhub.test", Password: testPassword, FullName: "Root"}

		created, err := service.EnsureSuperAdmin(f.ctx, f.store.Users(), f.hasher, in, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		created, err = service.EnsureSuperAdmin(f.ctx, f.store.Users(), f.hasher, in, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		root, err := f.store.Users().GetSuperAdminByEmail(f.ctx, "root@taskhub.test")
		Expect(err).NotTo(HaveOccurred())
		Expect(root.Role).To(Equal(model.RoleSuperAdmin))
		Expect(root.TenantID).To(BeNil())
		Expect(root.IsActive).To(BeTrue())
	})

	It("rejects a weak password", func() {
		f := newFixture()
		_, err := service.EnsureSuperAdmin(f.ctx, f.store.Users(), f.hasher, service.SuperAdminInput{
			Email: "root@taskhub.test", Password: "short", FullName: "Root",
		}, zap.NewNop())
		Expect(apperror.KindOf(err)).To(Equal(apperror.KindValidation))
	})
})
