package service_test

import (
	"fmt"
	"sync"

	"taskhub-service/internal/apperror"
	"taskhub-service/internal/model"
	"taskhub-service/internal/service"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UserService", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture()
	})

	Describe("Add", func() {
		It("creates an active user with the default role", func() {
			tenant, admin := f.register("acme")

			user, err := f.users.Add(f.ctx, admin, tenant.ID, service.AddUserInput{
				Email: " New@Acme.Test ", Password: testPassword, FullName: "New",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("new@acme.test"))
			Expect(user.Role).To(Equal(model.RoleUser))
			Expect(user.IsActive).To(BeTrue())
			Expect(*user.TenantID).To(Equal(tenant.ID))
			Expect(f.sink.actions()).To(ContainElement(model.ActionCreateUser))
		})

		It("stops at maxUsers", func() {
			tenant, admin := f.register("acme")
			for i := 1; i < model.DefaultMaxUsers; i++ {
				f.addUser(admin, fmt.Sprintf("user%d@acme.test", i), model.RoleUser)
			}

			_, err := f.users.Add(f.ctx, admin, tenant.ID, service.AddUserInput{
				Email: "sixth@acme.test", Password: testPassword, FullName: "Sixth",
			})
			Expect(err).To(MatchError(appErr(apperror.KindLimitReached, apperror.LimitReached)))

			count, err := f.store.Users().CountByTenant(f.ctx, tenant.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeEquivalentTo(model.DefaultMaxUsers))
		})

		It("rejects a duplicate email in the same tenant", func() {
			tenant, admin := f.register("acme")

			_, err := f.users.Add(f.ctx, admin, tenant.ID, service.AddUserInput{
				Email: "admin@acme.test", Password: testPassword, FullName: "Again",
			})
			Expect(err).To(MatchError(appErr(apperror.KindConflict, apperror.EmailTaken)))
		})

		It("is reserved to tenant_admin of the tenant", func() {
			tenant, admin := f.register("acme")
			_, member := f.addUser(admin, "m@acme.test", model.RoleUser)
			_, globexAdmin := f.register("globex")
			in := service.AddUserInput{Email: "x@acme.test", Password: testPassword, FullName: "X"}

			_, err := f.users.Add(f.ctx, member, tenant.ID, in)
			Expect(err).To(MatchError(appErr(apperror.KindForbidden, apperror.InsufficientRole)))

			_, err = f.users.Add(f.ctx, globexAdmin, tenant.ID, in)
			Expect(err).To(MatchError(notFound))

			_, err = f.users.Add(f.ctx, f.superAdmin(), tenant.ID, in)
			Expect(err).To(MatchError(appErr(apperror.KindForbidden, apperror.InsufficientRole)))
		})

		It("never exceeds maxUsers under concurrent adds", func() {
			tenant, admin := f.register("acme")
			f.setLimits(tenant.ID, 3, 5)

			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				created int
				limited int
			)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := f.users.Add(f.ctx, admin, tenant.ID, service.AddUserInput{
						Email: fmt.Sprintf("racer%d@acme.test", i), Password: testPassword, FullName: "Racer",
					})
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						created++
					case apperror.KindOf(err) == apperror.KindLimitReached:
						limited++
					default:
						Fail("unexpected error: " + err.Error())
					}
				}(i)
			}
			wg.Wait()

			Expect(created).To(Equal(2))
			Expect(limited).To(Equal(8))
			count, err := f.store.Users().CountByTenant(f.ctx, tenant.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeEquivalentTo(3))
		})

		It("refuses to create super admins", func() {
			tenant, admin := f.register("acme")
			_, err := f.users.Add(f.ctx, admin, tenant.ID, service.AddUserInput{
				Email: "x@acme.test", Password: testPassword, FullName: "X", Role: model.RoleSuperAdmin,
			})
			Expect(apperror.KindOf(err)).To(Equal(apperror.KindValidation))
		})
	})

	Describe("List", func() {
		It("filters by role and search", func() {
			tenant, admin := f.register("acme")
			f.addUser(admin, "alice@acme.test", model.RoleUser)
			f.addUser(admin, "bob@acme.test", model.RoleTenantAdmin)

			list, err := f.users.List(f.ctx, admin, tenant.ID, service.ListUsersInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Total).To(Equal(3))

			list, err = f.users.List(f.ctx, admin, tenant.ID, service.ListUsersInput{Role: model.RoleTenantAdmin})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Total).To(Equal(2))

			list, err = f.users.List(f.ctx, admin, tenant.ID, service.ListUsersInput{Search: "ALICE"})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Users).To(HaveLen(1))
			Expect(list.Users[0].Email).To(Equal("alice@acme.test"))
		})

		It("hides other tenants' users", func() {
			acme, _ := f.register("acme")
			_, globexAdmin := f.register("globex")

			_, err := f.users.List(f.ctx, globexAdmin, acme.ID, service.ListUsersInput{})
			Expect(err).To(MatchError(notFound))
		})
	})

	Describe("Update", func() {
		It("lets a user rename themselves", func() {
			_, admin := f.register("acme")
			_, member := f.addUser(admin, "m@acme.test", model.RoleUser)

			user, err := f.users.Update(f.ctx, member, member.UserID, service.UpdateUserInput{FullName: ptr("Renamed")})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.FullName).To(Equal("Renamed"))
		})

		It("forbids changing one's own role or status", func() {
			_, admin := f.register("acme")
			_, member := f.addUser(admin, "m@acme.test", model.RoleUser)

			_, err := f.users.Update(f.ctx, member, member.UserID, service.UpdateUserInput{Role: ptr(model.RoleTenantAdmin)})
			Expect(err).To(MatchError(appErr(apperror.KindForbidden, apperror.SelfPrivilegeEscalation)))

			_, err = f.users.Update(f.ctx, admin, admin.UserID, service.UpdateUserInput{IsActive: ptr(false)})
			Expect(err).To(MatchError(appErr(apperror.KindForbidden, apperror.SelfPrivilegeEscalation)))

			stored, err := f.store.Users().GetByID(f.ctx, member.UserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Role).To(Equal(model.RoleUser))
		})

		It("forbids a user editing someone else", func() {
			_, admin := f.register("acme")
			_, alice := f.addUser(admin, "alice@acme.test", model.RoleUser)
			_, bob := f.addUser(admin, "bob@acme.test", model.RoleUser)

			_, err := f.users.Update(f.ctx, alice, bob.UserID, service.UpdateUserInput{FullName: ptr("Hijacked")})
			Expect(err).To(MatchError(appErr(apperror.KindForbidden, apperror.NotOwner)))
		})

		It("lets tenant_admin promote a member", func() {
			_, admin := f.register("acme")
			_, member := f.addUser(admin, "m@acme.test", model.RoleUser)

			user, err := f.users.Update(f.ctx, admin, member.UserID, service.UpdateUserInput{Role: ptr(model.RoleTenantAdmin)})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(model.RoleTenantAdmin))
			Expect(f.sink.actions()).To(ContainElement(model.ActionUpdateUser))
		})

		It("reports users of other tenants as not found", func() {
			_, acmeAdmin := f.register("acme")
			_, globexAdmin := f.register("globex")

			_, err := f.users.Update(f.ctx, globexAdmin, acmeAdmin.UserID, service.UpdateUserInput{FullName: ptr("X")})
			Expect(err).To(MatchError(notFound))
		})
	})

	Describe("cross-tenant members", func() {
		It("see other tenants' users and tenants as missing, not forbidden", func() {
			_, acmeAdmin := f.register("acme")
			_, member := f.addUser(acmeAdmin, "m@acme.test", model.RoleUser)
			globex, globexAdmin := f.register("globex")
			victim, _ := f.addUser(globexAdmin, "victim@globex.test", model.RoleUser)

			Expect(f.users.Delete(f.ctx, member, victim.ID)).To(MatchError(notFound))
			Expect(f.users.Delete(f.ctx, member, uuid.NewString())).To(MatchError(notFound))

			_, err := f.users.Update(f.ctx, member, victim.ID, service.UpdateUserInput{Role: ptr(model.RoleTenantAdmin)})
			Expect(err).To(MatchError(notFound))

			_, err = f.users.Add(f.ctx, member, globex.ID, service.AddUserInput{
				Email: "x@globex.test", Password: testPassword, FullName: "X",
			})
			Expect(err).To(MatchError(notFound))
			_, err = f.users.Add(f.ctx, member, uuid.NewString(), service.AddUserInput{
				Email: "x@globex.test", Password: testPassword, FullName: "X",
			})
			Expect(err).To(MatchError(notFound))
		})
	})

	Describe("Delete", func() {
		It("forbids deleting oneself", func() {
			_, admin := f.register("acme")
			err := f.users.Delete(f.ctx, admin, admin.UserID)
			Expect(err).To(MatchError(appErr(apperror.KindForbidden, apperror.SelfDeletion)))
		})

		It("forbids plain users", func() {
			_, admin := f.register("acme")
			_, alice := f.addUser(admin, "alice@acme.test", model.RoleUser)
			_, bob := f.addUser(admin, "bob@acme.test", model.RoleUser)

			err := f.users.Delete(f.ctx, alice, bob.UserID)
			Expect(err).To(MatchError(appErr(apperror.KindForbidden, apperror.InsufficientRole)))
		})

		It("removes the user and unassigns their tasks", func() {
			_, admin := f.register("acme")
			_, member := f.addUser(admin, "m@acme.test", model.RoleUser)
			project, err := f.projects.Create(f.ctx, admin, service.CreateProjectInput{Name: "Launch"})
			Expect(err).NotTo(HaveOccurred())
			task, err := f.tasks.Create(f.ctx, admin, project.ID, service.CreateTaskInput{Title: "Ship", AssignedTo: ptr(member.UserID)})
			Expect(err).NotTo(HaveOccurred())

			Expect(f.users.Delete(f.ctx, admin, member.UserID)).To(Succeed())

			_, err = f.store.Users().GetByID(f.ctx, member.UserID)
			Expect(err).To(HaveOccurred())
			stored, err := f.store.Tasks().GetByID(f.ctx, task.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AssignedTo).To(BeNil())
			Expect(f.sink.actions()).To(ContainElement(model.ActionDeleteUser))
		})
	})
})
