package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"taskhub-service/internal/access"
	"taskhub-service/internal/apperror"
	"taskhub-service/internal/audit"
	"taskhub-service/internal/middleware"
	"taskhub-service/internal/model"
	"taskhub-service/pkg/config"
	"taskhub-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RequestIDMiddleware", func() {
	It("keeps an incoming id and assigns one otherwise", func() {
		e := echo.New()
		e.Use(middleware.RequestIDMiddleware)
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRequestID, "given")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		Expect(rec.Header().Get(echo.HeaderXRequestID)).To(Equal("given"))

		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(echo.HeaderXRequestID)).To(HaveLen(36))
	})
})

var _ = Describe("ClientIPMiddleware", func() {
	It("exposes the client address to the request context", func() {
		e := echo.New()
		e.Use(middleware.ClientIPMiddleware)
		var ip string
		e.GET("/", func(c echo.Context) error {
			ip = audit.IPFrom(c.Request().Context())
			return c.NoContent(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		e.ServeHTTP(httptest.NewRecorder(), req)
		Expect(ip).To(Equal("203.0.113.7"))
	})
})

var _ = Describe("AuthMiddleware", func() {
	var (
		tokens *jwtutil.JWTUtil
		c      echo.Context
		called bool
		seen   access.Caller
	)

	handler := func(c echo.Context) error {
		called = true
		seen, _ = middleware.CallerFrom(c)
		return nil
	}

	run := func(header string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		c = echo.New().NewContext(req, httptest.NewRecorder())
		return middleware.AuthMiddleware(tokens)(handler)(c)
	}

	BeforeEach(func() {
		tokens = jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
		called = false
		seen = access.Caller{}
	})

	It("stores the caller of a valid token", func() {
		token, err := tokens.GenerateToken("u-1", "t-1", string(model.RoleUser), "u@acme.test")
		Expect(err).NotTo(HaveOccurred())

		Expect(run("Bearer " + token)).To(Succeed())
		Expect(called).To(BeTrue())
		Expect(seen).To(Equal(access.Caller{UserID: "u-1", TenantID: "t-1", Role: model.RoleUser}))
	})

	It("accepts super_admin tokens without a tenant", func() {
		token, err := tokens.GenerateToken("root", "", string(model.RoleSuperAdmin), "root@taskhub.test")
		Expect(err).NotTo(HaveOccurred())

		Expect(run("bearer " + token)).To(Succeed())
		Expect(seen.IsSuperAdmin()).To(BeTrue())
	})

	DescribeTable("rejects bad credentials",
		func(header func() string) {
			err := run(header())
			Expect(apperror.KindOf(err)).To(Equal(apperror.KindUnauthenticated))
			Expect(called).To(BeFalse())
		},
		Entry("missing header", func() string { return "" }),
		Entry("wrong scheme", func() string { return "Basic abc" }),
		Entry("garbage token", func() string { return "Bearer not-a-jwt" }),
		Entry("foreign signature", func() string {
			other := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "other-key", ExpirationHours: 1})
			token, _ := other.GenerateToken("u-1", "t-1", string(model.RoleUser), "u@acme.test")
			return "Bearer " + token
		}),
		Entry("unknown role", func() string {
			token, _ := tokens.GenerateToken("u-1", "t-1", "owner", "u@acme.test")
			return "Bearer " + token
		}),
		Entry("tenant role without tenant", func() string {
			token, _ := tokens.GenerateToken("u-1", "", string(model.RoleTenantAdmin), "u@acme.test")
			return "Bearer " + token
		}),
	)
})
