package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"taskhub-service/internal/app"
	"taskhub-service/internal/model"
	"taskhub-service/internal/store/storetest"
	"taskhub-service/pkg/config"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
}

var _ = Describe("HTTP API", func() {
	var (
		db     *gorm.DB
		server *app.App
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(storetest.Close, db)

		cfg := &config.Config{
			JWT:     config.JWTConfig{SigningKey: "test-key", ExpirationHours: 24},
			Auth:    config.AuthConfig{BcryptCost: bcrypt.MinCost},
			Server:  config.ServerConfig{AllowedOrigins: []string{"*"}},
			Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		}
		server = app.New(cfg, db, zap.NewNop())
	})

	call := func(method, path, token string, body interface{}) (int, envelope) {
		var reader *bytes.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(raw)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		server.Echo.ServeHTTP(rec, req)

		var env envelope
		if rec.Body.Len() > 0 {
			Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		}
		return rec.Code, env
	}

	decode := func(env envelope, dst interface{}) {
		Expect(json.Unmarshal(env.Data, dst)).To(Succeed())
	}

	register := func(subdomain string) string {
		code, env := call(http.MethodPost, "/api/auth/register-tenant", "", map[string]string{
			"tenantName":    "Tenant " + subdomain,
			"subdomain":     subdomain,
			"adminEmail":    "admin@" + subdomain + ".test",
			"adminPassword": "password123",
			"adminFullName": "Admin",
		})
		Expect(code).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())

		code, env = call(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":           "admin@" + subdomain + ".test",
			"password":        "password123",
			"tenantSubdomain": subdomain,
		})
		Expect(code).To(Equal(http.StatusOK))
		var session struct {
			Token     string `json:"token"`
			ExpiresIn int64  `json:"expiresIn"`
		}
		decode(env, &session)
		Expect(session.ExpiresIn).To(Equal(int64(86400)))
		return session.Token
	}

	It("serves health and metrics without a token", func() {
		code, _ := call(http.MethodGet, "/api/health", "", nil)
		Expect(code).To(Equal(http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		server.Echo.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("taskhub_http_requests_total"))
	})

	It("walks a tenant through registration, login and /auth/me", func() {
		token := register("acme")

		code, env := call(http.MethodGet, "/api/auth/me", token, nil)
		Expect(code).To(Equal(http.StatusOK))
		var profile struct {
			Email  string `json:"email"`
			Role   string `json:"role"`
			Tenant struct {
				Subdomain string `json:"subdomain"`
			} `json:"tenant"`
		}
		decode(env, &profile)
		Expect(profile.Email).To(Equal("admin@acme.test"))
		Expect(profile.Role).To(Equal("tenant_admin"))
		Expect(profile.Tenant.Subdomain).To(Equal("acme"))

		code, env = call(http.MethodPost, "/api/auth/logout", token, nil)
		Expect(code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Logged out successfully"))

		var logs []model.AuditLog
		Expect(db.Find(&logs).Error).To(Succeed())
		actions := make([]model.AuditAction, 0, len(logs))
		for _, l := range logs {
			actions = append(actions, l.Action)
			Expect(l.IPAddress).NotTo(BeNil())
		}
		Expect(actions).To(ContainElements(model.ActionCreateTenant, model.ActionLogin, model.ActionLogout))
	})

	It("answers errors in the envelope with their status", func() {
		code, env := call(http.MethodGet, "/api/auth/me", "", nil)
		Expect(code).To(Equal(http.StatusUnauthorized))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).NotTo(BeEmpty())

		code, env = call(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@acme.test", "password": "x"})
		Expect(code).To(Equal(http.StatusUnauthorized))
		Expect(env.Reason).To(Equal("InvalidCredentials"))

		code, env = call(http.MethodPost, "/api/auth/register-tenant", "", map[string]string{"tenantName": "x"})
		Expect(code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())

		code, env = call(http.MethodGet, "/api/nowhere", "", nil)
		Expect(code).To(Equal(http.StatusNotFound))
		Expect(env.Success).To(BeFalse())
	})

	It("rejects malformed bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		server.Echo.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("masks other tenants' projects and malformed ids as not found", func() {
		acme := register("acme")
		globex := register("globex")

		code, env := call(http.MethodPost, "/api/projects", acme, map[string]string{"name": "Launch"})
		Expect(code).To(Equal(http.StatusCreated))
		var project struct {
			ID string `json:"id"`
		}
		decode(env, &project)

		code, _ = call(http.MethodGet, "/api/projects/"+project.ID, acme, nil)
		Expect(code).To(Equal(http.StatusOK))

		code, env = call(http.MethodGet, "/api/projects/"+project.ID, globex, nil)
		Expect(code).To(Equal(http.StatusNotFound))
		Expect(env.Data).To(BeEmpty())

		code, _ = call(http.MethodGet, "/api/projects/not-a-uuid", acme, nil)
		Expect(code).To(Equal(http.StatusNotFound))

		code, _ = call(http.MethodGet, "/api/projects/"+uuid.NewString(), acme, nil)
		Expect(code).To(Equal(http.StatusNotFound))
	})

	It("reports quota exhaustion as 403 LimitReached", func() {
		token := register("acme")
		for i := 0; i < model.DefaultMaxProjects; i++ {
			code, _ := call(http.MethodPost, "/api/projects", token, map[string]string{"name": "P"})
			Expect(code).To(Equal(http.StatusCreated))
		}

		code, env := call(http.MethodPost, "/api/projects", token, map[string]string{"name": "One too many"})
		Expect(code).To(Equal(http.StatusForbidden))
		Expect(env.Reason).To(Equal("LimitReached"))
	})

	It("lists tasks of a project in priority order", func() {
		token := register("acme")
		_, env := call(http.MethodPost, "/api/projects", token, map[string]string{"name": "Launch"})
		var project struct {
			ID string `json:"id"`
		}
		decode(env, &project)

		for _, t := range []map[string]string{
			{"title": "low", "priority": "low", "dueDate": "2024-02-01"},
			{"title": "high", "priority": "high"},
			{"title": "medium", "priority": "medium", "dueDate": "2024-01-01"},
		} {
			code, _ := call(http.MethodPost, "/api/projects/"+project.ID+"/tasks", token, t)
			Expect(code).To(Equal(http.StatusCreated))
		}

		code, env := call(http.MethodGet, "/api/projects/"+project.ID+"/tasks?priority=", token, nil)
		Expect(code).To(Equal(http.StatusOK))
		var list struct {
			Tasks []struct {
				Title   string  `json:"title"`
				DueDate *string `json:"dueDate"`
			} `json:"tasks"`
			Total int `json:"total"`
		}
		decode(env, &list)
		Expect(list.Total).To(Equal(3))
		Expect([]string{list.Tasks[0].Title, list.Tasks[1].Title, list.Tasks[2].Title}).To(Equal([]string{"high", "medium", "low"}))
		Expect(list.Tasks[0].DueDate).To(BeNil())
	})

	It("keeps tenant listing to super_admin", func() {
		token := register("acme")
		code, env := call(http.MethodGet, "/api/tenants", token, nil)
		Expect(code).To(Equal(http.StatusForbidden))
		Expect(env.Reason).To(Equal("InsufficientRole"))
	})
})
