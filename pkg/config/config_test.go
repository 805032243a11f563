package config

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm/logger"
)

var _ = Describe("Load", func() {
	It("falls back to defaults", func() {
		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.DB.Port).To(Equal("5432"))
		Expect(cfg.JWT.ExpirationHours).To(Equal(24))
		Expect(cfg.JWT.TokenTTL()).To(Equal(24 * time.Hour))
		Expect(cfg.Auth.BcryptCost).To(Equal(10))
		Expect(cfg.Metrics.Enabled).To(BeTrue())
		Expect(cfg.Metrics.Path).To(Equal("/metrics"))
	})

	It("reads overrides from the environment", func() {
		GinkgoT().Setenv("SERVER_PORT", "9090")
		GinkgoT().Setenv("JWT_EXPIRATION_HOURS", "2")
		GinkgoT().Setenv("DB_LOG_LEVEL", "silent")
		GinkgoT().Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
		GinkgoT().Setenv("METRICS_ENABLED", "false")

		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal("9090"))
		Expect(cfg.JWT.TokenTTL()).To(Equal(2 * time.Hour))
		Expect(cfg.DB.LogLevel).To(Equal(logger.Silent))
		Expect(cfg.Server.AllowedOrigins).To(Equal([]string{"http://a.test", "http://b.test"}))
		Expect(cfg.Metrics.Enabled).To(BeFalse())
	})

	It("ignores malformed numbers", func() {
		GinkgoT().Setenv("BCRYPT_COST", "lots")
		cfg, err := Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Auth.BcryptCost).To(Equal(10))
	})

	It("rejects a non-positive token lifetime", func() {
		GinkgoT().Setenv("JWT_EXPIRATION_HOURS", "0")
		_, err := Load()
		Expect(err).To(HaveOccurred())
	})
})
