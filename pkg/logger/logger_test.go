package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("Middleware", func() {
	var (
		e    *echo.Echo
		logs *observer.ObservedLogs
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		e = echo.New()
		e.Use(Middleware(zap.New(core)))
	})

	It("stores a request scoped logger and logs completion", func() {
		var seen *zap.Logger
		e.GET("/ping", func(c echo.Context) error {
			seen = FromContext(c)
			return c.NoContent(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-1")
		e.ServeHTTP(httptest.NewRecorder(), req)

		Expect(seen).NotTo(BeNil())
		entries := logs.FilterMessage("HTTP request completed").All()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].ContextMap()).To(HaveKeyWithValue("request_id", "req-1"))
		Expect(entries[0].ContextMap()).To(HaveKeyWithValue("status", int64(http.StatusNoContent)))
	})

	It("logs failed handlers at error level", func() {
		e.GET("/boom", func(c echo.Context) error {
			return errors.New("boom")
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		entries := logs.FilterMessage("HTTP request failed").All()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].ContextMap()).To(HaveKeyWithValue("status", int64(http.StatusInternalServerError)))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("FromContext", func() {
	It("falls back to the global logger", func() {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		Expect(FromContext(c)).To(Equal(GetLogger()))
	})
})

var _ = Describe("parseLevel", func() {
	DescribeTable("maps names to zap levels",
		func(name string, want zapcore.Level) {
			Expect(parseLevel(name)).To(Equal(want))
		},
		Entry("debug", "debug", zapcore.DebugLevel),
		Entry("warn", "warn", zapcore.WarnLevel),
		Entry("error", "error", zapcore.ErrorLevel),
		Entry("unknown", "chatty", zapcore.InfoLevel),
	)
})
