package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"

	"taskhub-service/internal/apperror"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("errorResponse", func() {
	DescribeTable("maps errors to status and envelope",
		func(err error, status int, message string, reason apperror.Reason) {
			gotStatus, body := errorResponse(err)
			Expect(gotStatus).To(Equal(status))
			Expect(body.Success).To(BeFalse())
			Expect(body.Message).To(Equal(message))
			Expect(body.Reason).To(Equal(reason))
		},
		Entry("validation", apperror.Validation("name is required"), http.StatusBadRequest, "name is required", apperror.Reason("")),
		Entry("limit", apperror.Limit("projects limit reached (5)"), http.StatusForbidden, "projects limit reached (5)", apperror.LimitReached),
		Entry("conflict", apperror.Conflict(apperror.SubdomainTaken, "Subdomain already exists"), http.StatusConflict, "Subdomain already exists", apperror.SubdomainTaken),
		Entry("internal hides details", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error", apperror.Reason("")),
		Entry("framework", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "Method Not Allowed", apperror.Reason("")),
	)
})

var _ = Describe("HTTPErrorHandler", func() {
	It("leaves committed responses alone", func() {
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		Expect(c.String(http.StatusAccepted, "partial")).To(Succeed())

		HTTPErrorHandler(errors.New("late failure"), c)
		Expect(rec.Code).To(Equal(http.StatusAccepted))
		Expect(rec.Body.String()).To(Equal("partial"))
	})
})

var _ = Describe("pathID", func() {
	newContext := func(id string) echo.Context {
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(id)
		return c
	}

	It("accepts UUIDs", func() {
		id := uuid.NewString()
		got, err := pathID(newContext(id), "id", "Task")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(id))
	})

	It("reports anything else as not found", func() {
		_, err := pathID(newContext("42"), "id", "Task")
		Expect(err).To(MatchError(&apperror.Error{Kind: apperror.KindNotFound}))
		Expect(err.Error()).To(ContainSubstring("Task not found"))
	})
})
