package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The slot listing validates every query parameter before touching any
// storage, so the handler can be exercised with no service behind it: a
// request that reaches the service would panic and fail the test.
func newSlotTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(zap.NewNop())})
	h := &slotHandler{slots: nil}
	app.Get("/api/slots", h.list)
	return app
}

func TestSlotListingRejectsBadQueries(t *testing.T) {
	app := newSlotTestApp()

	cases := []struct {
		name string
		url  string
	}{
		{"missing professorId", "/api/slots"},
		{"non-numeric professorId", "/api/slots?professorId=abc"},
		{"negative professorId", "/api/slots?professorId=-1"},
		{"from without to", "/api/slots?professorId=1&from=2025-03-03"},
		{"to without from", "/api/slots?professorId=1&to=2025-03-10"},
		{"malformed from", "/api/slots?professorId=1&from=03/03/2025&to=2025-03-10"},
		{"malformed to", "/api/slots?professorId=1&from=2025-03-03&to=soon"},
		{"inverted range", "/api/slots?professorId=1&from=2025-03-10&to=2025-03-03"},
		{"zero days", "/api/slots?professorId=1&days=0"},
		{"excessive days", "/api/slots?professorId=1&days=365"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tc.url, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}
