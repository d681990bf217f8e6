package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, err)
	return w
}

func TestRespondMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{ErrValidation("bad_date", "Booking date must be in the future"), http.StatusBadRequest, "Booking date must be in the future"},
		{ErrNotFound("booking_not_found", "Booking not found"), http.StatusNotFound, "Booking not found"},
		{ErrInsufficientStock("Dog Leash"), http.StatusBadRequest, "Insufficient stock for Dog Leash"},
		{ErrForbidden("admin_required", "Admin access required"), http.StatusForbidden, "Admin access required"},
		{ErrUpstream("llm_failed", "Failed to generate training guide"), http.StatusInternalServerError, "Failed to generate training guide"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}

	for _, tc := range cases {
		w := respond(tc.err)
		assert.Equal(t, tc.status, w.Code)

		var body HTTPError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.msg, body.Message)
	}
}

func TestWrappedBusinessErrorKeepsKind(t *testing.T) {
	err := pkgerrors.Wrap(ErrNotFound("order_not_found", "Order not found"), "load order")

	assert.True(t, IsKind(err, KindNotFound))
	assert.True(t, IsBusiness(err, "order_not_found"))
	assert.Equal(t, http.StatusNotFound, respond(err).Code)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(nil))
}
