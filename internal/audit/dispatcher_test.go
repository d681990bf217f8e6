package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawfectpets/pawfect-api/internal/audit"
	"github.com/pawfectpets/pawfect-api/internal/models"
	"github.com/pawfectpets/pawfect-api/internal/testutil"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := audit.NewDispatcher(audit.New(db), zap.NewNop())

	d.Dispatch(audit.Event{
		UserID:   audit.ID(7),
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: audit.ID(3),
		Metadata: map[string]any{"serviceId": 2},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	assert.Equal(t, "booking_created", logs[0].Action)
	assert.Equal(t, uint(7), *logs[0].UserID)
	assert.Equal(t, uint(3), *logs[0].EntityID)
	assert.JSONEq(t, `{"serviceId":2}`, logs[0].Metadata)
}
