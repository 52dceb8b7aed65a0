package audit_test

import (
	"testing"
	"time"

	"campusmarket/internal/core/domain/model/audit"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"
	"campusmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	admin := kernel.MustActor(kernel.NewUUID(), kernel.RoleAdmin, nil)
	orderID := kernel.NewUUID()

	t.Run("records admin, statuses and trimmed reason", func(t *testing.T) {
		e, err := audit.NewEntry(kernel.NewUUID(), admin, orderID, audit.ActionForceStatus,
			order.StatusDispatched, order.StatusCompleted, "  buyer confirmed by phone ", time.Now())

		require.NoError(t, err)
		assert.True(t, e.AdminID().IsEqual(admin.ID()))
		assert.Equal(t, order.StatusDispatched, e.OldStatus())
		assert.Equal(t, order.StatusCompleted, e.NewStatus())
		assert.Equal(t, "buyer confirmed by phone", e.Reason())
	})

	t.Run("requires reason", func(t *testing.T) {
		_, err := audit.NewEntry(kernel.NewUUID(), admin, orderID, audit.ActionRefund,
			order.StatusArrived, order.StatusCancelled, "   ", time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, errs.CodeInvalidRequest, errs.CodeOf(err))
	})

	t.Run("requires admin", func(t *testing.T) {
		runner := kernel.MustActor(kernel.NewUUID(), kernel.RoleRunner, nil)

		_, err := audit.NewEntry(kernel.NewUUID(), runner, orderID, audit.ActionRefund,
			order.StatusArrived, order.StatusCancelled, "x", time.Now())

		require.ErrorIs(t, err, errs.ErrUnauthorizedAction)
	})
}
