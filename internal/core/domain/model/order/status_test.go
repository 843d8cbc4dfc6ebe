package order_test

import (
	"fmt"
	"testing"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lifecycle = []order.Status{
	order.Pending,
	order.PickupAssigned,
	order.PickedUp,
	order.ReadyForDelivery,
	order.Delivering,
	order.Completed,
}

func TestParseStatus(t *testing.T) {
	t.Run("should parse every wire name", func(t *testing.T) {
		for _, status := range lifecycle {
			parsed, err := order.ParseStatus(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should ignore case and surrounding spaces", func(t *testing.T) {
		parsed, err := order.ParseStatus("  ready_for_delivery ")

		require.NoError(t, err)
		assert.Equal(t, order.ReadyForDelivery, parsed)
	})

	for _, raw := range []string{"", "UNKNOWN", "CANCELLED", "PICKED-UP"} {
		t.Run(fmt.Sprintf("should reject %q", raw), func(t *testing.T) {
			parsed, err := order.ParseStatus(raw)

			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Equal(t, order.Unknown, parsed)
		})
	}
}

func TestStatus_Validate(t *testing.T) {
	for _, status := range lifecycle {
		require.NoError(t, status.Validate())
	}

	require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.Status(99).Validate(), errs.ErrValueIsInvalid)
	assert.Equal(t, "UNKNOWN", order.Status(99).String())
}

func TestStatus_ValidateTransition(t *testing.T) {
	t.Run("should allow each lifecycle edge", func(t *testing.T) {
		for i := 0; i < len(lifecycle)-1; i++ {
			require.NoError(t, lifecycle[i].ValidateTransition(lifecycle[i+1]),
				"%s -> %s", lifecycle[i], lifecycle[i+1])
		}
	})

	t.Run("should reject skipping and going back", func(t *testing.T) {
		for i, from := range lifecycle[:len(lifecycle)-1] {
			for j, to := range lifecycle {
				if j == i || j == i+1 {
					continue
				}
				err := from.ValidateTransition(to)
				assert.ErrorIs(t, err, order.ErrTransitionIsNotAllowed, "%s -> %s", from, to)
			}
		}
	})

	t.Run("should accept re-applying the current status", func(t *testing.T) {
		require.NoError(t, order.PickedUp.ValidateTransition(order.PickedUp))
	})

	t.Run("should refuse any write to a completed order", func(t *testing.T) {
		for _, to := range lifecycle {
			assert.ErrorIs(t, order.Completed.ValidateTransition(to), order.ErrOrderIsCompleted)
		}
	})

	t.Run("should reject unknown target before anything else", func(t *testing.T) {
		assert.ErrorIs(t, order.Completed.ValidateTransition(order.Unknown), errs.ErrValueIsInvalid)
	})
}

func TestStatus_ValidateOverride(t *testing.T) {
	t.Run("should allow jumps in both directions", func(t *testing.T) {
		require.NoError(t, order.Pending.ValidateOverride(order.Delivering))
		require.NoError(t, order.Delivering.ValidateOverride(order.Pending))
		require.NoError(t, order.PickedUp.ValidateOverride(order.Completed))
	})

	t.Run("should keep completed terminal", func(t *testing.T) {
		assert.ErrorIs(t, order.Completed.ValidateOverride(order.Pending), order.ErrOrderIsCompleted)
	})
}

func TestStatus_Next(t *testing.T) {
	next, ok := order.ReadyForDelivery.Next()
	require.True(t, ok)
	assert.Equal(t, order.Delivering, next)

	_, ok = order.Completed.Next()
	assert.False(t, ok)
	assert.True(t, order.Completed.IsTerminal())
	assert.False(t, order.Delivering.IsTerminal())
}
