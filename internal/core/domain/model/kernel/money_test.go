package kernel_test

import (
	"testing"

	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("accepts zero and positive amounts", func(t *testing.T) {
		for _, s := range []string{"0", "40", "129.50"} {
			m, err := kernel.MoneyFromString(s)
			require.NoError(t, err, s)
			assert.True(t, m.Decimal().Equal(decimal.RequireFromString(s)))
		}
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(-1))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := kernel.MoneyFromString("forty")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.MustMoney("12.25")

	total, err := price.Mul(3)
	require.NoError(t, err)
	assert.Equal(t, "36.75", total.String())

	sum := total.Add(kernel.MustMoney("40"))
	assert.Equal(t, "76.75", sum.String())

	diff, err := sum.Sub(kernel.MustMoney("76.75"))
	require.NoError(t, err)
	assert.True(t, diff.IsZero())

	_, err = price.Sub(sum)
	require.Error(t, err)

	_, err = price.Mul(-1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestMoney_Compare(t *testing.T) {
	a := kernel.MustMoney("100")
	b := kernel.MustMoney("100.00")

	assert.True(t, a.IsEqual(b))
	assert.Zero(t, a.Cmp(b))
	assert.Equal(t, -1, kernel.ZeroMoney().Cmp(a))

	var zero kernel.Money
	assert.True(t, zero.IsZero())
	assert.Equal(t, "0.00", zero.String())
}
