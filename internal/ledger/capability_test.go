package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/bank-ledger/internal/errors"
)

func TestCapabilityQueries(t *testing.T) {
	testCases := []struct {
		variant      Variant
		taxable      bool
		transferable bool
		rate         string
	}{
		{VariantMain, true, true, "0.15"},
		{VariantSavings, true, false, "0.1"},
		{VariantCurrent, true, false, "0.12"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.variant), func(t *testing.T) {
			acct := newTestAccount(t, tc.variant, 100)

			taxable, ok := acct.Taxable()
			assert.Equal(t, tc.taxable, ok)
			if ok {
				assert.True(t, taxable.Rate().Equal(decimal.RequireFromString(tc.rate)))
			}

			transferable, ok := acct.Transferable()
			assert.Equal(t, tc.transferable, ok)
			if ok {
				assert.Equal(t, int64(1_000_000), transferable.TransferLimit())
			} else {
				assert.Nil(t, transferable)
			}
		})
	}
}

func TestMainAccountTax(t *testing.T) {
	acct := newTestAccount(t, VariantMain, 10_000)
	taxable, ok := acct.Taxable()
	require.True(t, ok)

	assert.True(t, taxable.CalculateTax().Equal(decimal.NewFromInt(1_500)))

	receipt, err := taxable.PayTax()
	require.NoError(t, err)
	assert.Equal(t, int64(8_500), receipt.Balance)
	assert.Equal(t, int64(1_500), receipt.Deducted)
	assert.Equal(t, int64(8_500), acct.Balance())
}

func TestPayTaxReducesByRate(t *testing.T) {
	testCases := []struct {
		variant Variant
		balance int64
		want    int64
	}{
		{VariantMain, 2_000, 1_700},
		{VariantSavings, 2_000, 1_800},
		{VariantCurrent, 2_500, 2_200},
		{VariantMain, 0, 0},
	}

	for _, tc := range testCases {
		acct := newTestAccount(t, tc.variant, tc.balance)
		taxable, _ := acct.Taxable()
		tax := taxable.CalculateTax()

		receipt, err := taxable.PayTax()
		require.NoError(t, err)
		assert.Equal(t, tc.want, receipt.Balance)
		assert.True(t, decimal.NewFromInt(tc.balance).Sub(tax).Equal(decimal.NewFromInt(receipt.Balance)))
	}
}

func TestPayTaxFloorsFractionalBalance(t *testing.T) {
	acct := newTestAccount(t, VariantMain, 10_005)
	taxable, _ := acct.Taxable()

	receipt, err := taxable.PayTax()
	require.NoError(t, err)
	assert.Equal(t, "1500.75", receipt.Tax.String())
	assert.Equal(t, int64(8_504), receipt.Balance)
	assert.Equal(t, int64(1_501), receipt.Deducted)
}

func TestTransfer(t *testing.T) {
	t.Run("conserves total and debits sender by amount", func(t *testing.T) {
		sender := newTestAccount(t, VariantMain, 5_000)
		recipient, err := NewAccount(Variants[VariantMain], "2002", "Recipient", 0)
		require.NoError(t, err)
		transferable, _ := sender.Transferable()

		before := sender.Balance() + recipient.Balance()
		require.NoError(t, transferable.Transfer(recipient, 1_200))

		assert.Equal(t, int64(3_800), sender.Balance())
		assert.Equal(t, int64(1_200), recipient.Balance())
		assert.Equal(t, before, sender.Balance()+recipient.Balance())
	})

	t.Run("insufficient funds leaves both unchanged", func(t *testing.T) {
		sender := newTestAccount(t, VariantMain, 500)
		recipient := newTestAccount(t, VariantSavings, 300)
		transferable, _ := sender.Transferable()

		err := transferable.Transfer(recipient, 1_000)
		assert.ErrorIs(t, err, errors.ErrInsufficientFunds)
		assert.Equal(t, int64(500), sender.Balance())
		assert.Equal(t, int64(300), recipient.Balance())
	})

	t.Run("limit exceeded", func(t *testing.T) {
		sender := newTestAccount(t, VariantMain, 5_000_000)
		recipient := newTestAccount(t, VariantCurrent, 0)
		transferable, _ := sender.Transferable()

		err := transferable.Transfer(recipient, 1_000_001)
		assert.ErrorIs(t, err, errors.ErrLimitExceeded)
		assert.Equal(t, int64(5_000_000), sender.Balance())

		require.NoError(t, transferable.Transfer(recipient, 1_000_000))
		assert.Equal(t, int64(1_000_000), recipient.Balance())
	})

	t.Run("invalid amount", func(t *testing.T) {
		sender := newTestAccount(t, VariantMain, 500)
		recipient := newTestAccount(t, VariantCurrent, 0)
		transferable, _ := sender.Transferable()

		assert.ErrorIs(t, transferable.Transfer(recipient, 0), errors.ErrInvalidAmount)
		assert.ErrorIs(t, transferable.Transfer(recipient, -3), errors.ErrInvalidAmount)
	})

	t.Run("same account", func(t *testing.T) {
		sender := newTestAccount(t, VariantMain, 500)
		transferable, _ := sender.Transferable()

		assert.ErrorIs(t, transferable.Transfer(sender, 100), errors.ErrSameAccount)
		assert.Equal(t, int64(500), sender.Balance())
	})
}

func TestDetailsStrings(t *testing.T) {
	acct := newTestAccount(t, VariantMain, 700)
	taxable, _ := acct.Taxable()
	transferable, _ := acct.Transferable()

	assert.Equal(t, "Main Account Tax - Rate: 15%, Taxable Amount: ₹700", taxable.TaxDetails())
	assert.Equal(t, "Main Account Transfer - Limit: ₹1000000, Current Balance: ₹700", transferable.TransferDetails())
}

func TestLookupVariant(t *testing.T) {
	spec, err := LookupVariant(" savings ")
	require.NoError(t, err)
	assert.Equal(t, VariantSavings, spec.Variant)

	_, err = LookupVariant("brokerage")
	assert.ErrorIs(t, err, errors.ErrUnknownVariant)
}
