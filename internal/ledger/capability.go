package ledger

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/bank-ledger/internal/errors"
)

var hundred = decimal.NewFromInt(100)

// Taxable is exposed by every variant whose table entry marks it taxable.
type Taxable interface {
	Rate() decimal.Decimal
	CalculateTax() decimal.Decimal
	PayTax() (TaxReceipt, error)
	TaxDetails() string
}

// Transferable is exposed only by variants with a transfer limit.
type Transferable interface {
	TransferLimit() int64
	Transfer(recipient *Account, amount int64) error
	TransferDetails() string
}

type TaxReceipt struct {
	Tax      decimal.Decimal
	Deducted int64
	Balance  int64
}

// Taxable returns the account's tax behaviour, if its variant has one.
func (a *Account) Taxable() (Taxable, bool) {
	if !a.spec.Taxable {
		return nil, false
	}
	return taxHandle{a: a}, true
}

// Transferable returns the account's transfer behaviour, if its variant has one.
func (a *Account) Transferable() (Transferable, bool) {
	if !a.spec.Transferable {
		return nil, false
	}
	return transferHandle{a: a}, true
}

type taxHandle struct {
	a *Account
}

func (h taxHandle) Rate() decimal.Decimal {
	return h.a.spec.TaxRate
}

func (h taxHandle) CalculateTax() decimal.Decimal {
	return decimal.NewFromInt(h.a.balance).Mul(h.a.spec.TaxRate)
}

// PayTax recomputes the tax against the current balance and deducts it. The
// new balance is floored to the smallest currency unit.
func (h taxHandle) PayTax() (TaxReceipt, error) {
	tax := h.CalculateTax()
	balance := decimal.NewFromInt(h.a.balance)
	if balance.LessThan(tax) {
		return TaxReceipt{Tax: tax, Balance: h.a.balance}, errors.ErrInsufficientFunds
	}

	newBalance := balance.Sub(tax).Floor().IntPart()
	deducted := h.a.balance - newBalance
	h.a.balance = newBalance

	return TaxReceipt{Tax: tax, Deducted: deducted, Balance: newBalance}, nil
}

func (h taxHandle) TaxDetails() string {
	return fmt.Sprintf("%s Account Tax - Rate: %s%%, Taxable Amount: ₹%d",
		h.a.spec.Variant, h.a.spec.TaxRate.Mul(hundred).String(), h.a.balance)
}

type transferHandle struct {
	a *Account
}

func (h transferHandle) TransferLimit() int64 {
	return h.a.spec.TransferLimit
}

// Transfer moves amount from the handle's account to recipient. The recipient
// need not be registered anywhere; it only has to be an Account.
func (h transferHandle) Transfer(recipient *Account, amount int64) error {
	sender := h.a
	if recipient == nil {
		return errors.ErrInvalidAccountID
	}
	if recipient == sender {
		return errors.ErrSameAccount
	}
	if amount <= 0 {
		return errors.ErrInvalidAmount
	}
	if amount > sender.spec.TransferLimit {
		return errors.ErrLimitExceeded
	}
	if sender.balance < amount {
		return errors.ErrInsufficientFunds
	}
	if amount > math.MaxInt64-recipient.balance {
		return errors.ErrInvalidAmount
	}

	sender.balance -= amount
	recipient.balance += amount
	return nil
}

func (h transferHandle) TransferDetails() string {
	return fmt.Sprintf("%s Account Transfer - Limit: ₹%d, Current Balance: ₹%d",
		h.a.spec.Variant, h.a.spec.TransferLimit, h.a.balance)
}
