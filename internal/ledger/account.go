// Package ledger holds the in-memory account record and every operation that
// mutates its balance. Nothing here logs or persists; callers in the service
// layer forward accepted operations to the audit log.
//
// Accounts are not safe for concurrent use. The process serializes operations
// before they reach this package.
package ledger

import (
	"crypto/subtle"
	"encoding/binary"
	"math"

	"github.com/riteshkumar/bank-ledger/internal/errors"
)

type Account struct {
	id      string
	number  string
	owner   string
	spec    VariantSpec
	balance int64

	upi           string
	credential    int64
	hasCredential bool
}

type Option func(*Account)

// WithUPI attaches a UPI id. An empty id leaves the account without one.
func WithUPI(upi string) Option {
	return func(a *Account) {
		a.upi = upi
	}
}

// WithCredential attaches a card number. The value is owned by the account and
// is only ever compared, never handed back out.
func WithCredential(secret int64) Option {
	return func(a *Account) {
		a.credential = secret
		a.hasCredential = true
	}
}

func NewAccount(spec VariantSpec, number, owner string, balance int64, opts ...Option) (*Account, error) {
	if number == "" {
		return nil, errors.ErrInvalidAccountID
	}
	if balance < 0 {
		return nil, errors.ErrInvalidAmount
	}

	a := &Account{
		id:      spec.AccountID(number),
		number:  number,
		owner:   owner,
		spec:    spec,
		balance: balance,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Account) ID() string { return a.id }
func (a *Account) Number() string { return a.number }
func (a *Account) Owner() string { return a.owner }
func (a *Account) Balance() int64 { return a.balance }
func (a *Account) Variant() Variant { return a.spec.Variant }
func (a *Account) ParentID() string { return a.spec.ParentID(a.number) }
func (a *Account) UPI() string { return a.upi }
func (a *Account) HasUPI() bool { return a.upi != "" }
func (a *Account) HasCredential() bool { return a.hasCredential }
func (a *Account) MinBalance() int64 { return a.spec.MinBalance }
func (a *Account) InterestRate() int { return a.spec.InterestRate }

// Deposit adds amount to the balance and returns the new balance.
func (a *Account) Deposit(amount int64) (int64, error) {
	if err := a.credit(amount); err != nil {
		return a.balance, err
	}
	return a.balance, nil
}

// Withdraw is the simple withdrawal path. The variant's minimum balance is
// recorded but not enforced here.
func (a *Account) Withdraw(amount int64) (int64, error) {
	if err := a.debit(amount); err != nil {
		return a.balance, err
	}
	return a.balance, nil
}

// WithdrawalResult carries the outcome of a UPI-authorised withdrawal.
// DisclosedUPI is always the account's stored UPI id, whatever the outcome.
type WithdrawalResult struct {
	Balance      int64
	DisclosedUPI string
}

func (a *Account) WithdrawWithUPI(providedUPI string, amount int64) (WithdrawalResult, error) {
	result := WithdrawalResult{DisclosedUPI: a.upi}

	if a.upi == "" {
		result.Balance = a.balance
		return result, errors.ErrCredentialMissing
	}
	if subtle.ConstantTimeCompare([]byte(providedUPI), []byte(a.upi)) != 1 {
		result.Balance = a.balance
		return result, errors.ErrCredentialMismatch
	}
	err := a.debit(amount)
	result.Balance = a.balance
	return result, err
}

func (a *Account) WithdrawWithCredential(providedSecret, amount int64) (int64, error) {
	if !a.hasCredential {
		return a.balance, errors.ErrCredentialMissing
	}
	if !a.MatchesCredential(providedSecret) {
		return a.balance, errors.ErrCredentialMismatch
	}
	if err := a.debit(amount); err != nil {
		return a.balance, err
	}
	return a.balance, nil
}

// MatchesCredential reports whether secret equals the stored card number.
func (a *Account) MatchesCredential(secret int64) bool {
	if !a.hasCredential {
		return false
	}
	want := binary.BigEndian.AppendUint64(nil, uint64(a.credential))
	got := binary.BigEndian.AppendUint64(nil, uint64(secret))
	return subtle.ConstantTimeCompare(want, got) == 1
}

func (a *Account) debit(amount int64) error {
	if amount <= 0 {
		return errors.ErrInvalidAmount
	}
	if a.balance < amount {
		return errors.ErrInsufficientFunds
	}
	a.balance -= amount
	return nil
}

func (a *Account) credit(amount int64) error {
	if amount <= 0 || amount > math.MaxInt64-a.balance {
		return errors.ErrInvalidAmount
	}
	a.balance += amount
	return nil
}
