// Package audit renders ledger operations into the fixed one-line formats
// written to the audit log. Card numbers only ever appear here in sealed form.
package audit

import (
	"fmt"
	"strings"

	"github.com/riteshkumar/bank-ledger/internal/crypto"
	"github.com/riteshkumar/bank-ledger/internal/models"
)

const TimestampFormat = "2006-01-02T15:04:05.000"

// Encrypter seals a card number for durable storage.
type Encrypter interface {
	Encrypt(secret int64) string
}

type Formatter struct {
	cipher  Encrypter
	maskUPI bool
}

func NewFormatter(cipher Encrypter, maskUPI bool) *Formatter {
	return &Formatter{
		cipher:  cipher,
		maskUPI: maskUPI,
	}
}

// Render returns the entry's line without a trailing newline.
func (f *Formatter) Render(e *models.AuditEntry) string {
	prefix := fmt.Sprintf("[%s] [%s]", e.Timestamp.Format(TimestampFormat), e.ID)

	switch e.Kind {
	case models.AuditKindCreated:
		parent := ""
		if e.ParentID != "" {
			parent = fmt.Sprintf("Parent: %s, ", e.ParentID)
		}
		return fmt.Sprintf("%s %s Account created - %sID: %s, Name: %s, Balance: ₹%d, UPI: %s, Card: %s",
			prefix, e.Variant, parent, e.AccountID, singleLine(e.OwnerName), e.NewBalance, f.upi(e.UPIID), f.cipher.Encrypt(e.Credential))
	case models.AuditKindDeposit:
		return fmt.Sprintf("%s DEPOSIT - Account: %s, Amount: ₹%d, New Balance: ₹%d",
			prefix, e.AccountID, e.Amount, e.NewBalance)
	case models.AuditKindWithdraw:
		return fmt.Sprintf("%s WITHDRAW (%s) - Account: %s, Amount: ₹%d, New Balance: ₹%d",
			prefix, methodLabel(e.Method), e.AccountID, e.Amount, e.NewBalance)
	case models.AuditKindTaxPaid:
		return fmt.Sprintf("%s TAX PAID - Account: %s, Amount: ₹%s, New Balance: ₹%d",
			prefix, e.AccountID, e.TaxAmount, e.NewBalance)
	case models.AuditKindTransfer:
		return fmt.Sprintf("%s TRANSFER - From: %s, To: %s, Amount: ₹%d, Ref: %s",
			prefix, e.AccountID, e.RecipientID, e.Amount, e.Reference)
	default:
		return fmt.Sprintf("%s %s - Account: %s, Amount: ₹%d", prefix, e.Kind, e.AccountID, e.Amount)
	}
}

func (f *Formatter) upi(upi string) string {
	if upi == "" {
		return crypto.NotSet
	}
	if f.maskUPI {
		return crypto.MaskUPI(upi)
	}
	return singleLine(upi)
}

// singleLine keeps free-text fields from breaking the one-entry-per-line layout.
func singleLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func methodLabel(method string) string {
	switch method {
	case models.WithdrawMethodSimple:
		return "Simple"
	case models.WithdrawMethodUPI:
		return "UPI"
	case models.WithdrawMethodCredential:
		return "Credit Card"
	default:
		return method
	}
}
