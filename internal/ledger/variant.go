package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riteshkumar/bank-ledger/internal/errors"
)

type Variant string

const (
	VariantMain    Variant = "Main"
	VariantSavings Variant = "Savings"
	VariantCurrent Variant = "Current"
)

// VariantSpec is the per-variant constant table. Behaviour dispatches on these
// fields instead of on the concrete variant.
type VariantSpec struct {
	Variant       Variant
	Prefix        string
	Taxable       bool
	Transferable  bool
	TaxRate       decimal.Decimal
	MinBalance    int64
	TransferLimit int64
	// InterestRate is informational only, no interest is ever accrued.
	InterestRate int
}

var Variants = map[Variant]VariantSpec{
	VariantMain: {
		Variant:       VariantMain,
		Prefix:        "MAIN",
		Taxable:       true,
		Transferable:  true,
		TaxRate:       decimal.RequireFromString("0.15"),
		MinBalance:    0,
		TransferLimit: 1_000_000,
	},
	VariantSavings: {
		Variant:      VariantSavings,
		Prefix:       "SAV",
		Taxable:      true,
		TaxRate:      decimal.RequireFromString("0.10"),
		MinBalance:   2_000,
		InterestRate: 2,
	},
	VariantCurrent: {
		Variant:    VariantCurrent,
		Prefix:     "CUR",
		Taxable:    true,
		TaxRate:    decimal.RequireFromString("0.12"),
		MinBalance: 0,
	},
}

// LookupVariant resolves a variant name case-insensitively.
func LookupVariant(name string) (VariantSpec, error) {
	for v, spec := range Variants {
		if strings.EqualFold(string(v), strings.TrimSpace(name)) {
			return spec, nil
		}
	}
	return VariantSpec{}, errors.ErrUnknownVariant
}

// AccountID builds the variant-prefixed identifier for an account number.
func (s VariantSpec) AccountID(number string) string {
	return s.Prefix + number
}

// ParentID is the naming-convention link from a child account to its Main
// account. Main accounts have no parent.
func (s VariantSpec) ParentID(number string) string {
	if s.Variant == VariantMain {
		return ""
	}
	return Variants[VariantMain].Prefix + number
}
