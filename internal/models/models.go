package models

import (
	"time"
)

type AuditKind string

const (
	AuditKindCreated  AuditKind = "CREATED"
	AuditKindDeposit  AuditKind = "DEPOSIT"
	AuditKindWithdraw AuditKind = "WITHDRAW"
	AuditKindTaxPaid  AuditKind = "TAX_PAID"
	AuditKindTransfer AuditKind = "TRANSFER"
)

const (
	WithdrawMethodSimple     = "simple"
	WithdrawMethodUPI        = "upi"
	WithdrawMethodCredential = "credential"
)

// AuditEntry is one accepted mutating operation. It is rendered and appended
// immediately; nothing keeps it afterwards.
type AuditEntry struct {
	ID         string
	Timestamp  time.Time
	Kind       AuditKind
	AccountID  string
	Amount     int64
	NewBalance int64

	// Created
	Variant    string
	OwnerName  string
	ParentID   string
	UPIID      string
	Credential int64

	// Withdraw
	Method string

	// TaxPaid, two decimal places
	TaxAmount string

	// Transfer
	RecipientID string
	Reference   string
}

type CreateAccountRequest struct {
	Variant        string `json:"variant"`
	AccountNumber  string `json:"account_number"`
	OwnerName      string `json:"owner_name"`
	InitialBalance int64  `json:"initial_balance"`
	UPIID          string `json:"upi_id,omitempty"`
	Credential     *int64 `json:"credential,omitempty"`
}

type AccountResponse struct {
	ID              string `json:"id"`
	AccountNumber   string `json:"account_number"`
	Variant         string `json:"variant"`
	OwnerName       string `json:"owner_name"`
	ParentID        string `json:"parent_id,omitempty"`
	Balance         int64  `json:"balance"`
	MinBalance      int64  `json:"min_balance"`
	InterestRate    int    `json:"interest_rate"`
	UPI             string `json:"upi"`
	Credential      string `json:"credential"`
	Taxable         bool   `json:"taxable"`
	Transferable    bool   `json:"transferable"`
	TaxDetails      string `json:"tax_details,omitempty"`
	TransferDetails string `json:"transfer_details,omitempty"`
	Details         string `json:"details"`
}

type DepositRequest struct {
	AccountID string `json:"-"`
	Amount    int64  `json:"amount"`
}

type WithdrawRequest struct {
	AccountID  string `json:"-"`
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
	UPIID      string `json:"upi_id,omitempty"`
	Credential *int64 `json:"credential,omitempty"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

type WithdrawResponse struct {
	AccountID    string `json:"account_id"`
	Balance      int64  `json:"balance"`
	Method       string `json:"method"`
	DisclosedUPI string `json:"disclosed_upi_id,omitempty"`
}

type TaxQuoteResponse struct {
	AccountID   string `json:"account_id"`
	RatePercent string `json:"rate_percent"`
	Tax         string `json:"tax"`
}

type TaxPaymentResponse struct {
	AccountID string `json:"account_id"`
	TaxPaid   string `json:"tax_paid"`
	Balance   int64  `json:"balance"`
}

type CreateTransferRequest struct {
	SourceAccountID      string `json:"from_account_id"`
	DestinationAccountID string `json:"to_account_id"`
	Amount               int64  `json:"amount"`
}

type TransferResponse struct {
	Reference            string    `json:"reference"`
	SourceAccountID      string    `json:"from_account_id"`
	DestinationAccountID string    `json:"to_account_id"`
	Amount               int64     `json:"amount"`
	SourceBalance        int64     `json:"from_balance"`
	CreatedAt            time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	DisclosedUPI string `json:"disclosed_upi_id,omitempty"`
}
