package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riteshkumar/bank-ledger/internal/errors"
	"github.com/riteshkumar/bank-ledger/internal/ledger"
	"github.com/riteshkumar/bank-ledger/internal/models"
	"github.com/riteshkumar/bank-ledger/internal/repository"
)

type TransactionService interface {
	Deposit(ctx context.Context, req *models.DepositRequest) (*models.BalanceResponse, error)
	Withdraw(ctx context.Context, req *models.WithdrawRequest) (*models.WithdrawResponse, error)
	QuoteTax(ctx context.Context, accountID string) (*models.TaxQuoteResponse, error)
	PayTax(ctx context.Context, accountID string) (*models.TaxPaymentResponse, error)
	Transfer(ctx context.Context, req *models.CreateTransferRequest) (*models.TransferResponse, error)
}

// TransactionServiceImpl routes validated inputs to the ledger and forwards
// each accepted operation to the audit log. Business rules live in the ledger;
// its error kinds are returned unchanged (wrapped in an OperationError).
type TransactionServiceImpl struct {
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewTransactionService(accountRepo repository.AccountRepository, auditRepo repository.AuditRepository, logger *slog.Logger) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *TransactionServiceImpl) Deposit(ctx context.Context, req *models.DepositRequest) (*models.BalanceResponse, error) {
	account, err := s.account(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	balance, err := account.Deposit(req.Amount)
	if err != nil {
		s.logger.Warn("deposit rejected",
			"account_id", account.ID(),
			"amount", req.Amount,
			"error", err.Error(),
		)
		return nil, errors.NewOperationError("deposit", account.ID(), err)
	}

	recordAudit(ctx, s.auditRepo, s.logger, &models.AuditEntry{
		Kind:       models.AuditKindDeposit,
		AccountID:  account.ID(),
		Amount:     req.Amount,
		NewBalance: balance,
	})

	s.logger.Info("deposit applied",
		"account_id", account.ID(),
		"amount", req.Amount,
	)
	return &models.BalanceResponse{AccountID: account.ID(), Balance: balance}, nil
}

// Withdraw dispatches on req.Method. For the upi method the response is
// returned even on failure, because it carries the disclosed UPI id.
func (s *TransactionServiceImpl) Withdraw(ctx context.Context, req *models.WithdrawRequest) (*models.WithdrawResponse, error) {
	account, err := s.account(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	method := strings.ToLower(strings.TrimSpace(req.Method))
	if method == "" {
		method = models.WithdrawMethodSimple
	}

	resp := &models.WithdrawResponse{AccountID: account.ID(), Method: method}
	var balance int64

	switch method {
	case models.WithdrawMethodSimple:
		balance, err = account.Withdraw(req.Amount)
	case models.WithdrawMethodUPI:
		var result ledger.WithdrawalResult
		result, err = account.WithdrawWithUPI(req.UPIID, req.Amount)
		balance = result.Balance
		resp.DisclosedUPI = result.DisclosedUPI
	case models.WithdrawMethodCredential:
		if req.Credential == nil {
			err = errors.NewValidationError("credential", "required for credential withdrawal")
			break
		}
		balance, err = account.WithdrawWithCredential(*req.Credential, req.Amount)
	default:
		err = errors.ErrInvalidWithdrawMethod
	}

	if err != nil {
		s.logger.Warn("withdrawal rejected",
			"account_id", account.ID(),
			"method", method,
			"amount", req.Amount,
			"error", err.Error(),
		)
		resp.Balance = account.Balance()
		if method == models.WithdrawMethodUPI {
			return resp, errors.NewOperationError("withdraw", account.ID(), err)
		}
		return nil, errors.NewOperationError("withdraw", account.ID(), err)
	}

	recordAudit(ctx, s.auditRepo, s.logger, &models.AuditEntry{
		Kind:       models.AuditKindWithdraw,
		AccountID:  account.ID(),
		Amount:     req.Amount,
		NewBalance: balance,
		Method:     method,
	})

	s.logger.Info("withdrawal applied",
		"account_id", account.ID(),
		"method", method,
		"amount", req.Amount,
	)
	resp.Balance = balance
	return resp, nil
}

func (s *TransactionServiceImpl) QuoteTax(ctx context.Context, accountID string) (*models.TaxQuoteResponse, error) {
	account, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	taxable, ok := account.Taxable()
	if !ok {
		return nil, errors.NewOperationError("quote tax", account.ID(), errors.ErrNotTaxable)
	}

	return &models.TaxQuoteResponse{
		AccountID:   account.ID(),
		RatePercent: taxable.Rate().Shift(2).String(),
		Tax:         taxable.CalculateTax().StringFixed(2),
	}, nil
}

func (s *TransactionServiceImpl) PayTax(ctx context.Context, accountID string) (*models.TaxPaymentResponse, error) {
	account, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	taxable, ok := account.Taxable()
	if !ok {
		s.logger.Warn("tax payment on non-taxable account",
			"account_id", account.ID(),
		)
		return nil, errors.NewOperationError("pay tax", account.ID(), errors.ErrNotTaxable)
	}

	receipt, err := taxable.PayTax()
	if err != nil {
		s.logger.Warn("tax payment rejected",
			"account_id", account.ID(),
			"tax", receipt.Tax.StringFixed(2),
			"error", err.Error(),
		)
		return nil, errors.NewOperationError("pay tax", account.ID(), err)
	}

	taxPaid := receipt.Tax.StringFixed(2)
	recordAudit(ctx, s.auditRepo, s.logger, &models.AuditEntry{
		Kind:       models.AuditKindTaxPaid,
		AccountID:  account.ID(),
		Amount:     receipt.Deducted,
		TaxAmount:  taxPaid,
		NewBalance: receipt.Balance,
	})

	s.logger.Info("tax paid",
		"account_id", account.ID(),
		"tax", taxPaid,
	)
	return &models.TaxPaymentResponse{AccountID: account.ID(), TaxPaid: taxPaid, Balance: receipt.Balance}, nil
}

// Transfer moves funds out of a transferable account. An unregistered
// recipient id gets a throwaway zero-balance Main account that is never
// registered, so the funds leave the ledger.
func (s *TransactionServiceImpl) Transfer(ctx context.Context, req *models.CreateTransferRequest) (*models.TransferResponse, error) {
	if err := s.validateTransferRequest(req); err != nil {
		s.logger.Warn("invalid transfer request",
			"source_account_id", req.SourceAccountID,
			"destination_account_id", req.DestinationAccountID,
			"error", err.Error(),
		)
		return nil, err
	}

	sender, err := s.account(ctx, req.SourceAccountID)
	if err != nil {
		return nil, err
	}

	transferable, ok := sender.Transferable()
	if !ok {
		s.logger.Warn("transfer from non-transferable account",
			"source_account_id", sender.ID(),
		)
		return nil, errors.NewOperationError("transfer", sender.ID(), errors.ErrNotTransferable)
	}

	recipient, err := s.recipient(ctx, req.DestinationAccountID)
	if err != nil {
		return nil, err
	}

	if err := transferable.Transfer(recipient, req.Amount); err != nil {
		s.logger.Warn("transfer rejected",
			"source_account_id", sender.ID(),
			"destination_account_id", recipient.ID(),
			"amount", req.Amount,
			"error", err.Error(),
		)
		return nil, errors.NewOperationError("transfer", sender.ID(), err)
	}

	transfer := &models.TransferResponse{
		Reference:            uuid.New().String(),
		SourceAccountID:      sender.ID(),
		DestinationAccountID: recipient.ID(),
		Amount:               req.Amount,
		SourceBalance:        sender.Balance(),
		CreatedAt:            s.now(),
	}

	recordAudit(ctx, s.auditRepo, s.logger, &models.AuditEntry{
		Kind:        models.AuditKindTransfer,
		AccountID:   sender.ID(),
		RecipientID: recipient.ID(),
		Amount:      req.Amount,
		NewBalance:  sender.Balance(),
		Reference:   transfer.Reference,
	})

	s.logger.Info("transfer applied",
		"reference", transfer.Reference,
		"source_account_id", sender.ID(),
		"destination_account_id", recipient.ID(),
		"amount", req.Amount,
	)
	return transfer, nil
}

func (s *TransactionServiceImpl) validateTransferRequest(req *models.CreateTransferRequest) error {
	if strings.TrimSpace(req.SourceAccountID) == "" {
		return errors.NewValidationError("from_account_id", "must be non-empty")
	}
	if strings.TrimSpace(req.DestinationAccountID) == "" {
		return errors.NewValidationError("to_account_id", "must be non-empty")
	}
	return nil
}

func (s *TransactionServiceImpl) account(ctx context.Context, id string) (*ledger.Account, error) {
	if id == "" {
		return nil, errors.ErrInvalidAccountID
	}
	account, err := s.accountRepo.GetAccountByID(ctx, id)
	if err != nil {
		s.logger.Warn("account lookup failed",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}
	return account, nil
}

// recipient resolves a transfer destination. A bare account number resolves
// to the registered Main account with that number. Only when neither the id
// nor its Main form is registered does a throwaway Main account receive the
// funds. Unregistered ids carrying another variant's prefix are rejected.
func (s *TransactionServiceImpl) recipient(ctx context.Context, id string) (*ledger.Account, error) {
	id = strings.TrimSpace(id)
	account, err := s.accountRepo.GetAccountByID(ctx, id)
	if err == nil {
		return account, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	mainSpec := ledger.Variants[ledger.VariantMain]
	for _, spec := range ledger.Variants {
		if spec.Variant != ledger.VariantMain && strings.HasPrefix(id, spec.Prefix) {
			s.logger.Warn("transfer recipient not found",
				"destination_account_id", id,
			)
			return nil, err
		}
	}

	number := strings.TrimPrefix(id, mainSpec.Prefix)
	candidate := mainSpec.AccountID(number)
	if candidate != id {
		account, err := s.accountRepo.GetAccountByID(ctx, candidate)
		if err == nil {
			return account, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
	}

	s.logger.Info("transfer recipient not registered, using unregistered recipient",
		"destination_account_id", candidate,
	)
	return ledger.NewAccount(mainSpec, number, "Recipient", 0)
}
