package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/riteshkumar/bank-ledger/internal/crypto"
	"github.com/riteshkumar/bank-ledger/internal/errors"
	"github.com/riteshkumar/bank-ledger/internal/ledger"
	"github.com/riteshkumar/bank-ledger/internal/models"
	"github.com/riteshkumar/bank-ledger/internal/repository"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*ledger.Account, error)
	GetAccount(ctx context.Context, id string) (*ledger.Account, error)
	ListAccounts(ctx context.Context) ([]*ledger.Account, error)
}

type AccountServiceImpl struct {
	accountRepo repository.AccountRepository
	auditRepo   repository.AuditRepository
	logger      *slog.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, auditRepo repository.AuditRepository, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// CreateAccount registers a new account and records it in the audit log. A
// failed audit write never undoes the registration.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*ledger.Account, error) {
	spec, err := s.validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("invalid create account request",
			"variant", req.Variant,
			"account_number", req.AccountNumber,
			"error", err.Error(),
		)
		return nil, err
	}

	var opts []ledger.Option
	if req.UPIID != "" {
		opts = append(opts, ledger.WithUPI(req.UPIID))
	}
	credential := crypto.NoCredential
	if req.Credential != nil {
		credential = *req.Credential
		opts = append(opts, ledger.WithCredential(credential))
	}

	account, err := ledger.NewAccount(spec, strings.TrimSpace(req.AccountNumber), strings.TrimSpace(req.OwnerName), req.InitialBalance, opts...)
	if err != nil {
		s.logger.Warn("failed to build account",
			"account_number", req.AccountNumber,
			"error", err.Error(),
		)
		return nil, err
	}

	exists, err := s.accountRepo.AccountExists(ctx, account.ID())
	if err != nil {
		s.logger.Error("failed to check account existence",
			"account_id", account.ID(),
			"error", err.Error(),
		)
		return nil, err
	}
	if exists {
		s.logger.Warn("account already exists",
			"account_id", account.ID(),
		)
		return nil, errors.ErrAccountAlreadyExists
	}

	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		if errors.IsAlreadyExists(err) {
			s.logger.Warn("account already exists",
				"account_id", account.ID(),
			)
			return nil, err
		}

		s.logger.Error("failed to create account",
			"account_id", account.ID(),
			"error", err.Error(),
		)
		return nil, err
	}

	s.createAccountAuditLog(ctx, account, req.UPIID, credential)

	s.logger.Info("account created successfully",
		"account_id", account.ID(),
		"variant", string(account.Variant()),
	)
	return account, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	if id == "" {
		return nil, errors.ErrInvalidAccountID
	}

	account, err := s.accountRepo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account not found",
				"account_id", id,
			)
			return nil, err
		}
		s.logger.Error("failed to get account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}

	return account, nil
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

func (s *AccountServiceImpl) validateCreateRequest(req *models.CreateAccountRequest) (ledger.VariantSpec, error) {
	spec, err := ledger.LookupVariant(req.Variant)
	if err != nil {
		return ledger.VariantSpec{}, err
	}
	if strings.TrimSpace(req.AccountNumber) == "" {
		return ledger.VariantSpec{}, errors.NewValidationError("account_number", "must be non-empty")
	}
	if strings.TrimSpace(req.OwnerName) == "" {
		return ledger.VariantSpec{}, errors.NewValidationError("owner_name", "must be non-empty")
	}
	if req.InitialBalance < 0 {
		return ledger.VariantSpec{}, errors.ErrInvalidAmount
	}
	if req.Credential != nil && *req.Credential < 0 {
		return ledger.VariantSpec{}, errors.NewValidationError("credential", "must be non-negative")
	}
	return spec, nil
}

func (s *AccountServiceImpl) createAccountAuditLog(ctx context.Context, account *ledger.Account, upi string, credential int64) {
	entry := &models.AuditEntry{
		Kind:       models.AuditKindCreated,
		AccountID:  account.ID(),
		Variant:    string(account.Variant()),
		OwnerName:  account.Owner(),
		ParentID:   account.ParentID(),
		NewBalance: account.Balance(),
		UPIID:      upi,
		Credential: credential,
	}
	recordAudit(ctx, s.auditRepo, s.logger, entry)
}

// recordAudit forwards entry to the audit log and absorbs any failure.
func recordAudit(ctx context.Context, auditRepo repository.AuditRepository, logger *slog.Logger, entry *models.AuditEntry) {
	err := auditRepo.Append(ctx, entry)
	if err == nil {
		return
	}
	if errors.Is(err, errors.ErrLogSizeExceeded) {
		logger.Warn("audit entry skipped, log size limit reached",
			"account_id", entry.AccountID,
			"kind", string(entry.Kind),
		)
		return
	}
	logger.Error("failed to write audit entry",
		"account_id", entry.AccountID,
		"kind", string(entry.Kind),
		"error", err.Error(),
	)
}
