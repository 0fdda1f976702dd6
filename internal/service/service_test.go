package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/bank-ledger/internal/errors"
	"github.com/riteshkumar/bank-ledger/internal/ledger"
	"github.com/riteshkumar/bank-ledger/internal/models"
	"github.com/riteshkumar/bank-ledger/internal/repository"
)

// recordingAudit keeps appended entries in memory, or fails every append
// with err when it is set.
type recordingAudit struct {
	entries []models.AuditEntry
	err     error
}

func (a *recordingAudit) Append(ctx context.Context, entry *models.AuditEntry) error {
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, *entry)
	return nil
}

type fixture struct {
	accounts     *repository.MemoryAccountRepository
	audit        *recordingAudit
	logs         *bytes.Buffer
	accountSvc   *AccountServiceImpl
	transactions *TransactionServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts: repository.NewAccountRepository(),
		audit:    &recordingAudit{},
		logs:     &bytes.Buffer{},
	}
	logger := slog.New(slog.NewJSONHandler(f.logs, nil))
	f.accountSvc = NewAccountService(f.accounts, f.audit, logger)
	f.transactions = NewTransactionService(f.accounts, f.audit, logger)
	return f
}

func (f *fixture) register(t *testing.T, spec ledger.VariantSpec, number string, balance int64, opts ...ledger.Option) *ledger.Account {
	t.Helper()
	account, err := ledger.NewAccount(spec, number, "Asha", balance, opts...)
	require.NoError(t, err)
	require.NoError(t, f.accounts.CreateAccount(context.Background(), account))
	return account
}

func int64Ptr(v int64) *int64 {
	return &v
}

func mustFail(t *testing.T, err error, target error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, target), "expected %v, got %v", target, err)
}
