package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/riteshkumar/bank-ledger/internal/errors"
	"github.com/riteshkumar/bank-ledger/internal/ledger"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *ledger.Account) error
	GetAccountByID(ctx context.Context, id string) (*ledger.Account, error)
	AccountExists(ctx context.Context, id string) (bool, error)
	ListAccounts(ctx context.Context) ([]*ledger.Account, error)
}

// MemoryAccountRepository keeps accounts for the life of the process. It hands
// out the live *ledger.Account so ledger operations mutate registered state.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*ledger.Account
}

func NewAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]*ledger.Account)}
}

func (r *MemoryAccountRepository) CreateAccount(ctx context.Context, account *ledger.Account) error {
	if account == nil || account.ID() == "" {
		return errors.ErrInvalidAccountID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID()]; ok {
		return errors.ErrAccountAlreadyExists
	}
	r.accounts[account.ID()] = account
	return nil
}

func (r *MemoryAccountRepository) GetAccountByID(ctx context.Context, id string) (*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return account, nil
}

func (r *MemoryAccountRepository) AccountExists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.accounts[id]
	return ok, nil
}

// ListAccounts returns accounts ordered by id.
func (r *MemoryAccountRepository) ListAccounts(ctx context.Context) ([]*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ledger.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}
