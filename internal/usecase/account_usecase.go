package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goodsteward/ledger/internal/domain"
)

const accountCacheTTL = 30 * time.Second

// AccountUseCase manages chart-of-accounts entries. Reads go through an
// optional cache; every write invalidates it.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	cache       Cache
}

// NewAccountUseCase creates a new AccountUseCase. cache may be nil.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, txnRepo TransactionRepository, idGen IDGenerator, cache Cache) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OrganizationID string
	Name           string
	Type           domain.AccountType
	Actor          string
}

// CreateAccount creates a new account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountType(input.Type); err != nil {
		return nil, err
	}
	if err := domain.ValidateActor(input.Actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		EntityID:       uc.idGen.Generate(),
		VersionFields:  domain.NewVersionFields(uc.idGen.Generate(), now, input.Actor),
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		Type:           input.Type,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Insert(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves the current version of an account.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, accountCacheKey(id)); err == nil {
			var account domain.Account
			if json.Unmarshal(data, &account) == nil {
				return &account, nil
			}
		}
	}

	account, err := uc.accountRepo.GetCurrent(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			_ = uc.cache.Set(ctx, accountCacheKey(id), data, accountCacheTTL)
		}
	}

	return account, nil
}

// UpdateAccount writes a new version with patch-present fields overlaid.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, patch domain.AccountPatch, actor string) (*domain.Account, error) {
	if err := domain.ValidateActor(actor); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if err := domain.ValidateAccountName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.Type != nil {
		if err := domain.ValidateAccountType(*patch.Type); err != nil {
			return nil, err
		}
	}

	current, err := uc.accountRepo.GetCurrent(ctx, id)
	if err != nil {
		return nil, err
	}

	// A type change flips the sign of every existing posting while the
	// balance cache carries forward unchanged, so it is only allowed while
	// nothing has posted through the account.
	if patch.Type != nil && *patch.Type != current.Type {
		txns, err := uc.txnRepo.ListCurrentByAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, txn := range txns {
			if !txn.IsVoided {
				return nil, domain.NewDomainRuleError(domain.RuleAccountHasPostings,
					"account %s has active postings; its type cannot change", id)
			}
		}
	}

	now := time.Now().UTC()
	next := current.NextVersion(patch, uc.idGen.Generate(), now, actor)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.CloseVersion(ctx, tx, current.VersionID, now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Insert(ctx, tx, next); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id)

	return next, nil
}

// ListAccounts lists accounts for an organization.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.accountRepo.List(ctx, orgID, limit, offset)
}

func (uc *AccountUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, accountCacheKey(id))
	}
}

func accountCacheKey(id string) string {
	return "account:" + id
}
