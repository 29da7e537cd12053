// Package memory provides process-local implementations of the repositories
// for running without Postgres. Each store guards its maps with a mutex and
// hands out clones, so callers never alias stored records.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"walletwise/internal/models"
	"walletwise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*models.User)}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) IncrementBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return decimal.Zero, repository.ErrNotFound
	}
	u.WalletBalance = u.WalletBalance.Add(delta)
	u.UpdatedAt = time.Now()
	return u.WalletBalance, nil
}

func (r *UserRepository) SetBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.WalletBalance = balance
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids, nil
}

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*models.Transaction
	seq          map[uuid.UUID]int
	next         int
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[uuid.UUID]*models.Transaction),
		seq:          make(map[uuid.UUID]int),
	}
}

func (r *TransactionRepository) Create(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions[tx.ID] = tx.Clone()
	r.next++
	r.seq[tx.ID] = r.next
	return nil
}

func (r *TransactionRepository) GetByIDForUser(_ context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return tx.Clone(), nil
}

func (r *TransactionRepository) Update(_ context.Context, prev, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return repository.ErrConflict
	}
	if existing.Type != prev.Type || !existing.Amount.Equal(prev.Amount) {
		return repository.ErrConflict
	}
	r.transactions[tx.ID] = tx.Clone()
	return nil
}

func (r *TransactionRepository) DeleteForUser(_ context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, repository.ErrNotFound
	}
	delete(r.transactions, id)
	delete(r.seq, id)
	return tx, nil
}

func (r *TransactionRepository) UpdateNextExecutionDate(_ context.Context, id, userID uuid.UUID, next time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok || tx.UserID != userID {
		return repository.ErrNotFound
	}
	tx.NextExecutionDate = &next
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *TransactionRepository) List(_ context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]*models.Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var matched []*models.Transaction
	for _, tx := range r.transactions {
		if tx.UserID != userID {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.Date.After(*filter.To) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		matched = append(matched, tx)
	}

	sort.SliceStable(matched, r.less(matched, filter.Sort))

	total := len(matched)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	page := make([]*models.Transaction, 0, end-start)
	for _, tx := range matched[start:end] {
		page = append(page, tx.Clone())
	}
	return page, total, nil
}

func (r *TransactionRepository) less(txs []*models.Transaction, s models.TransactionSort) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := txs[i], txs[j]
		switch s {
		case models.SortOldest:
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return r.seq[a.ID] < r.seq[b.ID]
		case models.SortAmountHigh:
			if !a.Amount.Equal(b.Amount) {
				return a.Amount.GreaterThan(b.Amount)
			}
		case models.SortAmountLow:
			if !a.Amount.Equal(b.Amount) {
				return a.Amount.LessThan(b.Amount)
			}
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return r.seq[a.ID] > r.seq[b.ID]
	}
}

func (r *TransactionRepository) ListAllByUser(_ context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Transaction
	for _, tx := range r.transactions {
		if tx.UserID == userID {
			out = append(out, tx.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out, nil
}

type ActivityRepository struct {
	mu         sync.RWMutex
	activities []*models.TransactionActivity
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Create(_ context.Context, a *models.TransactionActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *a
	c.Changes = append([]byte(nil), a.Changes...)
	r.activities = append(r.activities, &c)
	return nil
}

// ListByTransaction returns newest first; equal timestamps keep reverse
// insertion order.
func (r *ActivityRepository) ListByTransaction(_ context.Context, userID, transactionID uuid.UUID) ([]*models.TransactionActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.TransactionActivity
	for i := len(r.activities) - 1; i >= 0; i-- {
		a := r.activities[i]
		if a.UserID == userID && a.TransactionID == transactionID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// Len reports how many records have been written.
func (r *ActivityRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.activities)
}
