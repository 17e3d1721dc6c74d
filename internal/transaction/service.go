package transaction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bathingculture/books/internal/capital"
	"github.com/bathingculture/books/internal/mercury"
)

// automarkConcurrency bounds the batch categorization fan-out.
const automarkConcurrency = 4

type Repository interface {
	GetAll(ctx context.Context) ([]Marked, error)
	ListByTypes(ctx context.Context, types []Type) ([]Marked, error)
	Upsert(ctx context.Context, m *Marked) error
	Insert(ctx context.Context, m *Marked) error
}

// BankClient is the slice of the banking API the service reads from.
type BankClient interface {
	AccountTransactions(ctx context.Context, accountNumber, start string) ([]mercury.Transaction, error)
}

// CounterpartyRules supplies the remembered counterparty-to-partner rules.
type CounterpartyRules interface {
	Map(ctx context.Context) (map[string]*int64, error)
}

// Accounts holds the org's own account numbers and the listing start date.
type Accounts struct {
	Income string
	LLC    string
	Studio string
	Start  string
}

// All returns the org accounts in feed order: income first, then the two
// expense accounts.
func (a Accounts) All() []string {
	return []string{a.Income, a.LLC, a.Studio}
}

func (a Accounts) contains(number string) bool {
	return number == a.Income || number == a.LLC || number == a.Studio
}

// AccountFilter narrows List to one side of the books.
type AccountFilter string

const (
	FilterNone    AccountFilter = ""
	FilterIncome  AccountFilter = "income"
	FilterExpense AccountFilter = "expense"
)

type Service struct {
	repo     Repository
	bank     BankClient
	rules    CounterpartyRules
	accounts Accounts
}

func NewService(repo Repository, bank BankClient, rules CounterpartyRules, accounts Accounts) *Service {
	return &Service{
		repo:     repo,
		bank:     bank,
		rules:    rules,
		accounts: accounts,
	}
}

func (s *Service) feedAccounts(filter AccountFilter) []string {
	switch filter {
	case FilterIncome:
		return []string{s.accounts.Income}
	case FilterExpense:
		return []string{s.accounts.LLC, s.accounts.Studio}
	default:
		return s.accounts.All()
	}
}

// List merges the bank feed with the local annotations. Transactions with
// no marked row come back unassigned with no credited partner. The result
// is ordered newest first.
func (s *Service) List(ctx context.Context, filter AccountFilter) ([]Transaction, error) {
	marked, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading marked transactions: %w", err)
	}

	markedByID := make(map[string]*Marked, len(marked))
	for i := range marked {
		markedByID[marked[i].TransactionID] = &marked[i]
	}

	var txs []Transaction

	for _, account := range s.feedAccounts(filter) {
		bankTxs, err := s.bank.AccountTransactions(ctx, account, s.accounts.Start)
		if err != nil {
			return nil, fmt.Errorf("fetching transactions for account: %w", err)
		}

		for _, bt := range bankTxs {
			txs = append(txs, s.classify(account, bt, markedByID[bt.ID]))
		}
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].PostedAt.After(txs[j].PostedAt)
	})

	return txs, nil
}

// classify merges one bank transaction with its annotation, if any.
// A transaction between the org's own accounts is internal and stays out of
// income/expense math no matter how it is marked.
func (s *Service) classify(accountNumber string, bt mercury.Transaction, m *Marked) Transaction {
	tx := Transaction{
		ID:               bt.ID,
		AccountNumber:    accountNumber,
		CounterpartyID:   bt.CounterpartyID,
		CounterpartyName: bt.CounterpartyName,
		Amount:           bt.Amount,
		Kind:             bt.Kind,
		Status:           bt.Status,
		PostedAt:         bt.PostedAt,
		Type:             TypeUnassigned,
		IsInternal:       bt.Kind == "internalTransfer" || s.accounts.contains(bt.CounterpartyID),
	}

	if m != nil {
		tx.Type = m.Type
		tx.CreditedUserID = m.CreditedUserID
	}

	return tx
}

// Mark categorizes one bank transaction, upserting its annotation keyed on
// the transaction id. Re-marking is always safe; the latest call wins.
func (s *Service) Mark(ctx context.Context, txID string, creditedUserID *int64, typ Type) error {
	bt, account, err := s.findBankTransaction(ctx, txID)
	if err != nil {
		return err
	}

	m := &Marked{
		AccountNumber:    account,
		TransactionID:    bt.ID,
		IsDebit:          bt.Amount < 0,
		Amount:           bt.Amount.Abs(),
		CreditedUserID:   creditedUserID,
		Type:             typ,
		CounterpartyID:   bt.CounterpartyID,
		CounterpartyName: bt.CounterpartyName,
		PostedAt:         bt.PostedAt,
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return fmt.Errorf("marking transaction: %w", err)
	}

	return nil
}

func (s *Service) findBankTransaction(ctx context.Context, txID string) (*mercury.Transaction, string, error) {
	for _, account := range s.accounts.All() {
		bankTxs, err := s.bank.AccountTransactions(ctx, account, s.accounts.Start)
		if err != nil {
			return nil, "", fmt.Errorf("fetching transactions for account: %w", err)
		}

		for i := range bankTxs {
			if bankTxs[i].ID == txID {
				return &bankTxs[i], account, nil
			}
		}
	}

	return nil, "", ErrNotFound
}

// AutoMarkResult reports the outcome of one batch categorization run.
type AutoMarkResult struct {
	Marked  int
	Skipped int
	Failed  []AutoMarkFailure
}

type AutoMarkFailure struct {
	TransactionID string
	Err           error
}

// AutoMark applies the remembered counterparty rules to every unassigned
// transaction in the feed: credited partner from the rule, type from the
// amount sign. The batch runs with bounded concurrency and accounts for
// every item. Writes are plain inserts so a manual mark that lands first
// wins; the duplicate counts as skipped.
func (s *Service) AutoMark(ctx context.Context) (*AutoMarkResult, error) {
	rules, err := s.rules.Map(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading counterparty rules: %w", err)
	}

	txs, err := s.List(ctx, FilterNone)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result AutoMarkResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(automarkConcurrency)

	for _, tx := range txs {
		if tx.Type != TypeUnassigned || tx.IsInternal {
			continue
		}

		userID, ok := rules[tx.CounterpartyID]
		if !ok {
			continue
		}

		g.Go(func() error {
			typ := TypeExpense
			if tx.Amount > 0 {
				typ = TypeIncome
			}

			m := &Marked{
				AccountNumber:    tx.AccountNumber,
				TransactionID:    tx.ID,
				IsDebit:          tx.Amount < 0,
				Amount:           tx.Amount.Abs(),
				CreditedUserID:   userID,
				Type:             typ,
				CounterpartyID:   tx.CounterpartyID,
				CounterpartyName: tx.CounterpartyName,
				PostedAt:         tx.PostedAt,
			}

			err := s.repo.Insert(ctx, m)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				result.Marked++
			case errors.Is(err, ErrAlreadyMarked):
				result.Skipped++
			default:
				result.Failed = append(result.Failed, AutoMarkFailure{TransactionID: tx.ID, Err: err})
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &result, nil
}

// ledgerTypes are the marked types that enter the capital math.
var ledgerTypes = []Type{TypeIncome, TypeExpense, TypeDistribution, TypeDeposit}

// CapitalEntries returns the annotated rows the capital aggregator folds,
// with the studio flag resolved from the account each row belongs to.
func (s *Service) CapitalEntries(ctx context.Context) ([]capital.Entry, error) {
	rows, err := s.repo.ListByTypes(ctx, ledgerTypes)
	if err != nil {
		return nil, fmt.Errorf("loading ledger rows: %w", err)
	}

	entries := make([]capital.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, capital.Entry{
			Amount:         r.Amount.Float(),
			CreditedUserID: r.CreditedUserID,
			Type:           string(r.Type),
			IsStudio:       r.AccountNumber == s.accounts.Studio,
			PostedAt:       r.PostedAt,
		})
	}

	return entries, nil
}
