// Package ledger defines the boundary to the external token-transfer
// primitive. The engine only checks balances and mints against its own
// expectations before calling in; signer and ownership enforcement belong
// to the collaborator behind the interface.
package ledger

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Account is a token account as observed through the ledger.
type Account struct {
	Address common.Hash
	Mint    common.Hash
	Owner   common.Hash
	Balance uint64
}

// Ledger is the token primitive consumed by the settlement engine.
type Ledger interface {
	// CreateAccount registers a new token account for a mint.
	CreateAccount(addr, mint, owner common.Hash) error
	// Account returns the current state of a token account.
	Account(addr common.Hash) (Account, error)
	// Transfer moves amount between two accounts of the same mint.
	Transfer(from, to common.Hash, amount uint64) error
	// Mint credits newly issued tokens of the given mint to an account.
	Mint(mint, to common.Hash, amount uint64) error
	// Burn debits and destroys tokens of the given mint from an account.
	Burn(mint, from common.Hash, amount uint64) error
}

// Memory is an in-process ledger used by tests and the standalone demo.
type Memory struct {
	mu       sync.Mutex
	accounts map[common.Hash]*Account
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[common.Hash]*Account)}
}

// CreateAccount registers a token account. Existing accounts are rejected.
func (m *Memory) CreateAccount(addr, mint, owner common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[addr]; ok {
		return fmt.Errorf("account exists: %s", addr.Hex())
	}
	m.accounts[addr] = &Account{Address: addr, Mint: mint, Owner: owner}
	return nil
}

func (m *Memory) Account(addr common.Hash) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[addr]
	if !ok {
		return Account{}, fmt.Errorf("unknown account: %s", addr.Hex())
	}
	return *acc, nil
}

func (m *Memory) Transfer(from, to common.Hash, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.accounts[from]
	if !ok {
		return fmt.Errorf("unknown source account: %s", from.Hex())
	}
	dst, ok := m.accounts[to]
	if !ok {
		return fmt.Errorf("unknown destination account: %s", to.Hex())
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("mint mismatch: %s vs %s", src.Mint.Hex(), dst.Mint.Hex())
	}
	if src.Balance < amount {
		return fmt.Errorf("insufficient balance: have %d, need %d", src.Balance, amount)
	}

	src.Balance -= amount
	dst.Balance += amount
	return nil
}

func (m *Memory) Mint(mint, to common.Hash, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dst, ok := m.accounts[to]
	if !ok {
		return fmt.Errorf("unknown account: %s", to.Hex())
	}
	if dst.Mint != mint {
		return fmt.Errorf("mint mismatch: account holds %s", dst.Mint.Hex())
	}
	dst.Balance += amount
	return nil
}

func (m *Memory) Burn(mint, from common.Hash, amount uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.accounts[from]
	if !ok {
		return fmt.Errorf("unknown account: %s", from.Hex())
	}
	if src.Mint != mint {
		return fmt.Errorf("mint mismatch: account holds %s", src.Mint.Hex())
	}
	if src.Balance < amount {
		return fmt.Errorf("insufficient balance: have %d, need %d", src.Balance, amount)
	}
	src.Balance -= amount
	return nil
}
