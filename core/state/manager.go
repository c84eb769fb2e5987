package state

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"

	"spotwin/storage"
)

var (
	// ErrUnknownToken is returned when a token symbol has not been registered.
	ErrUnknownToken = errors.New("state: unknown token")
	// ErrInvalidAmount is returned for nil, zero or negative transfer amounts.
	ErrInvalidAmount = errors.New("state: invalid amount")
	// ErrInsufficientBalance is returned when a debit exceeds the source
	// account balance.
	ErrInsufficientBalance = errors.New("state: insufficient balance")
	// ErrSelfTransfer is returned when source and destination are the same
	// address.
	ErrSelfTransfer = errors.New("state: transfer to self")
)

// Manager provides keyed access to all persisted ledger records: the token
// registry, per-address balances, contest and participant records and the
// staking ledger. Records are RLP encoded under keccak-hashed keys.
//
// Manager performs no locking; the hosting process serializes operations
// against the ledger, so every method is a single bounded-time state
// transition that either lands completely or leaves state untouched.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// TokenMetadata describes a registered fungible token mint.
type TokenMetadata struct {
	Symbol   string
	Name     string
	Decimals uint8
}

func (m *Manager) get(key []byte) ([]byte, bool) {
	data, err := m.db.Get(key)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// NormalizeToken canonicalises a token symbol and verifies it is registered.
func (m *Manager) NormalizeToken(symbol string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))
	if trimmed == "" {
		return "", ErrUnknownToken
	}
	if _, ok := m.get(tokenMetadataKey(trimmed)); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
	}
	return trimmed, nil
}

// RegisterToken adds a token mint to the registry. Re-registering an existing
// symbol fails.
func (m *Manager) RegisterToken(meta TokenMetadata) error {
	symbol := strings.ToUpper(strings.TrimSpace(meta.Symbol))
	if symbol == "" {
		return fmt.Errorf("state: token symbol required")
	}
	if _, ok := m.get(tokenMetadataKey(symbol)); ok {
		return fmt.Errorf("state: token %s already registered", symbol)
	}
	meta.Symbol = symbol
	encoded, err := rlp.EncodeToBytes(&meta)
	if err != nil {
		return err
	}
	if err := m.db.Put(tokenMetadataKey(symbol), encoded); err != nil {
		return err
	}
	list, err := m.loadTokenList()
	if err != nil {
		return err
	}
	list = append(list, symbol)
	sort.Strings(list)
	return m.writeTokenList(list)
}

// Token returns the metadata for a registered symbol.
func (m *Manager) Token(symbol string) (*TokenMetadata, error) {
	normalized, err := m.NormalizeToken(symbol)
	if err != nil {
		return nil, err
	}
	data, ok := m.get(tokenMetadataKey(normalized))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
	}
	meta := new(TokenMetadata)
	if err := rlp.DecodeBytes(data, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// TokenList returns the registered token symbols in sorted order.
func (m *Manager) TokenList() ([]string, error) {
	return m.loadTokenList()
}

func (m *Manager) loadTokenList() ([]string, error) {
	data, ok := m.get(tokenListKey)
	if !ok {
		return []string{}, nil
	}
	var list []string
	if err := rlp.DecodeBytes(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (m *Manager) writeTokenList(list []string) error {
	encoded, err := rlp.EncodeToBytes(list)
	if err != nil {
		return err
	}
	return m.db.Put(tokenListKey, encoded)
}

// BalanceOf returns the balance of the address for the given token. Unknown
// addresses hold a zero balance.
func (m *Manager) BalanceOf(token string, addr [20]byte) (*big.Int, error) {
	normalized, err := m.NormalizeToken(token)
	if err != nil {
		return nil, err
	}
	return m.readBalance(normalized, addr), nil
}

func (m *Manager) readBalance(token string, addr [20]byte) *big.Int {
	data, ok := m.get(balanceKey(token, addr))
	if !ok {
		return big.NewInt(0)
	}
	balance := new(big.Int)
	if err := rlp.DecodeBytes(data, balance); err != nil {
		return big.NewInt(0)
	}
	return balance
}

func (m *Manager) writeBalance(token string, addr [20]byte, balance *big.Int) error {
	encoded, err := rlp.EncodeToBytes(balance)
	if err != nil {
		return err
	}
	return m.db.Put(balanceKey(token, addr), encoded)
}

// Mint credits freshly issued tokens to an address. Used for genesis funding
// and deposits arriving from outside the ledger.
func (m *Manager) Mint(token string, addr [20]byte, amount *big.Int) error {
	normalized, err := m.NormalizeToken(token)
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	balance := m.readBalance(normalized, addr)
	return m.writeBalance(normalized, addr, new(big.Int).Add(balance, amount))
}

// Transfer atomically moves tokens between two distinct addresses. The debit
// and the credit land together or not at all; a transfer onto the source
// address fails so the total supply can never change here.
func (m *Manager) Transfer(token string, from, to [20]byte, amount *big.Int) error {
	normalized, err := m.NormalizeToken(token)
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrSelfTransfer
	}
	fromBalance := m.readBalance(normalized, from)
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBalance := m.readBalance(normalized, to)
	newFrom := new(big.Int).Sub(fromBalance, amount)
	newTo := new(big.Int).Add(toBalance, amount)
	if err := m.writeBalance(normalized, from, newFrom); err != nil {
		return err
	}
	if err := m.writeBalance(normalized, to, newTo); err != nil {
		if restoreErr := m.writeBalance(normalized, from, fromBalance); restoreErr != nil {
			return errors.Join(err, fmt.Errorf("state: rollback sender balance: %w", restoreErr))
		}
		return err
	}
	return nil
}
