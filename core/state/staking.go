package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"spotwin/native/staking"
)

type storedStakePool struct {
	Mint string
}

type storedStakeAccount struct {
	Owner     [20]byte
	Amount    *big.Int
	StartSlot uint64
}

// StakePoolPut persists the global stake pool record.
func (m *Manager) StakePoolPut(pool *staking.Pool) error {
	sanitized, err := staking.SanitizePool(pool)
	if err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(&storedStakePool{Mint: sanitized.Mint})
	if err != nil {
		return err
	}
	return m.db.Put(stakePoolKey, encoded)
}

// StakePoolGet loads the global stake pool record.
func (m *Manager) StakePoolGet() (*staking.Pool, bool) {
	data, ok := m.get(stakePoolKey)
	if !ok {
		return nil, false
	}
	stored := new(storedStakePool)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	return &staking.Pool{Mint: stored.Mint}, true
}

// StakeAccountPut persists a per-owner stake account.
func (m *Manager) StakeAccountPut(acct *staking.StakeAccount) error {
	if acct == nil {
		return fmt.Errorf("state: nil stake account")
	}
	stored := &storedStakeAccount{
		Owner:     acct.Owner,
		Amount:    big.NewInt(0),
		StartSlot: acct.StartSlot,
	}
	if acct.Amount != nil {
		if acct.Amount.Sign() < 0 {
			return fmt.Errorf("state: stake amount must be non-negative")
		}
		stored.Amount = new(big.Int).Set(acct.Amount)
	}
	encoded, err := rlp.EncodeToBytes(stored)
	if err != nil {
		return err
	}
	return m.db.Put(stakeAccountKey(acct.Owner), encoded)
}

// StakeAccountGet loads the stake account for an owner.
func (m *Manager) StakeAccountGet(owner [20]byte) (*staking.StakeAccount, bool) {
	data, ok := m.get(stakeAccountKey(owner))
	if !ok {
		return nil, false
	}
	stored := new(storedStakeAccount)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	acct := &staking.StakeAccount{
		Owner:     stored.Owner,
		Amount:    big.NewInt(0),
		StartSlot: stored.StartSlot,
	}
	if stored.Amount != nil {
		acct.Amount = new(big.Int).Set(stored.Amount)
	}
	return acct, true
}

// StakeVaultAddress exposes the derived stake vault address through the
// manager so engines can stay behind a narrow state interface.
func (m *Manager) StakeVaultAddress() [20]byte {
	return StakeVaultAddress()
}
