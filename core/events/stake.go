package events

import (
	"math/big"
	"strconv"

	"spotwin/core/types"
	"spotwin/crypto"
)

const (
	// TypeStakePoolInitialized is emitted once when the global stake vault is created.
	TypeStakePoolInitialized = "stake.pool_initialized"
	// TypeStakeDeposited captures tokens moving into the stake vault.
	TypeStakeDeposited = "stake.deposited"
	// TypeStakeWithdrawn captures tokens returned to a staker.
	TypeStakeWithdrawn = "stake.withdrawn"
)

// StakePoolInitialized captures the one-time stake pool creation.
type StakePoolInitialized struct {
	Mint string
}

// EventType satisfies the Event interface.
func (StakePoolInitialized) EventType() string { return TypeStakePoolInitialized }

// Event converts the structured payload into a broadcastable event.
func (e StakePoolInitialized) Event() *types.Event {
	attrs := map[string]string{"mint": e.Mint}
	return &types.Event{Type: TypeStakePoolInitialized, Attributes: attrs}
}

// StakeDeposited captures the balance delta realised when staking.
type StakeDeposited struct {
	Owner     [20]byte
	Amount    *big.Int
	NewAmount *big.Int
	Slot      uint64
}

// EventType satisfies the Event interface.
func (StakeDeposited) EventType() string { return TypeStakeDeposited }

// Event converts the structured payload into a broadcastable event.
func (e StakeDeposited) Event() *types.Event {
	attrs := map[string]string{
		"owner":     crypto.MustNewAddress(crypto.SpotPrefix, e.Owner[:]).String(),
		"amount":    formatAmount(e.Amount),
		"newAmount": formatAmount(e.NewAmount),
	}
	if e.Slot > 0 {
		attrs["slot"] = strconv.FormatUint(e.Slot, 10)
	}
	return &types.Event{Type: TypeStakeDeposited, Attributes: attrs}
}

// StakeWithdrawn captures the balance delta realised when unstaking.
type StakeWithdrawn struct {
	Owner     [20]byte
	Amount    *big.Int
	NewAmount *big.Int
}

// EventType satisfies the Event interface.
func (StakeWithdrawn) EventType() string { return TypeStakeWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e StakeWithdrawn) Event() *types.Event {
	attrs := map[string]string{
		"owner":     crypto.MustNewAddress(crypto.SpotPrefix, e.Owner[:]).String(),
		"amount":    formatAmount(e.Amount),
		"newAmount": formatAmount(e.NewAmount),
	}
	return &types.Event{Type: TypeStakeWithdrawn, Attributes: attrs}
}
