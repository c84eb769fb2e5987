package staking

import (
	"fmt"
	"math/big"
	"strings"
)

// Pool describes the single global stake vault. It exists exactly once per
// deployment and pins the token mint accepted for staking.
type Pool struct {
	Mint string
}

// Clone returns a copy of the pool record.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// SanitizePool validates and normalises the pool definition without mutating
// the original value.
func SanitizePool(p *Pool) (*Pool, error) {
	if p == nil {
		return nil, fmt.Errorf("nil stake pool")
	}
	clone := p.Clone()
	mint := strings.ToUpper(strings.TrimSpace(clone.Mint))
	if mint == "" {
		return nil, fmt.Errorf("stake pool mint required")
	}
	clone.Mint = mint
	return clone, nil
}

// StakeAccount is the per-owner record of currently locked tokens. It is
// created zeroed on first stake, persists indefinitely and is reused across
// stake/unstake cycles. StartSlot marks the most recent deposit and feeds the
// optional lock-period policy.
type StakeAccount struct {
	Owner     [20]byte
	Amount    *big.Int
	StartSlot uint64
}

// Clone returns a deep copy of the stake account.
func (a *StakeAccount) Clone() *StakeAccount {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Amount != nil {
		clone.Amount = new(big.Int).Set(a.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}
