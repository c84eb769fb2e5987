package contest

import (
	"fmt"
	"math/big"
	"strings"
)

// Status tracks the contest lifecycle. Transitions only ever move forward:
// Open -> Locked -> AnswerKeyPosted -> Settled, with Cancelled reserved for
// administrative aborts before any entries are paid out.
type Status uint8

const (
	// StatusOpen accepts paid entries and answer submissions.
	StatusOpen Status = iota
	// StatusLocked rejects entries and answers while awaiting the answer key.
	StatusLocked
	// StatusAnswerKeyPosted enables payout batches and the final sweep.
	StatusAnswerKeyPosted
	// StatusSettled marks a contest whose residual vault balance was swept.
	StatusSettled
	// StatusCancelled marks an administratively aborted contest.
	StatusCancelled
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusLocked, StatusAnswerKeyPosted, StatusSettled, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusLocked:
		return "locked"
	case StatusAnswerKeyPosted:
		return "answer_key_posted"
	case StatusSettled:
		return "settled"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Contest is the canonical on-ledger record for a prediction contest. The
// escrow vault address is derived from the identifier and never stored.
type Contest struct {
	ID           uint64
	Creator      [20]byte
	PoolMint     string
	EntryFee     *big.Int
	LockSlot     uint64
	Status       Status
	TotalEntries uint32
	AnswerKey    uint16
	PayoutRoot   [32]byte
	WinnerCount  uint32
	PaidSoFar    *big.Int
}

// Clone returns a deep copy of the contest record.
func (c *Contest) Clone() *Contest {
	if c == nil {
		return nil
	}
	clone := *c
	clone.EntryFee = big.NewInt(0)
	if c.EntryFee != nil {
		clone.EntryFee = new(big.Int).Set(c.EntryFee)
	}
	clone.PaidSoFar = big.NewInt(0)
	if c.PaidSoFar != nil {
		clone.PaidSoFar = new(big.Int).Set(c.PaidSoFar)
	}
	return &clone
}

// SanitizeContest validates a contest record and returns a normalized deep
// copy safe to persist.
func SanitizeContest(c *Contest) (*Contest, error) {
	if c == nil {
		return nil, fmt.Errorf("contest: nil record")
	}
	sanitized := c.Clone()
	sanitized.PoolMint = strings.ToUpper(strings.TrimSpace(sanitized.PoolMint))
	if sanitized.PoolMint == "" {
		return nil, fmt.Errorf("contest: pool mint required")
	}
	if sanitized.EntryFee == nil || sanitized.EntryFee.Sign() <= 0 {
		return nil, fmt.Errorf("%w: entry fee must be positive", ErrInvalidAmount)
	}
	if sanitized.PaidSoFar.Sign() < 0 {
		return nil, fmt.Errorf("%w: paid total must be non-negative", ErrInvalidAmount)
	}
	if !sanitized.Status.Valid() {
		return nil, fmt.Errorf("contest: invalid status %d", uint8(sanitized.Status))
	}
	return sanitized, nil
}

// Participant records one player's entry and their merged answer masks. Bit i
// of AttemptMask marks question i as answered; the matching bit of AnswerBits
// holds the recorded answer and is meaningless while the attempt bit is clear.
type Participant struct {
	Player      [20]byte
	AttemptMask uint16
	AnswerBits  uint16
}

// Clone returns a copy of the participant record.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
