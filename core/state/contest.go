package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"spotwin/native/contest"
)

// storedContest mirrors the deterministic byte layout used to persist contest
// records. Field order is part of the wire format; do not reorder.
type storedContest struct {
	ID           uint64
	Creator      [20]byte
	PoolMint     string
	EntryFee     *big.Int
	LockSlot     uint64
	Status       uint8
	TotalEntries uint32
	AnswerKey    uint16
	PayoutRoot   [32]byte
	WinnerCount  uint32
	PaidSoFar    *big.Int
}

func newStoredContest(c *contest.Contest) *storedContest {
	stored := &storedContest{
		ID:           c.ID,
		Creator:      c.Creator,
		PoolMint:     c.PoolMint,
		EntryFee:     big.NewInt(0),
		LockSlot:     c.LockSlot,
		Status:       uint8(c.Status),
		TotalEntries: c.TotalEntries,
		AnswerKey:    c.AnswerKey,
		PayoutRoot:   c.PayoutRoot,
		WinnerCount:  c.WinnerCount,
		PaidSoFar:    big.NewInt(0),
	}
	if c.EntryFee != nil {
		stored.EntryFee = new(big.Int).Set(c.EntryFee)
	}
	if c.PaidSoFar != nil {
		stored.PaidSoFar = new(big.Int).Set(c.PaidSoFar)
	}
	return stored
}

func (s *storedContest) toContest() (*contest.Contest, error) {
	c := &contest.Contest{
		ID:           s.ID,
		Creator:      s.Creator,
		PoolMint:     s.PoolMint,
		EntryFee:     big.NewInt(0),
		LockSlot:     s.LockSlot,
		Status:       contest.Status(s.Status),
		TotalEntries: s.TotalEntries,
		AnswerKey:    s.AnswerKey,
		PayoutRoot:   s.PayoutRoot,
		WinnerCount:  s.WinnerCount,
		PaidSoFar:    big.NewInt(0),
	}
	if s.EntryFee != nil {
		c.EntryFee = new(big.Int).Set(s.EntryFee)
	}
	if s.PaidSoFar != nil {
		c.PaidSoFar = new(big.Int).Set(s.PaidSoFar)
	}
	if !c.Status.Valid() {
		return nil, fmt.Errorf("state: invalid stored contest status %d", s.Status)
	}
	return c, nil
}

type storedParticipant struct {
	Player      [20]byte
	AttemptMask uint16
	AnswerBits  uint16
}

// ContestPut sanitizes and persists a contest record.
func (m *Manager) ContestPut(c *contest.Contest) error {
	sanitized, err := contest.SanitizeContest(c)
	if err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(newStoredContest(sanitized))
	if err != nil {
		return err
	}
	return m.db.Put(contestKey(sanitized.ID), encoded)
}

// ContestGet loads a contest record by identifier.
func (m *Manager) ContestGet(id uint64) (*contest.Contest, bool) {
	data, ok := m.get(contestKey(id))
	if !ok {
		return nil, false
	}
	stored := new(storedContest)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	c, err := stored.toContest()
	if err != nil {
		return nil, false
	}
	return c, true
}

// ParticipantPut persists a participant record under (contest, player).
func (m *Manager) ParticipantPut(contestID uint64, p *contest.Participant) error {
	if p == nil {
		return fmt.Errorf("state: nil participant")
	}
	stored := &storedParticipant{
		Player:      p.Player,
		AttemptMask: p.AttemptMask,
		AnswerBits:  p.AnswerBits,
	}
	encoded, err := rlp.EncodeToBytes(stored)
	if err != nil {
		return err
	}
	return m.db.Put(participantKey(contestID, p.Player), encoded)
}

// ParticipantGet loads the participant record for (contest, player).
func (m *Manager) ParticipantGet(contestID uint64, player [20]byte) (*contest.Participant, bool) {
	data, ok := m.get(participantKey(contestID, player))
	if !ok {
		return nil, false
	}
	stored := new(storedParticipant)
	if err := rlp.DecodeBytes(data, stored); err != nil {
		return nil, false
	}
	return &contest.Participant{
		Player:      stored.Player,
		AttemptMask: stored.AttemptMask,
		AnswerBits:  stored.AnswerBits,
	}, true
}

// ContestVaultAddress exposes the derived vault address through the
// manager so engines can stay behind a narrow state interface.
func (m *Manager) ContestVaultAddress(id uint64) [20]byte {
	return ContestVaultAddress(id)
}
