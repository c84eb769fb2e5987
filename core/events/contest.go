package events

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"spotwin/core/types"
	"spotwin/crypto"
)

const (
	// TypeContestCreated is emitted when a contest and its vault are allocated.
	TypeContestCreated = "contest.created"
	// TypeContestJoined captures a paid entry into an open contest.
	TypeContestJoined = "contest.joined"
	// TypeContestAnswersUpdated captures a participant's merged answer masks.
	TypeContestAnswersUpdated = "contest.answers_updated"
	// TypeContestLocked is emitted when the creator closes entries.
	TypeContestLocked = "contest.locked"
	// TypeContestAnswerKeyPosted is emitted exactly once per contest.
	TypeContestAnswerKeyPosted = "contest.answer_key_posted"
	// TypeContestPayoutRootPosted captures the winner commitment posted by the creator.
	TypeContestPayoutRootPosted = "contest.payout_root_posted"
	// TypeContestBatchPaid captures one atomic multi-recipient disbursement.
	TypeContestBatchPaid = "contest.batch_paid"
	// TypeContestFeesSwept is emitted when the creator drains the residual vault balance.
	TypeContestFeesSwept = "contest.fees_swept"
)

// ContestCreated captures the allocation of a contest and its escrow vault.
type ContestCreated struct {
	ID       uint64
	Creator  [20]byte
	Mint     string
	EntryFee *big.Int
	LockSlot uint64
}

// EventType satisfies the Event interface.
func (ContestCreated) EventType() string { return TypeContestCreated }

// Event converts the structured payload into a broadcastable event.
func (e ContestCreated) Event() *types.Event {
	attrs := map[string]string{
		"id":       strconv.FormatUint(e.ID, 10),
		"creator":  crypto.MustNewAddress(crypto.SpotPrefix, e.Creator[:]).String(),
		"mint":     e.Mint,
		"entryFee": formatAmount(e.EntryFee),
	}
	if e.LockSlot > 0 {
		attrs["lockSlot"] = strconv.FormatUint(e.LockSlot, 10)
	}
	return &types.Event{Type: TypeContestCreated, Attributes: attrs}
}

// ContestJoined captures a successful paid entry.
type ContestJoined struct {
	ID     uint64
	Player [20]byte
	Fee    *big.Int
	Slot   uint64
}

// EventType satisfies the Event interface.
func (ContestJoined) EventType() string { return TypeContestJoined }

// Event converts the structured payload into a broadcastable event.
func (e ContestJoined) Event() *types.Event {
	attrs := map[string]string{
		"id":     strconv.FormatUint(e.ID, 10),
		"player": crypto.MustNewAddress(crypto.SpotPrefix, e.Player[:]).String(),
		"fee":    formatAmount(e.Fee),
	}
	if e.Slot > 0 {
		attrs["slot"] = strconv.FormatUint(e.Slot, 10)
	}
	return &types.Event{Type: TypeContestJoined, Attributes: attrs}
}

// ContestAnswersUpdated captures the post-merge answer state of a participant.
type ContestAnswersUpdated struct {
	ID          uint64
	Player      [20]byte
	AttemptMask uint16
	AnswerBits  uint16
}

// EventType satisfies the Event interface.
func (ContestAnswersUpdated) EventType() string { return TypeContestAnswersUpdated }

// Event converts the structured payload into a broadcastable event.
func (e ContestAnswersUpdated) Event() *types.Event {
	attrs := map[string]string{
		"id":          strconv.FormatUint(e.ID, 10),
		"player":      crypto.MustNewAddress(crypto.SpotPrefix, e.Player[:]).String(),
		"attemptMask": strconv.FormatUint(uint64(e.AttemptMask), 10),
		"answerBits":  strconv.FormatUint(uint64(e.AnswerBits), 10),
	}
	return &types.Event{Type: TypeContestAnswersUpdated, Attributes: attrs}
}

// ContestLocked captures the Open -> Locked transition.
type ContestLocked struct {
	ID      uint64
	Creator [20]byte
}

// EventType satisfies the Event interface.
func (ContestLocked) EventType() string { return TypeContestLocked }

// Event converts the structured payload into a broadcastable event.
func (e ContestLocked) Event() *types.Event {
	attrs := map[string]string{
		"id":      strconv.FormatUint(e.ID, 10),
		"creator": crypto.MustNewAddress(crypto.SpotPrefix, e.Creator[:]).String(),
	}
	return &types.Event{Type: TypeContestLocked, Attributes: attrs}
}

// ContestAnswerKeyPosted captures the write-once answer key.
type ContestAnswerKeyPosted struct {
	ID  uint64
	Key uint16
}

// EventType satisfies the Event interface.
func (ContestAnswerKeyPosted) EventType() string { return TypeContestAnswerKeyPosted }

// Event converts the structured payload into a broadcastable event.
func (e ContestAnswerKeyPosted) Event() *types.Event {
	attrs := map[string]string{
		"id":  strconv.FormatUint(e.ID, 10),
		"key": strconv.FormatUint(uint64(e.Key), 10),
	}
	return &types.Event{Type: TypeContestAnswerKeyPosted, Attributes: attrs}
}

// ContestPayoutRootPosted captures the winner-set commitment.
type ContestPayoutRootPosted struct {
	ID          uint64
	Root        [32]byte
	WinnerCount uint32
}

// EventType satisfies the Event interface.
func (ContestPayoutRootPosted) EventType() string { return TypeContestPayoutRootPosted }

// Event converts the structured payload into a broadcastable event.
func (e ContestPayoutRootPosted) Event() *types.Event {
	attrs := map[string]string{
		"id":          strconv.FormatUint(e.ID, 10),
		"root":        hex.EncodeToString(e.Root[:]),
		"winnerCount": strconv.FormatUint(uint64(e.WinnerCount), 10),
	}
	return &types.Event{Type: TypeContestPayoutRootPosted, Attributes: attrs}
}

// ContestBatchPaid captures one accepted payout batch.
type ContestBatchPaid struct {
	ID        uint64
	Winners   int
	Total     *big.Int
	PaidSoFar *big.Int
}

// EventType satisfies the Event interface.
func (ContestBatchPaid) EventType() string { return TypeContestBatchPaid }

// Event converts the structured payload into a broadcastable event.
func (e ContestBatchPaid) Event() *types.Event {
	attrs := map[string]string{
		"id":        strconv.FormatUint(e.ID, 10),
		"winners":   strconv.Itoa(e.Winners),
		"total":     formatAmount(e.Total),
		"paidSoFar": formatAmount(e.PaidSoFar),
	}
	return &types.Event{Type: TypeContestBatchPaid, Attributes: attrs}
}

// ContestFeesSwept captures the residual vault balance returned to the creator.
type ContestFeesSwept struct {
	ID      uint64
	Creator [20]byte
	Amount  *big.Int
}

// EventType satisfies the Event interface.
func (ContestFeesSwept) EventType() string { return TypeContestFeesSwept }

// Event converts the structured payload into a broadcastable event.
func (e ContestFeesSwept) Event() *types.Event {
	attrs := map[string]string{
		"id":      strconv.FormatUint(e.ID, 10),
		"creator": crypto.MustNewAddress(crypto.SpotPrefix, e.Creator[:]).String(),
		"amount":  formatAmount(e.Amount),
	}
	return &types.Event{Type: TypeContestFeesSwept, Attributes: attrs}
}
