package contest

import "errors"

var (
	// ErrContestExists is returned when creating a contest under a used identifier.
	ErrContestExists = errors.New("contest: already exists")
	// ErrContestNotFound is returned when no contest exists for an identifier.
	ErrContestNotFound = errors.New("contest: not found")
	// ErrContestClosed is returned for entry-phase operations once the contest
	// has left the open state.
	ErrContestClosed = errors.New("contest: not open")
	// ErrNotLocked is returned when the answer key is posted outside the locked state.
	ErrNotLocked = errors.New("contest: not locked")
	// ErrNotAnswerKeyPosted is returned for payout operations before the answer
	// key is on record.
	ErrNotAnswerKeyPosted = errors.New("contest: answer key not posted")
	// ErrNotCreator is returned when a creator-only operation is called by
	// another address.
	ErrNotCreator = errors.New("contest: caller is not the creator")
	// ErrAlreadyJoined is returned when a player joins the same contest twice.
	ErrAlreadyJoined = errors.New("contest: player already joined")
	// ErrParticipantNotFound is returned when no participant record exists for
	// a player.
	ErrParticipantNotFound = errors.New("contest: participant not found")
	// ErrInvalidAmount is returned for nil, zero or negative token amounts.
	ErrInvalidAmount = errors.New("contest: invalid amount")
	// ErrInvalidMask is returned when an attempt mask carries bits beyond the
	// configured question count.
	ErrInvalidMask = errors.New("contest: attempt mask out of range")
	// ErrInvalidAnswerBits is returned when answer bits fall outside the
	// submitted attempt mask.
	ErrInvalidAnswerBits = errors.New("contest: answer bits outside attempt mask")
	// ErrInvalidAnswerKey is returned when the answer key carries bits beyond
	// the configured question count.
	ErrInvalidAnswerKey = errors.New("contest: answer key out of range")
	// ErrInvalidBatch is returned for empty batches or mismatched winner and
	// amount lists.
	ErrInvalidBatch = errors.New("contest: invalid payout batch")
	// ErrInvalidWinnerCount is returned when the committed winner count is zero
	// or exceeds the entry count.
	ErrInvalidWinnerCount = errors.New("contest: invalid winner count")
	// ErrPayoutsStarted is returned when the payout commitment is re-posted
	// after the first batch was paid.
	ErrPayoutsStarted = errors.New("contest: payouts already started")
	// ErrInsufficientVault is returned when a batch total exceeds the vault
	// balance.
	ErrInsufficientVault = errors.New("contest: insufficient vault balance")
	// ErrNothingToSweep is returned when the vault is already empty at sweep time.
	ErrNothingToSweep = errors.New("contest: nothing to sweep")
)
