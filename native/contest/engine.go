package contest

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"spotwin/core/events"
	"spotwin/native/common"
	"spotwin/observability/metrics"
)

// ModuleName identifies the contest module for pause guards.
const ModuleName = "contest"

// DefaultQuestionCount bounds the answer bitmasks accepted by the engine.
const DefaultQuestionCount = 12

var errNilState = errors.New("contest engine: state not configured")

// Params carries the policy knobs of the contest engine.
type Params struct {
	// QuestionCount is the number of questions per contest. Attempt masks,
	// answer bits and the answer key must fit within this many low bits.
	QuestionCount uint8
}

// DefaultParams returns the engine defaults.
func DefaultParams() Params {
	return Params{QuestionCount: DefaultQuestionCount}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.QuestionCount == 0 || p.QuestionCount > 16 {
		return fmt.Errorf("contest: question count must be between 1 and 16, got %d", p.QuestionCount)
	}
	return nil
}

func (p Params) maskLimit() uint16 {
	if p.QuestionCount >= 16 {
		return math.MaxUint16
	}
	return uint16(1)<<p.QuestionCount - 1
}

type engineState interface {
	ContestPut(*Contest) error
	ContestGet(id uint64) (*Contest, bool)
	ParticipantPut(contestID uint64, p *Participant) error
	ParticipantGet(contestID uint64, player [20]byte) (*Participant, bool)
	NormalizeToken(symbol string) (string, error)
	BalanceOf(token string, addr [20]byte) (*big.Int, error)
	Transfer(token string, from, to [20]byte, amount *big.Int) error
	ContestVaultAddress(id uint64) [20]byte
}

// Engine owns the contest lifecycle state machine, the escrow vault custody
// rules and the batch payout protocol. Every operation reads the current
// state, validates its invariants and either lands as a complete transition or
// leaves state untouched.
type Engine struct {
	state     engineState
	emitter   events.Emitter
	params    Params
	pauses    common.PauseView
	telemetry *metrics.ContestMetrics
	slotFn    func() uint64
}

// NewEngine creates a contest engine with default parameters and a no-op
// emitter. Callers wire state, emitter and telemetry via the setters.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		params:  DefaultParams(),
		slotFn:  func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetParams replaces the engine parameters after validation.
func (e *Engine) SetParams(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	e.params = params
	return nil
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses wires the administrative pause view consulted by every mutation.
func (e *Engine) SetPauses(p common.PauseView) { e.pauses = p }

// SetMetrics attaches engine telemetry.
func (e *Engine) SetMetrics(m *metrics.ContestMetrics) { e.telemetry = m }

// SetSlotFunc overrides the ledger-time source used to annotate events.
// Primarily intended for tests.
func (e *Engine) SetSlotFunc(slot func() uint64) {
	if slot == nil {
		e.slotFn = func() uint64 { return 0 }
		return
	}
	e.slotFn = slot
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(event)
}

func (e *Engine) loadContest(id uint64) (*Contest, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	c, ok := e.state.ContestGet(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrContestNotFound, id)
	}
	return c, nil
}

// Contest returns a copy of the stored contest record.
func (e *Engine) Contest(id uint64) (*Contest, error) {
	c, err := e.loadContest(id)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Participant returns a copy of the stored participant record.
func (e *Engine) Participant(id uint64, player [20]byte) (*Participant, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if _, err := e.loadContest(id); err != nil {
		return nil, err
	}
	p, ok := e.state.ParticipantGet(id, player)
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return p.Clone(), nil
}

// VaultBalance returns the current escrow balance held for the contest.
func (e *Engine) VaultBalance(id uint64) (*big.Int, error) {
	c, err := e.loadContest(id)
	if err != nil {
		return nil, err
	}
	return e.state.BalanceOf(c.PoolMint, e.state.ContestVaultAddress(id))
}

// Create allocates a contest and its escrow vault. The identifier must be
// unused, the entry fee positive and the pool mint registered.
func (e *Engine) Create(id uint64, creator [20]byte, mint string, entryFee *big.Int, lockSlot uint64) (*Contest, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return nil, err
	}
	normalized, err := e.state.NormalizeToken(mint)
	if err != nil {
		return nil, err
	}
	if entryFee == nil || entryFee.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, ok := e.state.ContestGet(id); ok {
		return nil, fmt.Errorf("%w: id %d", ErrContestExists, id)
	}
	c := &Contest{
		ID:        id,
		Creator:   creator,
		PoolMint:  normalized,
		EntryFee:  new(big.Int).Set(entryFee),
		LockSlot:  lockSlot,
		Status:    StatusOpen,
		PaidSoFar: big.NewInt(0),
	}
	sanitized, err := SanitizeContest(c)
	if err != nil {
		return nil, err
	}
	if err := e.state.ContestPut(sanitized); err != nil {
		return nil, err
	}
	e.emit(events.ContestCreated{
		ID:       id,
		Creator:  creator,
		Mint:     normalized,
		EntryFee: new(big.Int).Set(entryFee),
		LockSlot: lockSlot,
	})
	e.telemetry.ObserveCreated(normalized)
	return sanitized.Clone(), nil
}

// Join debits the entry fee from the player into the contest vault, creates
// the zeroed participant record and increments the entry counter. The whole
// operation is all-or-nothing; a second join by the same player fails with
// ErrAlreadyJoined.
func (e *Engine) Join(id uint64, player [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	c, err := e.loadContest(id)
	if err != nil {
		return err
	}
	if c.Status != StatusOpen {
		return fmt.Errorf("%w: status %s", ErrContestClosed, c.Status)
	}
	if _, ok := e.state.ParticipantGet(id, player); ok {
		return ErrAlreadyJoined
	}
	if c.TotalEntries == math.MaxUint32 {
		return fmt.Errorf("contest: entry counter overflow")
	}
	vault := e.state.ContestVaultAddress(id)
	if err := e.state.Transfer(c.PoolMint, player, vault, c.EntryFee); err != nil {
		return err
	}
	updated := c.Clone()
	updated.TotalEntries++
	if err := e.state.ContestPut(updated); err != nil {
		if refundErr := e.state.Transfer(c.PoolMint, vault, player, c.EntryFee); refundErr != nil {
			return errors.Join(err, fmt.Errorf("contest: rollback entry fee: %w", refundErr))
		}
		return err
	}
	if err := e.state.ParticipantPut(id, &Participant{Player: player}); err != nil {
		if restoreErr := e.state.ContestPut(c); restoreErr != nil {
			return errors.Join(err, fmt.Errorf("contest: rollback entry counter: %w", restoreErr))
		}
		if refundErr := e.state.Transfer(c.PoolMint, vault, player, c.EntryFee); refundErr != nil {
			return errors.Join(err, fmt.Errorf("contest: rollback entry fee: %w", refundErr))
		}
		return err
	}
	e.emit(events.ContestJoined{
		ID:     id,
		Player: player,
		Fee:    new(big.Int).Set(c.EntryFee),
		Slot:   e.slotFn(),
	})
	e.telemetry.ObserveJoin(id)
	return nil
}

// SubmitAnswers merges the caller-supplied masks into the participant record.
// Attempt bits are only ever added, and the first answer recorded for a
// question is final: re-submitting an already-attempted bit is a no-op for
// that bit rather than an error, so benign retries stay safe.
func (e *Engine) SubmitAnswers(id uint64, player [20]byte, newAnswerBits, newAttemptMask uint16) (*Participant, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return nil, err
	}
	c, err := e.loadContest(id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusOpen {
		return nil, fmt.Errorf("%w: status %s", ErrContestClosed, c.Status)
	}
	limit := e.params.maskLimit()
	if newAttemptMask&^limit != 0 {
		return nil, ErrInvalidMask
	}
	if newAnswerBits&^newAttemptMask != 0 {
		return nil, ErrInvalidAnswerBits
	}
	p, ok := e.state.ParticipantGet(id, player)
	if !ok {
		return nil, ErrParticipantNotFound
	}
	updated := p.Clone()
	fresh := newAttemptMask &^ updated.AttemptMask
	updated.AnswerBits = (updated.AnswerBits &^ fresh) | (newAnswerBits & fresh)
	updated.AttemptMask |= newAttemptMask
	if err := e.state.ParticipantPut(id, updated); err != nil {
		return nil, err
	}
	e.emit(events.ContestAnswersUpdated{
		ID:          id,
		Player:      player,
		AttemptMask: updated.AttemptMask,
		AnswerBits:  updated.AnswerBits,
	})
	return updated.Clone(), nil
}

// Lock transitions the contest from Open to Locked. Only the creator may
// lock, and only while the contest is still open. LockSlot is advisory:
// callers enforcing a time policy compare it against ledger time themselves.
func (e *Engine) Lock(id uint64, caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	c, err := e.loadContest(id)
	if err != nil {
		return err
	}
	if c.Creator != caller {
		return ErrNotCreator
	}
	if c.Status != StatusOpen {
		return fmt.Errorf("%w: status %s", ErrContestClosed, c.Status)
	}
	updated := c.Clone()
	updated.Status = StatusLocked
	if err := e.state.ContestPut(updated); err != nil {
		return err
	}
	e.emit(events.ContestLocked{ID: id, Creator: caller})
	return nil
}

// PostAnswerKey records the correct-answer bitmask exactly once and
// transitions the contest to AnswerKeyPosted. A second call fails because the
// contest is no longer locked.
func (e *Engine) PostAnswerKey(id uint64, caller [20]byte, key uint16) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	c, err := e.loadContest(id)
	if err != nil {
		return err
	}
	if c.Creator != caller {
		return ErrNotCreator
	}
	if c.Status != StatusLocked {
		return fmt.Errorf("%w: status %s", ErrNotLocked, c.Status)
	}
	if key&^e.params.maskLimit() != 0 {
		return ErrInvalidAnswerKey
	}
	updated := c.Clone()
	updated.AnswerKey = key
	updated.Status = StatusAnswerKeyPosted
	if err := e.state.ContestPut(updated); err != nil {
		return err
	}
	e.emit(events.ContestAnswerKeyPosted{ID: id, Key: key})
	return nil
}

// PostPayoutRoot records the creator's commitment to the winner set: a Merkle
// root over (winner, amount) pairs plus the expected winner count. The
// commitment may be corrected until the first batch is paid.
func (e *Engine) PostPayoutRoot(id uint64, caller [20]byte, root [32]byte, winnerCount uint32) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	c, err := e.loadContest(id)
	if err != nil {
		return err
	}
	if c.Creator != caller {
		return ErrNotCreator
	}
	if c.Status != StatusAnswerKeyPosted {
		return fmt.Errorf("%w: status %s", ErrNotAnswerKeyPosted, c.Status)
	}
	if winnerCount == 0 || winnerCount > c.TotalEntries {
		return ErrInvalidWinnerCount
	}
	if c.PaidSoFar.Sign() > 0 {
		return fmt.Errorf("%w: paid %s so far", ErrPayoutsStarted, c.PaidSoFar)
	}
	updated := c.Clone()
	updated.PayoutRoot = root
	updated.WinnerCount = winnerCount
	if err := e.state.ContestPut(updated); err != nil {
		return err
	}
	e.emit(events.ContestPayoutRootPosted{ID: id, Root: root, WinnerCount: winnerCount})
	return nil
}

// disburse moves tokens out of the contest vault. It is unexported on
// purpose: the derived vault authority has no signing key, so the only code
// path able to debit the vault is the payout engine itself. This is the
// structural equivalent of an authority-gated custody transfer.
func (e *Engine) disburse(c *Contest, recipient [20]byte, amount *big.Int) error {
	vault := e.state.ContestVaultAddress(c.ID)
	return e.state.Transfer(c.PoolMint, vault, recipient, amount)
}

// SendBatch pays the listed winners from the contest vault in caller order.
// The batch is one atomic unit: every pair is validated before the first
// transfer, and sum(amounts) must not exceed the vault balance. Duplicate
// winners are the caller's responsibility; each listed pair is paid.
func (e *Engine) SendBatch(id uint64, caller [20]byte, winners [][20]byte, amounts []*big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	c, err := e.loadContest(id)
	if err != nil {
		return err
	}
	if c.Creator != caller {
		return ErrNotCreator
	}
	if c.Status != StatusAnswerKeyPosted {
		return fmt.Errorf("%w: status %s", ErrNotAnswerKeyPosted, c.Status)
	}
	if len(winners) == 0 || len(winners) != len(amounts) {
		return ErrInvalidBatch
	}
	total := big.NewInt(0)
	for i, amount := range amounts {
		if amount == nil || amount.Sign() <= 0 {
			return fmt.Errorf("%w: index %d", ErrInvalidAmount, i)
		}
		total.Add(total, amount)
	}
	for i, winner := range winners {
		if _, ok := e.state.ParticipantGet(id, winner); !ok {
			return fmt.Errorf("%w: winner index %d", ErrParticipantNotFound, i)
		}
	}
	vault := e.state.ContestVaultAddress(id)
	balance, err := e.state.BalanceOf(c.PoolMint, vault)
	if err != nil {
		return err
	}
	if balance.Cmp(total) < 0 {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientVault, total, balance)
	}
	applied := 0
	revert := func() error {
		for i := applied - 1; i >= 0; i-- {
			if err := e.state.Transfer(c.PoolMint, winners[i], vault, amounts[i]); err != nil {
				return fmt.Errorf("contest: rollback transfer %d: %w", i, err)
			}
		}
		return nil
	}
	for i := range winners {
		if err := e.disburse(c, winners[i], amounts[i]); err != nil {
			if revertErr := revert(); revertErr != nil {
				return errors.Join(err, revertErr)
			}
			return err
		}
		applied++
	}
	updated := c.Clone()
	updated.PaidSoFar = new(big.Int).Add(updated.PaidSoFar, total)
	if err := e.state.ContestPut(updated); err != nil {
		if revertErr := revert(); revertErr != nil {
			return errors.Join(err, revertErr)
		}
		return err
	}
	e.emit(events.ContestBatchPaid{
		ID:        id,
		Winners:   len(winners),
		Total:     new(big.Int).Set(total),
		PaidSoFar: new(big.Int).Set(updated.PaidSoFar),
	})
	totalF, _ := new(big.Float).SetInt(total).Float64()
	e.telemetry.ObserveBatch(id, totalF)
	return nil
}

// SweepFees returns the residual vault balance to the creator once payouts
// are complete and marks the contest settled.
func (e *Engine) SweepFees(id uint64, caller [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return nil, err
	}
	c, err := e.loadContest(id)
	if err != nil {
		return nil, err
	}
	if c.Creator != caller {
		return nil, ErrNotCreator
	}
	if c.Status != StatusAnswerKeyPosted {
		return nil, fmt.Errorf("%w: status %s", ErrNotAnswerKeyPosted, c.Status)
	}
	vault := e.state.ContestVaultAddress(id)
	balance, err := e.state.BalanceOf(c.PoolMint, vault)
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		return nil, ErrNothingToSweep
	}
	if err := e.disburse(c, c.Creator, balance); err != nil {
		return nil, err
	}
	updated := c.Clone()
	updated.Status = StatusSettled
	if err := e.state.ContestPut(updated); err != nil {
		if refundErr := e.state.Transfer(c.PoolMint, c.Creator, vault, balance); refundErr != nil {
			return nil, errors.Join(err, fmt.Errorf("contest: rollback sweep: %w", refundErr))
		}
		return nil, err
	}
	e.emit(events.ContestFeesSwept{ID: id, Creator: c.Creator, Amount: new(big.Int).Set(balance)})
	e.telemetry.ObserveSweep()
	return balance, nil
}
