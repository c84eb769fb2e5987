package staking

import (
	"errors"
	"fmt"
	"math/big"

	"spotwin/core/events"
	"spotwin/native/common"
	"spotwin/observability/metrics"
)

// ModuleName identifies the staking module for pause guards.
const ModuleName = "staking"

var errNilState = errors.New("staking engine: state not configured")

// Params carries the policy knobs of the staking engine.
type Params struct {
	// LockPeriodSlots is the minimum number of slots a deposit must remain
	// staked before it can be withdrawn. Zero disables the check, leaving
	// any holding period to external policy.
	LockPeriodSlots uint64
}

// DefaultParams returns the engine defaults: no lock period.
func DefaultParams() Params {
	return Params{}
}

type engineState interface {
	StakePoolPut(*Pool) error
	StakePoolGet() (*Pool, bool)
	StakeAccountPut(*StakeAccount) error
	StakeAccountGet(owner [20]byte) (*StakeAccount, bool)
	NormalizeToken(symbol string) (string, error)
	BalanceOf(token string, addr [20]byte) (*big.Int, error)
	Transfer(token string, from, to [20]byte, amount *big.Int) error
	StakeVaultAddress() [20]byte
}

// Engine owns the staking ledger: the global stake vault plus one stake
// account per owner. It is independent of the contest module.
type Engine struct {
	state     engineState
	emitter   events.Emitter
	params    Params
	pauses    common.PauseView
	telemetry *metrics.StakingMetrics
	slotFn    func() uint64
}

// NewEngine creates a staking engine with default parameters and a no-op
// emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		params:  DefaultParams(),
		slotFn:  func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetParams replaces the engine parameters.
func (e *Engine) SetParams(params Params) { e.params = params }

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
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
func (e *Engine) SetMetrics(m *metrics.StakingMetrics) { e.telemetry = m }

// SetSlotFunc overrides the ledger-time source used for deposit stamps.
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

func (e *Engine) loadPool() (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, ok := e.state.StakePoolGet()
	if !ok {
		return nil, ErrPoolNotFound
	}
	return pool, nil
}

// Pool returns a copy of the stake pool record.
func (e *Engine) Pool() (*Pool, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return pool.Clone(), nil
}

// Account returns a copy of the stake account for an owner.
func (e *Engine) Account(owner [20]byte) (*StakeAccount, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	acct, ok := e.state.StakeAccountGet(owner)
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.Clone(), nil
}

// VaultBalance returns the current stake vault balance.
func (e *Engine) VaultBalance() (*big.Int, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return e.state.BalanceOf(pool.Mint, e.state.StakeVaultAddress())
}

// InitializePool creates the global stake vault for a mint. It may only run
// once per deployment.
func (e *Engine) InitializePool(mint string) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return err
	}
	normalized, err := e.state.NormalizeToken(mint)
	if err != nil {
		return err
	}
	if _, ok := e.state.StakePoolGet(); ok {
		return ErrPoolExists
	}
	sanitized, err := SanitizePool(&Pool{Mint: normalized})
	if err != nil {
		return err
	}
	if err := e.state.StakePoolPut(sanitized); err != nil {
		return err
	}
	e.emit(events.StakePoolInitialized{Mint: normalized})
	return nil
}

// Stake moves tokens from the owner into the stake vault and adds the amount
// to the owner's stake account, creating it on first use. The deposit stamps
// StartSlot for the lock-period policy.
func (e *Engine) Stake(owner [20]byte, amount *big.Int) (*StakeAccount, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return nil, err
	}
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	vault := e.state.StakeVaultAddress()
	if err := e.state.Transfer(pool.Mint, owner, vault, amount); err != nil {
		return nil, err
	}
	acct, ok := e.state.StakeAccountGet(owner)
	if !ok {
		acct = &StakeAccount{Owner: owner, Amount: big.NewInt(0)}
	}
	updated := acct.Clone()
	updated.Amount = new(big.Int).Add(updated.Amount, amount)
	updated.StartSlot = e.slotFn()
	if err := e.state.StakeAccountPut(updated); err != nil {
		if refundErr := e.state.Transfer(pool.Mint, vault, owner, amount); refundErr != nil {
			return nil, errors.Join(err, fmt.Errorf("staking: rollback deposit: %w", refundErr))
		}
		return nil, err
	}
	e.emit(events.StakeDeposited{
		Owner:     owner,
		Amount:    new(big.Int).Set(amount),
		NewAmount: new(big.Int).Set(updated.Amount),
		Slot:      updated.StartSlot,
	})
	if balance, balErr := e.state.BalanceOf(pool.Mint, vault); balErr == nil {
		balF, _ := new(big.Float).SetInt(balance).Float64()
		e.telemetry.ObserveDeposit(balF)
	}
	return updated.Clone(), nil
}

// withdraw moves tokens out of the stake vault. Unexported on purpose: the
// derived stake authority has no signing key, so only the staking engine can
// debit the vault.
func (e *Engine) withdraw(mint string, recipient [20]byte, amount *big.Int) error {
	return e.state.Transfer(mint, e.state.StakeVaultAddress(), recipient, amount)
}

// Unstake returns tokens from the stake vault to the owner and decrements the
// stake account. Requests above the staked amount fail without mutating
// state, as do withdrawals inside a configured lock period.
func (e *Engine) Unstake(owner [20]byte, amount *big.Int) (*StakeAccount, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.pauses, ModuleName); err != nil {
		return nil, err
	}
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	acct, ok := e.state.StakeAccountGet(owner)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if e.params.LockPeriodSlots > 0 {
		unlockSlot := acct.StartSlot + e.params.LockPeriodSlots
		if e.slotFn() < unlockSlot {
			return nil, fmt.Errorf("%w until slot %d", ErrStakeLocked, unlockSlot)
		}
	}
	if acct.Amount == nil || acct.Amount.Cmp(amount) < 0 {
		return nil, ErrInsufficientStake
	}
	if err := e.withdraw(pool.Mint, owner, amount); err != nil {
		return nil, err
	}
	updated := acct.Clone()
	updated.Amount = new(big.Int).Sub(updated.Amount, amount)
	if updated.Amount.Sign() == 0 {
		updated.StartSlot = 0
	}
	if err := e.state.StakeAccountPut(updated); err != nil {
		if refundErr := e.state.Transfer(pool.Mint, owner, e.state.StakeVaultAddress(), amount); refundErr != nil {
			return nil, errors.Join(err, fmt.Errorf("staking: rollback withdrawal: %w", refundErr))
		}
		return nil, err
	}
	e.emit(events.StakeWithdrawn{
		Owner:     owner,
		Amount:    new(big.Int).Set(amount),
		NewAmount: new(big.Int).Set(updated.Amount),
	})
	if balance, balErr := e.state.BalanceOf(pool.Mint, e.state.StakeVaultAddress()); balErr == nil {
		balF, _ := new(big.Float).SetInt(balance).Float64()
		e.telemetry.ObserveWithdrawal(balF)
	}
	return updated.Clone(), nil
}
