package staking

import "errors"

var (
	ErrPoolExists        = errors.New("staking: pool already initialized")
	ErrPoolNotFound      = errors.New("staking: pool not initialized")
	ErrAccountNotFound   = errors.New("staking: stake account not found")
	ErrInvalidAmount     = errors.New("staking: amount must be positive")
	ErrInsufficientStake = errors.New("staking: unstake exceeds staked amount")
	ErrStakeLocked       = errors.New("staking: stake is locked")
)
