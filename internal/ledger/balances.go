package ledger

import (
	"errors"
	"sync"
)

var ErrNothingToWithdraw = errors.New("nothing to withdraw")

// BalanceLedger is the pending-balance map: payee to accrued amount. Credits
// from an in-flight sale are additionally tracked as held until the asset
// transfer lands, so a withdrawal cannot drain proceeds that settlement may
// still need to revoke.
type BalanceLedger struct {
	mu      sync.Mutex
	accrued map[string]uint64
	held    map[string]uint64
}

func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{
		accrued: make(map[string]uint64),
		held:    make(map[string]uint64),
	}
}

func (l *BalanceLedger) Credit(payee string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accrued[payee] += amount
}

// Hold credits the payee and marks the amount as not yet withdrawable.
func (l *BalanceLedger) Hold(payee string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accrued[payee] += amount
	l.held[payee] += amount
}

// Release makes a held amount withdrawable once settlement has committed.
func (l *BalanceLedger) Release(payee string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.subHeld(payee, amount)
}

// Revoke removes a held credit entirely, as part of settlement rollback.
func (l *BalanceLedger) Revoke(payee string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.accrued[payee] >= amount {
		l.accrued[payee] -= amount
	} else {
		l.accrued[payee] = 0
	}
	l.subHeld(payee, amount)
}

func (l *BalanceLedger) subHeld(payee string, amount uint64) {
	if l.held[payee] >= amount {
		l.held[payee] -= amount
	} else {
		l.held[payee] = 0
	}
	if l.held[payee] == 0 {
		delete(l.held, payee)
	}
}

func (l *BalanceLedger) Balance(payee string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.accrued[payee]
}

// Total is the sum of all accrued balances, used to assert solvency.
func (l *BalanceLedger) Total() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total uint64
	for _, amount := range l.accrued {
		total += amount
	}

	return total
}

// BeginWithdrawal zeroes the withdrawable balance and returns what was
// drained. Zeroing happens before any funds move, so a reentrant withdrawal
// observes an empty balance and fails.
func (l *BalanceLedger) BeginWithdrawal(payee string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := l.accrued[payee] - l.held[payee]
	if available == 0 {
		return 0, ErrNothingToWithdraw
	}

	l.accrued[payee] -= available

	return available, nil
}

// Restore re-credits a drained balance after a failed payout.
func (l *BalanceLedger) Restore(payee string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accrued[payee] += amount
}
