package engine

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"fixedratio/internal/model"
)

// Snapshot methods hand out value copies for storage mirroring. The copies
// are detached from engine state: persistence runs outside the lock and a
// slow writer never blocks settlement.

// SnapshotPools returns copies of every pool, ordered by address.
func (e *Engine) SnapshotPools() []model.PoolState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.PoolState, 0, len(e.pools))
	for _, p := range e.pools {
		out = append(out, copyPool(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Address.Hex() < out[j].Address.Hex()
	})
	return out
}

// SnapshotTreasury returns a copy of the treasury state.
func (e *Engine) SnapshotTreasury() model.MainTreasuryState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return *e.treasury
}

// SnapshotSystem returns a copy of the system pause state.
func (e *Engine) SnapshotSystem() model.SystemState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return *e.system
}

// SnapshotActions returns copies of every delegate action across all pools,
// ordered by pool address then action ID.
func (e *Engine) SnapshotActions() []model.DelegateAction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []model.DelegateAction
	for _, p := range e.pools {
		for _, a := range p.Actions {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pool != out[j].Pool {
			return out[i].Pool.Hex() < out[j].Pool.Hex()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyPool(p *model.PoolState) model.PoolState {
	c := *p
	c.Delegates = append([]common.Hash(nil), p.Delegates...)
	if p.WaitOverrides != nil {
		c.WaitOverrides = make(map[common.Hash]model.WaitPolicy, len(p.WaitOverrides))
		for k, v := range p.WaitOverrides {
			c.WaitOverrides[k] = v
		}
	}
	if p.Actions != nil {
		c.Actions = make(map[uint64]*model.DelegateAction, len(p.Actions))
		for id, a := range p.Actions {
			dup := *a
			c.Actions[id] = &dup
		}
	}
	return c
}
