// Package engine implements the fixed-ratio settlement and governance
// state machine: pool lifecycle, swap and liquidity arithmetic, the
// centralized treasury, the two-level pause hierarchy, and time-delayed
// delegate actions. Every operation validates fully, stages its mutations,
// and commits them in one step; a rejected operation changes nothing.
package engine

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"fixedratio/internal/ledger"
	"fixedratio/internal/model"
)

// Protocol constants. Amounts are in the native unit; durations bound the
// delegate governance wait times.
const (
	FeeDenominator = 10_000
	MaxSwapFeeBps  = 50

	RegistrationFee       = 1_150_000_000
	LiquidityOperationFee = 1_300_000
	SwapContractFee       = 12_500
	HFTSwapContractFee    = 10_000

	MaxDelegates          = 3
	MaxPendingActions     = 8
	MaxPendingPerDelegate = 2

	MinActionWait = 300 * time.Second
	MaxActionWait = 72 * time.Hour

	MaxPoolPauseDuration = 72 * time.Hour

	MinTreasuryReserve = 1_000_000
)

// Clock supplies the current time. Operations take it through the engine
// so governance wait arithmetic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock { return systemClock{} }

// Journal receives a record of every committed mutating operation.
type Journal interface {
	Append(rec model.OperationRecord) error
}

// Config carries the collaborators an Engine is built with. Ledger is
// required; Clock defaults to the wall clock and Journal may be nil.
type Config struct {
	Authority common.Hash
	Clock     Clock
	Journal   Journal
}

// Engine owns the process-wide singletons (system state, treasury) and the
// pool registry. Operations are serialized by a single mutex, matching the
// one-operation-at-a-time execution model; queries take the read side.
type Engine struct {
	mu sync.RWMutex

	cfg     Config
	logger  *zap.Logger
	clock   Clock
	ledger  ledger.Ledger
	journal Journal

	system   *model.SystemState
	treasury *model.MainTreasuryState
	pools    map[common.Hash]*model.PoolState
}

// New builds an engine around the given token ledger.
func New(cfg Config, lg ledger.Ledger, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}

	return &Engine{
		cfg:      cfg,
		logger:   logger,
		clock:    clock,
		ledger:   lg,
		journal:  cfg.Journal,
		system:   model.NewSystemState(cfg.Authority),
		treasury: model.NewMainTreasuryState(cfg.Authority),
		pools:    make(map[common.Hash]*model.PoolState),
	}
}

// requireActive is the first gate of every mutating operation: while the
// system is paused nothing mutates, regardless of pool-level flags.
func (e *Engine) requireActive() error {
	if e.system.IsPaused {
		return ErrSystemPaused
	}
	return nil
}

func (e *Engine) pool(addr common.Hash) (*model.PoolState, error) {
	p, ok := e.pools[addr]
	if !ok {
		return nil, ErrPoolNotFound
	}
	return p, nil
}

// record appends to the journal after a commit. Journal failures are
// logged, not surfaced: the committed state is authoritative.
func (e *Engine) record(rec model.OperationRecord) {
	if e.journal == nil {
		return
	}
	rec.Timestamp = e.clock.Now().UTC().Format(time.RFC3339Nano)
	if err := e.journal.Append(rec); err != nil {
		e.logger.Warn("journal append", zap.String("op", rec.Op), zap.Error(err))
	}
}
