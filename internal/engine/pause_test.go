package engine

import (
	"testing"

	"fixedratio/internal/model"
)

func TestSystemPauseDominates(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)
	env.seedLiquidity(pool, 1_000, 1_000)
	inA, outB := env.traderAccounts(pool, 1_000)

	if err := env.engine.PauseSystem(testAuthority, 3, "security incident"); err != nil {
		t.Fatalf("PauseSystem: %v", err)
	}

	// Every mutating operation is gated, pool flags notwithstanding.
	if _, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	}); err != ErrSystemPaused {
		t.Fatalf("swap err = %v, want ErrSystemPaused", err)
	}
	if _, err := env.engine.InitializePool(InitializePoolParams{
		Owner: testOwner, TokenXMint: testMintA, RatioX: 1,
		TokenYMint: testMintB, RatioY: 3,
	}); err != ErrSystemPaused {
		t.Fatalf("init err = %v, want ErrSystemPaused", err)
	}
	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseAll, MaxPoolPauseDuration, "x"); err != ErrSystemPaused {
		t.Fatalf("pool pause err = %v, want ErrSystemPaused", err)
	}

	// Queries stay available during the pause.
	info := env.engine.SystemInfo()
	if !info.IsPaused || info.ReasonCode != 3 {
		t.Fatalf("system info = %+v", info)
	}
	if _, err := env.engine.PoolInfo(pool.Address); err != nil {
		t.Fatalf("PoolInfo during pause: %v", err)
	}

	if err := env.engine.UnpauseSystem(testAuthority); err != nil {
		t.Fatalf("UnpauseSystem: %v", err)
	}
	if _, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	}); err != nil {
		t.Fatalf("swap after unpause: %v", err)
	}
}

func TestSystemPauseAuthorization(t *testing.T) {
	env := newTestEnv(t)
	if err := env.engine.PauseSystem(testOwner, 5, "nope"); err != ErrUnauthorized {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if err := env.engine.UnpauseSystem(testOwner); err != ErrUnauthorized {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSystemPauseToggleGuards(t *testing.T) {
	env := newTestEnv(t)
	if err := env.engine.UnpauseSystem(testAuthority); err != ErrSystemNotPaused {
		t.Fatalf("err = %v, want ErrSystemNotPaused", err)
	}
	if err := env.engine.PauseSystem(testAuthority, 2, "upgrade"); err != nil {
		t.Fatalf("PauseSystem: %v", err)
	}
	if err := env.engine.PauseSystem(testAuthority, 2, "upgrade"); err != ErrSystemAlreadyPaused {
		t.Fatalf("err = %v, want ErrSystemAlreadyPaused", err)
	}
}

func TestPoolPauseScopes(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)

	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseAll, MaxPoolPauseDuration, "audit"); err != nil {
		t.Fatalf("PausePool: %v", err)
	}
	info, _ := env.engine.PoolInfo(pool.Address)
	if !info.LiquidityPaused || !info.SwapsPaused {
		t.Fatalf("scope all: flags = %+v", info)
	}
	if info.Flags&model.FlagLiquidityPaused == 0 || info.Flags&model.FlagSwapsPaused == 0 {
		t.Fatalf("wire flags = %08b", info.Flags)
	}

	// Partial unpause clears only the targeted family.
	if err := env.engine.UnpausePool(pool.Address, testOwner, model.PauseSwaps); err != nil {
		t.Fatalf("UnpausePool swaps: %v", err)
	}
	info, _ = env.engine.PoolInfo(pool.Address)
	if !info.LiquidityPaused || info.SwapsPaused {
		t.Fatalf("after partial unpause: %+v", info)
	}
	if info.PauseReason == "" {
		t.Fatal("pause metadata cleared while a scope is still paused")
	}

	if err := env.engine.UnpausePool(pool.Address, testOwner, model.PauseLiquidity); err != nil {
		t.Fatalf("UnpausePool liquidity: %v", err)
	}
	info, _ = env.engine.PoolInfo(pool.Address)
	if info.PauseReason != "" {
		t.Fatal("pause metadata survives full unpause")
	}
}

func TestPoolPauseStrictToggles(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)

	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseSwaps, MaxPoolPauseDuration, "x"); err != nil {
		t.Fatalf("PausePool: %v", err)
	}
	// Re-pausing a covered scope fails, including through the All scope.
	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseSwaps, MaxPoolPauseDuration, "x"); err != ErrPoolAlreadyPaused {
		t.Fatalf("err = %v, want ErrPoolAlreadyPaused", err)
	}
	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseAll, MaxPoolPauseDuration, "x"); err != ErrPoolAlreadyPaused {
		t.Fatalf("err = %v, want ErrPoolAlreadyPaused", err)
	}
	// Unpausing an uncovered scope fails the same way.
	if err := env.engine.UnpausePool(pool.Address, testOwner, model.PauseLiquidity); err != ErrPoolNotPaused {
		t.Fatalf("err = %v, want ErrPoolNotPaused", err)
	}
	if err := env.engine.UnpausePool(pool.Address, testOwner, model.PauseAll); err != ErrPoolNotPaused {
		t.Fatalf("err = %v, want ErrPoolNotPaused", err)
	}
}

func TestPoolPauseAuthorization(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)

	if err := env.engine.PausePool(pool.Address, testTrader, model.PauseAll, MaxPoolPauseDuration, "x"); err != ErrUnauthorized {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	// The system authority holds no pool-level standing.
	if err := env.engine.PausePool(pool.Address, testAuthority, model.PauseAll, MaxPoolPauseDuration, "x"); err != ErrUnauthorized {
		t.Fatalf("authority err = %v, want ErrUnauthorized", err)
	}
}
