package engine

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"fixedratio/internal/model"
)

func TestSwapFeeAndOutput(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 30)
	env.seedLiquidity(pool, 10_000, 20_000)
	inA, outB := env.traderAccounts(pool, 5_000)

	// 1000 in at 30 bps: fee 3, net 997, output 997*2/1 = 1994.
	out, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 1000,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	})
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out != 1994 {
		t.Fatalf("amount out = %d, want 1994", out)
	}
	if env.balance(inA) != 4_000 {
		t.Fatalf("trader in balance = %d, want 4000", env.balance(inA))
	}
	if env.balance(outB) != 1994 {
		t.Fatalf("trader out balance = %d, want 1994", env.balance(outB))
	}

	fees, err := env.engine.FeeInfo(pool.Address)
	if err != nil {
		t.Fatalf("FeeInfo: %v", err)
	}
	if fees.CollectedFeesA != 3 {
		t.Fatalf("collected fees A = %d, want 3", fees.CollectedFeesA)
	}

	liq, err := env.engine.LiquidityInfo(pool.Address)
	if err != nil {
		t.Fatalf("LiquidityInfo: %v", err)
	}
	if liq.ReserveA != 10_997 {
		t.Fatalf("reserve A = %d, want 10997", liq.ReserveA)
	}
	if liq.ReserveB != 18_006 {
		t.Fatalf("reserve B = %d, want 18006", liq.ReserveB)
	}

	// Vault holds reserve plus the uncollected fee balance.
	if got := env.balance(pool.TokenAVault); got != liq.ReserveA+fees.CollectedFeesA {
		t.Fatalf("vault A = %d, want reserve+fees = %d", got, liq.ReserveA+fees.CollectedFeesA)
	}
}

func TestSwapReverseDirection(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)
	env.seedLiquidity(pool, 10_000, 20_000)

	inB := common.HexToHash("0x33b0")
	outA := common.HexToHash("0x33a0")
	env.fundAccount(inB, pool.Identity.TokenBMint, testTrader, 1_000)
	env.fundAccount(outA, pool.Identity.TokenAMint, testTrader, 0)

	// B to A at 1:2 halves the amount.
	out, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 1_000,
		Direction: SwapBToA, InAccount: inB, OutAccount: outA,
	})
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out != 500 {
		t.Fatalf("amount out = %d, want 500", out)
	}
}

func TestSwapRoundsDown(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(3, 1, 0)
	env.seedLiquidity(pool, 1_000, 1_000)
	inA, outB := env.traderAccounts(pool, 1_000)

	// 100 * 1 / 3 truncates to 33; the remainder stays with the pool.
	out, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	})
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out != 33 {
		t.Fatalf("amount out = %d, want 33", out)
	}
}

func TestSwapRejectsZeroAmount(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)
	env.seedLiquidity(pool, 1_000, 1_000)
	inA, outB := env.traderAccounts(pool, 1_000)

	_, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 0,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	})
	if err != ErrInvalidSwapAmount {
		t.Fatalf("err = %v, want ErrInvalidSwapAmount", err)
	}
}

func TestSwapRejectsZeroOutput(t *testing.T) {
	env := newTestEnv(t)
	// 1000:1, so any input below 1000 truncates to zero output.
	pool := env.createPool(1000, 1, 0)
	env.seedLiquidity(pool, 10_000, 10_000)
	inA, outB := env.traderAccounts(pool, 1_000)

	_, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 999,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	})
	if err != ErrInvalidSwapAmount {
		t.Fatalf("err = %v, want ErrInvalidSwapAmount", err)
	}
}

func TestSwapRejectsWrongMintAccount(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)
	env.seedLiquidity(pool, 1_000, 1_000)
	inA, _ := env.traderAccounts(pool, 1_000)

	// Output account on the wrong mint.
	wrong := common.HexToHash("0x44f0")
	env.fundAccount(wrong, pool.Identity.TokenAMint, testTrader, 0)

	_, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: wrong,
	})
	if err != ErrInvalidTokenAccount {
		t.Fatalf("err = %v, want ErrInvalidTokenAccount", err)
	}
}

func TestSwapRejectsInsufficientReserve(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)
	env.seedLiquidity(pool, 1_000, 100)
	inA, outB := env.traderAccounts(pool, 1_000)

	_, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	})
	if err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// Failed swap changes nothing.
	liq, _ := env.engine.LiquidityInfo(pool.Address)
	if liq.ReserveA != 1_000 || liq.ReserveB != 100 {
		t.Fatalf("reserves mutated on rejected swap: %d/%d", liq.ReserveA, liq.ReserveB)
	}
	if env.balance(inA) != 1_000 {
		t.Fatalf("trader balance mutated on rejected swap: %d", env.balance(inA))
	}
}

func TestSwapBlockedWhilePaused(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)
	env.seedLiquidity(pool, 1_000, 1_000)
	inA, outB := env.traderAccounts(pool, 1_000)

	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseSwaps, MaxPoolPauseDuration, "drill"); err != nil {
		t.Fatalf("PausePool: %v", err)
	}
	_, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	})
	if err != ErrPoolPaused {
		t.Fatalf("err = %v, want ErrPoolPaused", err)
	}

	if err := env.engine.UnpausePool(pool.Address, testOwner, model.PauseSwaps); err != nil {
		t.Fatalf("UnpausePool: %v", err)
	}
	if _, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	}); err != nil {
		t.Fatalf("Swap after unpause: %v", err)
	}
}

func TestSwapTierFees(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 1, 0)
	env.seedLiquidity(pool, 10_000, 10_000)
	inA, outB := env.traderAccounts(pool, 1_000)

	for i := 0; i < 3; i++ {
		if _, err := env.engine.Swap(SwapParams{
			Pool: pool.Address, Trader: testTrader, AmountIn: 100,
			Direction: SwapAToB, Tier: TierRegular, InAccount: inA, OutAccount: outB,
		}); err != nil {
			t.Fatalf("regular swap %d: %v", i, err)
		}
	}
	if _, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, Tier: TierHFT, InAccount: inA, OutAccount: outB,
	}); err != nil {
		t.Fatalf("hft swap: %v", err)
	}

	tr := env.engine.TreasuryInfo()
	reg := tr.Categories[model.FeeRegularSwap.String()]
	hft := tr.Categories[model.FeeHFTSwap.String()]
	if reg.Count != 3 || reg.Total != 3*SwapContractFee {
		t.Fatalf("regular swap category = %+v", reg)
	}
	if hft.Count != 1 || hft.Total != HFTSwapContractFee {
		t.Fatalf("hft swap category = %+v", hft)
	}
}

func TestOneToManyEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 1000, 0)
	if !pool.OneToMany {
		t.Fatal("1:1000 whole-unit pool not flagged one-to-many")
	}
	env.seedLiquidity(pool, 1_000, 1_000_000)
	inA, outB := env.traderAccounts(pool, 100)

	out, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 10,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	})
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if out != 10_000 {
		t.Fatalf("amount out = %d, want 10000", out)
	}
}
