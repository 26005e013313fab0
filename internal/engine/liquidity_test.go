package engine

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"fixedratio/internal/model"
)

func TestDepositMintsOneToOne(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)

	tok := common.HexToHash("0x50a0")
	lp := common.HexToHash("0x50a1")
	env.fundAccount(tok, pool.Identity.TokenAMint, testProvider, 5_000)
	env.fundAccount(lp, pool.LPMintA, testProvider, 0)

	err := env.engine.Deposit(DepositParams{
		Pool: pool.Address, Provider: testProvider, Side: SideA,
		Amount: 3_000, TokenAccount: tok, LPAccount: lp,
	})
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	if env.balance(tok) != 2_000 {
		t.Fatalf("token balance = %d, want 2000", env.balance(tok))
	}
	if env.balance(lp) != 3_000 {
		t.Fatalf("lp balance = %d, want 3000", env.balance(lp))
	}
	liq, _ := env.engine.LiquidityInfo(pool.Address)
	if liq.ReserveA != 3_000 || liq.LPSupplyA != 3_000 {
		t.Fatalf("reserve/supply = %d/%d, want 3000/3000", liq.ReserveA, liq.LPSupplyA)
	}
	if env.balance(pool.TokenAVault) != 3_000 {
		t.Fatalf("vault balance = %d, want 3000", env.balance(pool.TokenAVault))
	}
}

func TestWithdrawBurnsAndPaysOut(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)

	tok := common.HexToHash("0x51a0")
	lp := common.HexToHash("0x51a1")
	env.fundAccount(tok, pool.Identity.TokenAMint, testProvider, 5_000)
	env.fundAccount(lp, pool.LPMintA, testProvider, 0)

	if err := env.engine.Deposit(DepositParams{
		Pool: pool.Address, Provider: testProvider, Side: SideA,
		Amount: 5_000, TokenAccount: tok, LPAccount: lp,
	}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := env.engine.Withdraw(WithdrawParams{
		Pool: pool.Address, Provider: testProvider, Side: SideA,
		LPAmount: 2_000, TokenAccount: tok, LPAccount: lp,
	}); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	if env.balance(tok) != 2_000 {
		t.Fatalf("token balance = %d, want 2000", env.balance(tok))
	}
	if env.balance(lp) != 3_000 {
		t.Fatalf("lp balance = %d, want 3000", env.balance(lp))
	}
	liq, _ := env.engine.LiquidityInfo(pool.Address)
	if liq.ReserveA != 3_000 || liq.LPSupplyA != 3_000 {
		t.Fatalf("reserve/supply = %d/%d, want 3000/3000", liq.ReserveA, liq.LPSupplyA)
	}
}

func TestWithdrawRejectsExcessLP(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)

	tok := common.HexToHash("0x52a0")
	lp := common.HexToHash("0x52a1")
	env.fundAccount(tok, pool.Identity.TokenAMint, testProvider, 1_000)
	env.fundAccount(lp, pool.LPMintA, testProvider, 0)

	if err := env.engine.Deposit(DepositParams{
		Pool: pool.Address, Provider: testProvider, Side: SideA,
		Amount: 1_000, TokenAccount: tok, LPAccount: lp,
	}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	err := env.engine.Withdraw(WithdrawParams{
		Pool: pool.Address, Provider: testProvider, Side: SideA,
		LPAmount: 1_001, TokenAccount: tok, LPAccount: lp,
	})
	if err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestDepositBlockedByLiquidityPause(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)

	tok := common.HexToHash("0x53a0")
	lp := common.HexToHash("0x53a1")
	env.fundAccount(tok, pool.Identity.TokenAMint, testProvider, 1_000)
	env.fundAccount(lp, pool.LPMintA, testProvider, 0)

	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseLiquidity, MaxPoolPauseDuration, "maintenance"); err != nil {
		t.Fatalf("PausePool: %v", err)
	}
	err := env.engine.Deposit(DepositParams{
		Pool: pool.Address, Provider: testProvider, Side: SideA,
		Amount: 100, TokenAccount: tok, LPAccount: lp,
	})
	if err != ErrPoolPaused {
		t.Fatalf("deposit err = %v, want ErrPoolPaused", err)
	}
	err = env.engine.Withdraw(WithdrawParams{
		Pool: pool.Address, Provider: testProvider, Side: SideA,
		LPAmount: 100, TokenAccount: tok, LPAccount: lp,
	})
	if err != ErrPoolPaused {
		t.Fatalf("withdraw err = %v, want ErrPoolPaused", err)
	}
}

func TestLiquidityPauseLeavesSwapsRunning(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 1, 0)
	env.seedLiquidity(pool, 1_000, 1_000)
	inA, outB := env.traderAccounts(pool, 1_000)

	if err := env.engine.PausePool(pool.Address, testOwner, model.PauseLiquidity, MaxPoolPauseDuration, "rebalance"); err != nil {
		t.Fatalf("PausePool: %v", err)
	}
	if _, err := env.engine.Swap(SwapParams{
		Pool: pool.Address, Trader: testTrader, AmountIn: 100,
		Direction: SwapAToB, InAccount: inA, OutAccount: outB,
	}); err != nil {
		t.Fatalf("swap during liquidity pause: %v", err)
	}
}

func TestLiquidityFeePostsToTreasury(t *testing.T) {
	env := newTestEnv(t)
	pool := env.createPool(1, 2, 0)
	env.seedLiquidity(pool, 1_000, 1_000)

	tr := env.engine.TreasuryInfo()
	cat := tr.Categories[model.FeeLiquidity.String()]
	if cat.Count != 2 || cat.Total != 2*LiquidityOperationFee {
		t.Fatalf("liquidity category = %+v", cat)
	}
}
