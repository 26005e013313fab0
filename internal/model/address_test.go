package model

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	mintX = common.HexToHash("0x01")
	mintY = common.HexToHash("0x02")
)

func TestPoolIdentityCanonicalOrder(t *testing.T) {
	a, err := NewPoolIdentity(mintX, mintY, 1, 160)
	if err != nil {
		t.Fatalf("NewPoolIdentity: %v", err)
	}
	b, err := NewPoolIdentity(mintY, mintX, 160, 1)
	if err != nil {
		t.Fatalf("NewPoolIdentity reversed: %v", err)
	}
	if a != b {
		t.Fatalf("identities differ: %+v vs %+v", a, b)
	}
	if a.TokenAMint != mintX {
		t.Fatalf("token A = %s, want the byte-wise smaller mint", a.TokenAMint.Hex())
	}
	if a.PoolAddress() != b.PoolAddress() {
		t.Fatal("canonical identities derive different addresses")
	}
}

func TestPoolIdentityRejectsIdenticalMints(t *testing.T) {
	if _, err := NewPoolIdentity(mintX, mintX, 1, 2); err == nil {
		t.Fatal("identical mints accepted")
	}
}

func TestDerivedAddressesDisjoint(t *testing.T) {
	id, err := NewPoolIdentity(mintX, mintY, 3, 7)
	if err != nil {
		t.Fatalf("NewPoolIdentity: %v", err)
	}
	addrs := map[common.Hash]string{
		id.PoolAddress():    "pool",
		id.VaultAddressA():  "vault_a",
		id.VaultAddressB():  "vault_b",
		id.LPMintAddressA(): "lp_a",
		id.LPMintAddressB(): "lp_b",
	}
	if len(addrs) != 5 {
		t.Fatalf("derived addresses collide: %v", addrs)
	}
}

func TestDistinctRatiosDeriveDistinctPools(t *testing.T) {
	a, _ := NewPoolIdentity(mintX, mintY, 1, 2)
	b, _ := NewPoolIdentity(mintX, mintY, 1, 3)
	if a.PoolAddress() == b.PoolAddress() {
		t.Fatal("different ratios derive the same pool address")
	}
}

func TestDerivationIsDeterministic(t *testing.T) {
	a, _ := NewPoolIdentity(mintX, mintY, 1, 1000)
	b, _ := NewPoolIdentity(mintX, mintY, 1, 1000)
	if a.PoolAddress() != b.PoolAddress() {
		t.Fatal("derivation not deterministic")
	}
}
