package model

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Seed prefixes keep the derived address spaces disjoint by construction:
// a pool state address can never collide with a vault or LP mint address
// for the same token pair.
const (
	poolStateSeed    = "pool_state_v2"
	tokenAVaultSeed  = "token_a_vault"
	tokenBVaultSeed  = "token_b_vault"
	lpTokenAMintSeed = "lp_token_a_mint"
	lpTokenBMintSeed = "lp_token_b_mint"
)

// PoolIdentity is the canonical form of a pool: token mints ordered by raw
// byte comparison, ratio sides carried along with any swap. Two economically
// identical pools normalize to the same identity regardless of input order.
type PoolIdentity struct {
	TokenAMint        common.Hash `json:"token_a_mint"`
	TokenBMint        common.Hash `json:"token_b_mint"`
	RatioANumerator   uint64      `json:"ratio_a_numerator"`
	RatioBDenominator uint64      `json:"ratio_b_denominator"`
}

// NewPoolIdentity canonicalizes an unordered token pair and its ratio.
// Token identifiers compare as raw byte sequences, not numeric values.
// An identical pair is rejected before any derivation happens.
func NewPoolIdentity(tokenX, tokenY common.Hash, ratioX, ratioY uint64) (PoolIdentity, error) {
	switch bytes.Compare(tokenX.Bytes(), tokenY.Bytes()) {
	case 0:
		return PoolIdentity{}, fmt.Errorf("identical token mints: %s", tokenX.Hex())
	case -1:
		return PoolIdentity{
			TokenAMint:        tokenX,
			TokenBMint:        tokenY,
			RatioANumerator:   ratioX,
			RatioBDenominator: ratioY,
		}, nil
	default:
		return PoolIdentity{
			TokenAMint:        tokenY,
			TokenBMint:        tokenX,
			RatioANumerator:   ratioY,
			RatioBDenominator: ratioX,
		}, nil
	}
}

// PoolAddress derives the deterministic address of the pool state record.
func (id PoolIdentity) PoolAddress() common.Hash {
	return id.derive(poolStateSeed)
}

// VaultAddressA derives the token A vault sub-account address.
func (id PoolIdentity) VaultAddressA() common.Hash {
	return id.derive(tokenAVaultSeed)
}

// VaultAddressB derives the token B vault sub-account address.
func (id PoolIdentity) VaultAddressB() common.Hash {
	return id.derive(tokenBVaultSeed)
}

// LPMintAddressA derives the LP accounting mint address for the token A side.
func (id PoolIdentity) LPMintAddressA() common.Hash {
	return id.derive(lpTokenAMintSeed)
}

// LPMintAddressB derives the LP accounting mint address for the token B side.
func (id PoolIdentity) LPMintAddressB() common.Hash {
	return id.derive(lpTokenBMintSeed)
}

func (id PoolIdentity) derive(prefix string) common.Hash {
	var num, den [8]byte
	binary.BigEndian.PutUint64(num[:], id.RatioANumerator)
	binary.BigEndian.PutUint64(den[:], id.RatioBDenominator)
	return crypto.Keccak256Hash(
		[]byte(prefix),
		id.TokenAMint.Bytes(),
		id.TokenBMint.Bytes(),
		num[:],
		den[:],
	)
}
