package state

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Storage keys are keccak hashes of namespaced preimages so unrelated record
// families can never collide. Module vault addresses are derived the same way:
// the last 20 bytes of the keccak hash of a seed string scoped to the spotwin
// program namespace. No private key exists for a derived address; custody is
// gated structurally by the engine code paths that reference it.
const (
	contestVaultSeedPrefix     = "spotwin/contest/vault/"
	contestAuthoritySeedPrefix = "spotwin/contest/vault-authority/"
	stakeVaultSeed             = "spotwin/stake/vault"
	stakeAuthoritySeed         = "spotwin/stake/vault-authority"
)

var (
	tokenPrefix       = []byte("token:")
	tokenListKey      = ethcrypto.Keccak256([]byte("token-list"))
	balancePrefix     = []byte("balance:")
	contestPrefix     = []byte("contest:")
	participantPrefix = []byte("participant:")
	stakePoolKey      = ethcrypto.Keccak256([]byte("stake-pool"))
	stakeAcctPrefix   = []byte("stake-acct:")
)

func contestIDBytes(id uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, id)
	return buf
}

func tokenMetadataKey(symbol string) []byte {
	buf := make([]byte, 0, len(tokenPrefix)+len(symbol))
	buf = append(buf, tokenPrefix...)
	buf = append(buf, symbol...)
	return ethcrypto.Keccak256(buf)
}

func balanceKey(symbol string, addr [20]byte) []byte {
	buf := make([]byte, 0, len(balancePrefix)+len(symbol)+1+len(addr))
	buf = append(buf, balancePrefix...)
	buf = append(buf, symbol...)
	buf = append(buf, ':')
	buf = append(buf, addr[:]...)
	return ethcrypto.Keccak256(buf)
}

func contestKey(id uint64) []byte {
	buf := make([]byte, 0, len(contestPrefix)+8)
	buf = append(buf, contestPrefix...)
	buf = append(buf, contestIDBytes(id)...)
	return ethcrypto.Keccak256(buf)
}

func participantKey(id uint64, player [20]byte) []byte {
	buf := make([]byte, 0, len(participantPrefix)+8+len(player))
	buf = append(buf, participantPrefix...)
	buf = append(buf, contestIDBytes(id)...)
	buf = append(buf, player[:]...)
	return ethcrypto.Keccak256(buf)
}

func stakeAccountKey(owner [20]byte) []byte {
	buf := make([]byte, 0, len(stakeAcctPrefix)+len(owner))
	buf = append(buf, stakeAcctPrefix...)
	buf = append(buf, owner[:]...)
	return ethcrypto.Keccak256(buf)
}

func seedAddress(seed []byte) [20]byte {
	hash := ethcrypto.Keccak256(seed)
	var addr [20]byte
	copy(addr[:], hash[len(hash)-20:])
	return addr
}

// ContestVaultAddress derives the custody address holding all entry fees for a
// contest.
func ContestVaultAddress(id uint64) [20]byte {
	return seedAddress(append([]byte(contestVaultSeedPrefix), contestIDBytes(id)...))
}

// ContestVaultAuthorityAddress derives the non-signing identity that gates
// transfers out of a contest vault.
func ContestVaultAuthorityAddress(id uint64) [20]byte {
	return seedAddress(append([]byte(contestAuthoritySeedPrefix), contestIDBytes(id)...))
}

// StakeVaultAddress derives the custody address holding all staked tokens.
func StakeVaultAddress() [20]byte {
	return seedAddress([]byte(stakeVaultSeed))
}

// StakeVaultAuthorityAddress derives the non-signing identity that gates
// transfers out of the stake vault.
func StakeVaultAuthorityAddress() [20]byte {
	return seedAddress([]byte(stakeAuthoritySeed))
}
