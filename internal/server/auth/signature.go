package auth

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifyWalletSignature reports whether signature was produced over message
// by the key controlling address, under the standard personal-message signing
// scheme (EIP-191 "\x19Ethereum Signed Message" prefix).
//
// The address comparison is case-insensitive and the function is pure: no
// network access, no side effects. Malformed input (bad hex, wrong length,
// unrecoverable signature) is reported as a plain false.
func VerifyWalletSignature(address, message, signature string) bool {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sig) != 65 {
		return false
	}

	// Wallets emit the recovery id as 27/28, secp256k1 wants 0/1.
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return false
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return false
	}

	recovered := crypto.PubkeyToAddress(*pub)
	return strings.EqualFold(recovered.Hex(), address)
}
