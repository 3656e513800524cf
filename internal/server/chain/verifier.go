// Package chain classifies client-claimed transactions by querying an
// external chain node for their receipts.
package chain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/patronly/patronly/internal/logging"
)

// Classification is the verifier's verdict on a claimed transaction.
type Classification string

const (
	// Confirmed: a receipt exists and reports success.
	Confirmed Classification = "confirmed"
	// Failed: a receipt exists and reports the transaction reverted.
	Failed Classification = "failed"
	// Unverifiable: no receipt could be obtained. The node errored, the
	// lookup timed out, or the transaction is unknown or still pending.
	Unverifiable Classification = "unverifiable"
)

// ReceiptFetcher is the single chain RPC this package needs.
// *ethclient.Client satisfies it.
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Verifier looks up transaction receipts with a bounded timeout.
type Verifier struct {
	client  ReceiptFetcher
	timeout time.Duration
	logger  logging.Logger
}

// NewVerifier dials the chain node at rpcURL.
func NewVerifier(rpcURL string, timeout time.Duration, logger logging.Logger) (*Verifier, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}
	return NewVerifierWithClient(client, timeout, logger), nil
}

// NewVerifierWithClient wraps an existing client; used by tests.
func NewVerifierWithClient(client ReceiptFetcher, timeout time.Duration, logger logging.Logger) *Verifier {
	return &Verifier{
		client:  client,
		timeout: timeout,
		logger:  logger.With("module", "chain_verifier"),
	}
}

// Classify fetches the receipt for txHash and maps the outcome to a
// Classification. Lookup errors are never propagated; they degrade to
// Unverifiable.
func (v *Verifier) Classify(ctx context.Context, txHash string) Classification {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	receipt, err := v.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		v.logger.Warn(ctx, "receipt lookup failed", "tx_hash", txHash, "error", err.Error())
		return Unverifiable
	}
	if receipt == nil {
		return Unverifiable
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		return Confirmed
	}
	return Failed
}
