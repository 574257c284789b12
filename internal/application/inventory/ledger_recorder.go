package inventory

import "context"

// LedgerRecorder receives ledger activity, usually to feed metrics
type LedgerRecorder interface {
	RecordMovement(ctx context.Context, movementType string)
	RecordStatusChange(ctx context.Context, from, to, effect string)
}

// NopLedgerRecorder discards everything
type NopLedgerRecorder struct{}

func (NopLedgerRecorder) RecordMovement(context.Context, string) {}
func (NopLedgerRecorder) RecordStatusChange(context.Context, string, string, string) {}

var _ LedgerRecorder = NopLedgerRecorder{}
