// Package ledgertest provides a mock stub wrapper for chaincode tests.
package ledgertest

import (
	"fmt"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
)

// Stub extends shimtest.MockStub with a settable transaction timestamp so that
// block-time-derived behavior (record id derivation, duplicate detection) is
// deterministic in tests.
type Stub struct {
	*shimtest.MockStub
	TxTime *timestamp.Timestamp
}

// NewStub creates a mock stub with an open transaction and a default timestamp.
func NewStub(name string, cc shim.Chaincode) *Stub {
	mockStub := shimtest.NewMockStub(name, cc)
	mockStub.MockTransactionStart("txid")

	return &Stub{
		MockStub: mockStub,
		TxTime:   &timestamp.Timestamp{Seconds: 1700000000, Nanos: 0},
	}
}

// SetTxTime sets the transaction timestamp returned by GetTxTimestamp.
func (s *Stub) SetTxTime(seconds int64, nanos int32) {
	s.TxTime = &timestamp.Timestamp{Seconds: seconds, Nanos: nanos}
}

// GetTxTimestamp returns the configured transaction timestamp.
func (s *Stub) GetTxTimestamp() (*timestamp.Timestamp, error) {
	if s.TxTime == nil {
		return nil, fmt.Errorf("transaction timestamp not set")
	}
	return s.TxTime, nil
}
