package utils

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// TxTime returns the transaction timestamp as (seconds, nanos). Block time is
// the only host-supplied time ordinal available to chaincode; it is constant
// across all calls endorsed in the same block.
func TxTime(stub shim.ChaincodeStubInterface) (int64, int32, error) {
	txTimestamp, err := stub.GetTxTimestamp()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get transaction timestamp: %v", err)
	}
	return txTimestamp.Seconds, txTimestamp.Nanos, nil
}
