package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/shoprank/core"
)

// Key prefixes for different data types
const (
	productRecordPrefix  = "prodrec"
	productIDSeq         = "prodrecseq"
	customerRecordPrefix = "custrec"
	customerIDSeq        = "custrecseq"
	txnRecordPrefix      = "txnrec"
	txnIDSeq             = "txnrecseq"
	txnCustomerPrefix    = "txncust"
)

// makeProductKey generates a key for a product by ID.
func makeProductKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", productRecordPrefix, id))
}

// makeCustomerKey generates a key for a customer by ID.
func makeCustomerKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", customerRecordPrefix, id))
}

// makeTxnKey generates a key for a transaction by ID.
func makeTxnKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", txnRecordPrefix, id))
}

// makeTxnCustomerKey generates a composite key for the purchase index.
// Format: prefix:customerID:txnID
func makeTxnCustomerKey(customerID, txnID core.ID) []byte {
	prefix := txnCustomerPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for customerID + 8 bytes for txnID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(customerID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(txnID))
	return buf
}

// makePartialTxnCustomerKey generates a partial key for purchase index queries.
// Format: prefix:customerID
func makePartialTxnCustomerKey(customerID core.ID) []byte {
	prefix := txnCustomerPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for customerID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(customerID))
	return buf
}
