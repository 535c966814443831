package txtree

import "errors"

// ErrAnotherTransactionActive is returned when a transaction is begun while another one is active.
var ErrAnotherTransactionActive = errors.New("another transaction is active")

// ErrTransactionNotActive is returned when commit or rollback is requested with no active transaction.
var ErrTransactionNotActive = errors.New("transaction is not active")

// ErrWrongTransactionDescriptor is returned when commit or rollback names a transaction
// that is neither the wildcard nor the active one.
var ErrWrongTransactionDescriptor = errors.New("wrong transaction descriptor")
