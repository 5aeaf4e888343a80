package repository

// Tx is an opaque transaction/connection handle threaded through repository
// calls. The concrete type is infra-defined (pgx.Tx for Postgres).
// Repositories MUST gracefully accept nil (non-transactional path).
type Tx interface{}

// NoTX is passed where an operation should run directly on the pool.
var NoTX Tx
