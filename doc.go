// Package lithic provides an in-memory columnar storage core for a
// relational database engine.
//
// Lithic stores tables as sequences of fixed-capacity chunks, one
// dictionary-compressible segment per column, and enforces schema
// consistency, per-cell NULL tracking, and adaptive bit-width selection for
// compressed attribute vectors.
//
// The storage core lives in pkg/storage; pkg/value carries untyped cell
// values across its boundary and pkg/types defines the shared identifier
// types. Supporting packages follow the same layout: pkg/compression backs
// chunk snapshots, pkg/config, pkg/logger, and pkg/metrics provide the
// ambient configuration, logging, and observability stack.
//
// Query processing, SQL parsing, transactions, and durable persistence are
// intentionally out of scope; Lithic is the storage layer those systems
// build on.
package lithic
