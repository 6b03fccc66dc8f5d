// Package storage implements Lithic's in-memory columnar storage core.
//
// Tables are stored as a sequence of fixed-capacity horizontal partitions
// (chunks), each holding one vertical slice (segment) per column. Two
// segment encodings coexist:
//
//   - ValueSegment: uncompressed, mutable, append-only; used for ingestion.
//   - DictionarySegment: dictionary-compressed and immutable; built from a
//     value segment for read-optimized storage.
//
// # Ingestion
//
//	table := storage.NewTable(65535)
//	table.AddColumn("name", storage.DataTypeString, true)
//	table.AddColumn("age", storage.DataTypeInt, false)
//
//	table.Append([]value.Value{value.String("Jane"), value.Int(42)})
//
// Appends flow through the current chunk into one segment per column. When
// the last chunk reaches the target chunk size, the table rolls over to a
// fresh chunk, so all chunks except possibly the last are exactly full.
//
// # Dictionary compression
//
// Table.CompressChunk replaces every value segment of a chunk with its
// dictionary-encoded form: the distinct non-NULL values sorted ascending,
// plus an attribute vector of value ids packed at the smallest width (1, 2,
// or 4 bytes) that can address the dictionary. Nullable segments reserve
// value id 0 for NULL.
//
// # Registry
//
// GetStorageManager returns the process-wide name→table registry. It
// supports add/drop/get/has/list plus human-readable and JSON schema dumps.
//
// # Interchange and snapshots
//
// Chunks export to Arrow record batches (ChunkToRecord, WriteArrowIPC) and
// serialize to compressed byte snapshots (Snapshotter) for hand-off to
// other processes. Neither path mutates the chunk.
//
// # Concurrency
//
// The core is single-writer, multi-reader per segment with no internal
// locking below the storage manager. Appends and compressions on one table
// must be serialized externally; segments handed to readers must not be
// mutated.
package storage
