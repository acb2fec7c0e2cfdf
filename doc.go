// Package featherpmm implements the PMM sidecar metadata format for
// feather (Arrow IPC) table files: a canonical JSON descriptor carrying
// per-column type intent, provenance, free-form tags and summary
// statistics that the columnar storage format cannot itself express.
//
// The packages layer leaves-first:
//
//   - pkg/pmm — the typed record model, canonical serialization codec
//     and date-tag transcoder for the sidecar document itself.
//   - pkg/table — the small in-memory columnar table the rest of the
//     system works against.
//   - pkg/feather — Arrow IPC read/write for tables.
//   - pkg/dataset — pairing of table and metadata: type inference,
//     schema reconciliation, the null-sentinel codec, and the
//     load/save boundary with its two-file cleanup contract.
//
// cmd/pmm is a thin CLI over the dataset layer: show, validate and
// sync operations on table/sidecar pairs.
package featherpmm
