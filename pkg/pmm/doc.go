// Package pmm implements the PMM sidecar metadata format: a canonical
// JSON document describing a columnar table, stored alongside the table
// file it annotates.
//
// The document model is a set of typed record entities (Metadata, Field,
// Stats, Data, FlatFile, FlatFileFormat) built from per-entity attribute
// tables. Serialization is canonical: attribute order follows the table,
// indentation is fixed, tag keys are sorted, and re-saving an unchanged
// document reproduces it byte for byte. Date-valued tags are transcoded
// to strings around serialization and recovered opportunistically on
// load.
package pmm
