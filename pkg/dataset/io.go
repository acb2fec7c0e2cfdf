package dataset

import (
	"os"

	"github.com/ajitpratap0/featherpmm/pkg/feather"
	"github.com/ajitpratap0/featherpmm/pkg/logger"
	"github.com/ajitpratap0/featherpmm/pkg/pmm"
	"go.uber.org/zap"
)

// Read loads the table at path and its sidecar metadata. Sentinel
// columns are decoded before the metadata is reconciled against the
// table. A missing sidecar is not an error; metadata is inferred fresh.
func Read(path string) (*Dataset, error) {
	tbl, err := feather.Read(path)
	if err != nil {
		return nil, err
	}
	DecodeNullColumns(tbl)

	sidecar := SidecarPath(path)
	var meta *pmm.Metadata
	if _, statErr := os.Stat(sidecar); statErr == nil {
		meta, err = pmm.Load(sidecar)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded sidecar metadata",
			zap.String("path", sidecar), zap.String("dataset", meta.Name()))
	} else {
		meta, err = InferMetadata(DatasetName(path), tbl, nil)
		if err != nil {
			return nil, err
		}
		logger.Debug("no sidecar, inferred metadata",
			zap.String("path", sidecar), zap.String("dataset", meta.Name()))
	}

	ds := &Dataset{Table: tbl, Meta: meta}
	if err := ds.UpdateMetadata(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Write reconciles the dataset, encodes unstorable columns and writes
// the table followed by the sidecar. The write is not transactional
// across the two files: if either fails, both are removed best-effort
// so a stale, mismatched pair is never left behind.
func Write(path string, ds *Dataset) error {
	if ds.Meta == nil {
		meta, err := InferMetadata(DatasetName(path), ds.Table, nil)
		if err != nil {
			return err
		}
		ds.Meta = meta
	}
	if err := ds.UpdateMetadata(); err != nil {
		return err
	}

	encoded := EncodeNullColumns(ds)
	sidecar := SidecarPath(path)

	if err := feather.Write(path, encoded); err != nil {
		removePair(path, sidecar)
		return err
	}
	if err := ds.Meta.Save(sidecar); err != nil {
		removePair(path, sidecar)
		return err
	}
	logger.Debug("wrote dataset",
		zap.String("table", path), zap.String("sidecar", sidecar),
		zap.Int64("records", ds.Meta.RecordCount()))
	return nil
}

func removePair(tablePath, sidecarPath string) {
	for _, p := range []string{tablePath, sidecarPath} {
		if _, err := os.Stat(p); err == nil {
			if rmErr := os.Remove(p); rmErr != nil {
				logger.Warn("failed to clean up after failed save",
					zap.String("path", p), zap.Error(rmErr))
			}
		}
	}
}
