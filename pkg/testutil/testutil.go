// Package testutil provides shared helpers for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/featherpmm/pkg/pmm"
	"github.com/ajitpratap0/featherpmm/pkg/table"
)

// TestLogger creates a logger that writes to the test output and is
// cleaned up with the test.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a context with a 30-second timeout. The caller
// must call the returned cancel function.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SampleTable builds a small mixed-type table with nulls, the shape
// most round-trip tests need.
func SampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.NewColumn("id", table.Int64, []interface{}{int64(1), int64(2), int64(3)}),
		table.NewColumn("score", table.Float64, []interface{}{0.5, nil, 1.5}),
		table.NewColumn("label", table.String, []interface{}{"a", "b", nil}),
	)
	if err != nil {
		t.Fatalf("building sample table: %v", err)
	}
	return tbl
}

// SampleMetadata builds metadata matching SampleTable.
func SampleMetadata(t *testing.T) *pmm.Metadata {
	t.Helper()
	fields := make([]*pmm.Field, 0, 3)
	for _, fd := range []struct {
		name string
		typ  pmm.FieldType
	}{
		{"id", pmm.TypeInteger},
		{"score", pmm.TypeReal},
		{"label", pmm.TypeString},
	} {
		f, err := pmm.NewField(fd.name, fd.typ, pmm.RoleUnspecified, nil, nil)
		if err != nil {
			t.Fatalf("building field %s: %v", fd.name, err)
		}
		fields = append(fields, f)
	}
	m, err := pmm.NewMetadata("sample", 3, fields, nil)
	if err != nil {
		t.Fatalf("building sample metadata: %v", err)
	}
	return m
}
