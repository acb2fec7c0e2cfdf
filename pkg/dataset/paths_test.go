package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSidecarPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"data.feather", "data.pmm.feather"},
		{"/tmp/run/data.feather", "/tmp/run/data.pmm.feather"},
		{"data.csv", "data.pmm"},
		{"data", "data.pmm"},
		{"archive.tar.feather", "archive.tar.pmm.feather"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SidecarPath(tc.in), "for %s", tc.in)
	}
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "data", DatasetName("/tmp/run/data.feather"))
	assert.Equal(t, "data", DatasetName("data.csv"))
	assert.Equal(t, "data", DatasetName("data"))
}
