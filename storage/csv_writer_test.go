package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skin-watcher/models"
)

func TestCSVWriterAppendsSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "scans.csv")
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		w, err := NewCSVWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.WriteSections([]*models.ParsedSection{
			{OrderID: 123, Price: 15000, Listing: sampleListing(123)},
			{OrderID: 77, Price: 3000},
		}, at))
		require.NoError(t, w.Close())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "one header plus two rows per scan")

	assert.Equal(t, "scraped_at", rows[0][0])
	assert.Equal(t, []string{"2024-05-01T12:00:00Z", "123", "AK-47", "Redline", "FT", "15000", "false", "false"}, rows[1])
	assert.Equal(t, []string{"2024-05-01T12:00:00Z", "77", "", "", "", "3000", "", "true"}, rows[2])
}
