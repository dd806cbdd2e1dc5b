package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-scraper/models"
)

func TestCSVWriterWritesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	err = w.WriteRecords([]*models.Record{
		{ID: 7, URL: "https://example.com/a", SellPrice: "$0.03",
			RecentActivity: []models.Activity{{ActivityType: "Sold!", Price: "$0.03"}}},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, []string{
		"7", "https://example.com/a", "", "", "$0.03", "",
		`[{"activity_type":"Sold!","price":"$0.03"}]`,
	}, rows[1])
}
