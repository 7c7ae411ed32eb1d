package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealmvp/models"
	"github.com/xuri/excelize/v2"
)

func testSeries(t *testing.T) models.Series {
	t.Helper()
	var records []models.PlayerSeasonRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"PPG":27.3,"RPG":8.1,"BPG":0.5,"POS":"F","APG":5.2,"SPG":1.1,"TOPG":2.0,"TEAM":"LAL","FULL NAME":"LeBron James","ORTG":115,"DRTG":108},
		{"PPG":15.9,"RPG":12.9,"BPG":2.3,"POS":"C","APG":2.0,"SPG":0.8,"TOPG":1.6,"TEAM":"Uta","FULL NAME":"Rudy Gobert","ORTG":133.6,"DRTG":100.6}
	]`), &records))
	return models.Transform(records)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "JSON", testSeries(t), false))

	var out models.Series
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, "Rudy Gobert", out.Scatter[1][2])
}

func TestWriteJSONIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testSeries(t), true))
	assert.Contains(t, buf.String(), "\n  \"parallel\"")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, testSeries(t), false))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(parallelSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Points", "Rebounds", "Blocks", "Position", "Assists", "Steals", "Turnovers", "Team", "Full Name"}, rows[0])
	assert.Equal(t, "LeBron James", rows[1][8])
	assert.Equal(t, "F", rows[1][3])

	rows, err = f.GetRows(scatterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Offensive Rating", "Defensive Rating", "Full Name", "Position"}, rows[0])
	assert.Equal(t, "Rudy Gobert", rows[2][2])
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, models.Transform(nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(scatterSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, "csv", testSeries(t), false))
}
