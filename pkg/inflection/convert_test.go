package inflection_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/paradigm/pkg/inflection"
	"github.com/japaniel/paradigm/pkg/table"
)

const nounYAML = `
rows:
  - cells:
      - headerText: ""
      - headerText: Singular
      - headerText: Plural
  - cells:
      - headerText: Nominative
      - inflectedForm: {inflectionPattern: "{~}", deriveLemma: false, displayName: "", hasCustomDisplayName: false}
      - inflectedForm: {id: 7, inflectionPattern: "{plural root}", deriveLemma: true, displayName: "nom. pl.", hasCustomDisplayName: true}
  - cells:
      - headerText: Oblique
        columnSpan: 2
      - inflectedForm: {inflectionPattern: "{plural root}", deriveLemma: true}
`

func TestReadDefinition(t *testing.T) {
	def, err := inflection.ReadDefinition(strings.NewReader(nounYAML))
	require.NoError(t, err)
	require.Len(t, def.Rows, 3)
	assert.Equal(t, "Singular", *def.Rows[0].Cells[1].HeaderText)
	f := def.Rows[1].Cells[2].InflectedForm
	require.NotNil(t, f)
	assert.Equal(t, int64(7), *f.ID)
	assert.Equal(t, "{plural root}", f.InflectionPattern)
	assert.Equal(t, 2, def.Rows[2].Cells[0].ColumnSpan)
}

func TestReadDefinitionJSON(t *testing.T) {
	def, err := inflection.ReadDefinition(strings.NewReader(`{"rows":[{"cells":[{"headerText":"x"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "x", *def.Rows[0].Cells[0].HeaderText)
}

func TestReadDefinitionInvalid(t *testing.T) {
	_, err := inflection.ReadDefinition(strings.NewReader("rows: [[["))
	assert.Error(t, err)
}

func TestTableValueRoundTrip(t *testing.T) {
	def, err := inflection.ReadDefinition(strings.NewReader(nounYAML))
	require.NoError(t, err)

	v, err := inflection.NewTableValue(def.Rows, table.SequentialKeys("k"))
	require.NoError(t, err)
	assert.Equal(t, 3, v.Layout().RowCount())
	assert.Equal(t, 3, v.Layout().ColCount())

	cell, ok := v.CellAt(1, 2)
	require.True(t, ok)
	assert.False(t, cell.Header)
	assert.Equal(t, int64(7), cell.Data.InflectedFormID)

	back := inflection.ToInput(v)
	assert.Equal(t, def.Rows, back)
}

func TestNewTableValueRejectsEmptyCell(t *testing.T) {
	_, err := inflection.NewTableValue([]inflection.RowInput{{Cells: []inflection.CellInput{{}}}}, table.SequentialKeys("k"))
	assert.True(t, inflection.IsInputError(err))
}

func TestEditedValueProjectsNewCells(t *testing.T) {
	v, err := inflection.NewTableValue([]inflection.RowInput{{Cells: []inflection.CellInput{header("a")}}}, table.SequentialKeys("k"))
	require.NoError(t, err)
	v, err = v.InsertColumn(1)
	require.NoError(t, err)

	rows := inflection.ToInput(v)
	require.Len(t, rows[0].Cells, 2)
	added := rows[0].Cells[1]
	assert.Nil(t, added.HeaderText)
	require.NotNil(t, added.InflectedForm)
	assert.Nil(t, added.InflectedForm.ID)
	assert.Equal(t, "", added.InflectedForm.InflectionPattern)
}

func TestWriteDefinition(t *testing.T) {
	def, err := inflection.ReadDefinition(strings.NewReader(nounYAML))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, inflection.WriteDefinition(&buf, def))

	again, err := inflection.ReadDefinition(&buf)
	require.NoError(t, err)
	assert.Equal(t, def, again)
}

func TestWithFormIDs(t *testing.T) {
	v, err := inflection.NewTableValue([]inflection.RowInput{
		{Cells: []inflection.CellInput{header("a"), data("{~}s")}},
	}, table.SequentialKeys("k"))
	require.NoError(t, err)
	focused := v.Selection().FocusedCellKey()

	id := int64(42)
	text := "a"
	v, err = inflection.WithFormIDs(v, []inflection.StoredRow{
		{Cells: []inflection.StoredCell{{HeaderText: &text}, {InflectedFormID: &id}}},
	})
	require.NoError(t, err)
	cell, ok := v.CellAt(0, 1)
	require.True(t, ok)
	assert.Equal(t, int64(42), cell.Data.InflectedFormID)
	assert.Equal(t, focused, v.Selection().FocusedCellKey())

	_, err = inflection.WithFormIDs(v, nil)
	assert.Error(t, err)
}
