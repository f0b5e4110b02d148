package boxes

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_RoundTrip(t *testing.T) {
	original := []*Box{
		New("Fruit", "Apples", "Blueberries"),
		New("Nuts", "Almonds"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, original))

	c, err := ReadCSV(&buf)
	require.NoError(t, err)

	got := c.Boxes()
	require.Len(t, got, len(original))
	for i, b := range original {
		assert.Equal(t, b.Name, got[i].Name)
		assert.Equal(t, b.Items(), got[i].Items())
	}
}

func TestCSV_RoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	original := []*Box{fruitBox(), nutsBox(), New("Odd, \"quoted\"", "line\nbreak")}

	require.NoError(t, ExportCSV(path, original))

	c, err := ImportCSV(path)
	require.NoError(t, err)

	got := c.Boxes()
	require.Len(t, got, 3)
	for i, b := range original {
		assert.Equal(t, b.Name, got[i].Name)
		assert.Equal(t, b.Items(), got[i].Items())
	}
}

func TestWriteCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*Box{
		New("Fruit", "Apples", "Blueberries"),
		New("Nuts", "Almonds"),
		New("Empty"),
	}))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "fruit_nuts_csv", buf.Bytes())
}

func TestReadCSV_GroupsInterleavedRows(t *testing.T) {
	input := "Box,Item\nA,1\nB,2\nA,3\n"

	c, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	boxes := c.Boxes()
	require.Len(t, boxes, 2)
	assert.Equal(t, []string{"1", "3"}, boxes[0].Items())
	assert.Equal(t, []string{"2"}, boxes[1].Items())
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	c, err := ReadCSV(strings.NewReader("Box,Item\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestReadCSV_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		fields int
	}{
		{"three fields", "Box,Item\nFruit,Apples\nFruit,Kiwis,Extra\n", 3, 3},
		{"one field", "Box,Item\nNuts\n", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))

			var malformed *MalformedInputError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, tt.line, malformed.Line)
			assert.Equal(t, tt.fields, malformed.Fields)
		})
	}
}

func TestReadCSV_ParseError(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Box,Item\nFruit,\"unterminated\n"))

	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed), "got %v", err)
	assert.Error(t, malformed.Err)
}

func TestImportCSV_MissingFile(t *testing.T) {
	_, err := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
