package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	err := WriteCSV(&buf, []string{"Name", "Quantity"}, [][]string{
		{"Blue Shirt", "3"},
		{"Mug, Large", "0"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Name,Quantity", lines[0])
	require.Equal(t, `"Mug, Large",0`, lines[2])
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "24.50", FormatPrice(24.5))
	require.Equal(t, "0.00", FormatPrice(0))
	require.Equal(t, "20.00", FormatPrice(20))
}
