package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Name", "City"},
		Rows: []map[string]string{
			{"ID": "R1", "Name": "Falafel Rea", "City": "תל אביב"},
			{"ID": "R2", "Name": "Burger, Bar"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	content, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	body := string(content)
	assert.True(t, strings.HasPrefix(body, "\uFEFF"))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\uFEFF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,City", lines[0])
	assert.Equal(t, "R1,Falafel Rea,תל אביב", lines[1])
	// Commas in values stay quoted, missing cells render empty.
	assert.Equal(t, `R2,"Burger, Bar",`, lines[2])
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	content, err := NewPDFExporter().Render(sampleDataset(), "Directory")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "Directory")
	assert.Error(t, err)
}
