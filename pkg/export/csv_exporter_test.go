package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Section", "Classroom"},
		Rows: [][]string{
			{"sec-1", "room-a"},
			{"sec-2", "room-b"},
		},
	}

	payload, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Section,Classroom\nsec-1,room-a\nsec-2,room-b\n", string(payload))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := Dataset{
		Headers: []string{"Section", "Classroom"},
		Rows:    [][]string{{"sec-1"}},
	}

	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2")
}

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Section", "Classroom"},
		Rows:    [][]string{{"sec-1", "room-a"}},
	}

	payload, err := NewPDFExporter().Render(data, "Timetable term-1")
	require.NoError(t, err)
	assert.True(t, len(payload) > 0)
	assert.Equal(t, "%PDF", string(payload[:4]))
}
