package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/docindex/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryByKey(entries []index.CustomMetadata, key string) (index.CustomMetadata, bool) {
	for _, entry := range entries {
		if entry.Key == key {
			return entry, true
		}
	}
	return index.CustomMetadata{}, false
}

func TestExtract_FileProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Report_2024_Q1.txt")
	require.NoError(t, os.WriteFile(path, []byte("quarterly numbers"), 0o644))

	entries := Extract(path, nil)

	ext, ok := entryByKey(entries, "file_extension")
	require.True(t, ok)
	assert.Equal(t, ".txt", ext.StringValue)

	size, ok := entryByKey(entries, "file_size_mb")
	require.True(t, ok)
	assert.GreaterOrEqual(t, size.NumericValue, 0.0)

	_, ok = entryByKey(entries, "upload_timestamp")
	assert.True(t, ok)
	_, ok = entryByKey(entries, "file_modified")
	assert.True(t, ok)
}

func TestExtract_MissingFileStillParsesFilename(t *testing.T) {
	entries := Extract("/nonexistent/Invoice_12345_2023.pdf", nil)

	year, ok := entryByKey(entries, "filename_year")
	require.True(t, ok)
	assert.Equal(t, "2023", year.StringValue)

	docType, ok := entryByKey(entries, "filename_document_type")
	require.True(t, ok)
	assert.Equal(t, "invoice", docType.StringValue)
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		key      string
		want     string
	}{
		{"year", "Report_2024_Q1.pdf", "filename_year", "2024"},
		{"quarter upper", "Report_2024_q3.pdf", "filename_quarter", "Q3"},
		{"date", "Meeting_Notes_2024-01-15.docx", "filename_date", "2024-01-15"},
		{"short version", "design_v2.3.md", "filename_version", "2.3"},
		{"long version", "design_version-1.0.md", "filename_version", "1.0"},
		{"doc type report", "Summary_of_findings.pdf", "filename_document_type", "report"},
		{"doc type contract", "agreement-final.pdf", "filename_document_type", "contract"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := parseFilename(tt.filename)
			entry, ok := entryByKey(entries, tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, entry.StringValue)
		})
	}
}

func TestParseFilename_NoTokens(t *testing.T) {
	assert.Empty(t, parseFilename("notes.txt"))
}

func TestCap(t *testing.T) {
	entries := make([]index.CustomMetadata, MaxEntries+5)
	assert.Len(t, Cap(entries), MaxEntries)
	assert.Len(t, Cap(entries[:3]), 3)
}

func TestConfigValidate(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:9100/v1"), WithModel("test-model"))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:9100/v1", cfg.Host)

	cfg = NewConfig(WithHost(""))
	assert.ErrorIs(t, cfg.Validate(), ErrHostRequired)

	cfg = NewConfig(WithModel(""))
	assert.ErrorIs(t, cfg.Validate(), ErrModelRequired)
}

func TestParseAnalysis(t *testing.T) {
	analysis, err := parseAnalysis("```json\n{\"title\": \"Annual Report\", \"keywords\": [\"finance\", \"revenue\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Annual Report", analysis.Title)
	assert.Equal(t, []string{"finance", "revenue"}, analysis.Keywords)

	_, err = parseAnalysis("not json at all")
	assert.Error(t, err)
}

func TestContentExtractorSupports(t *testing.T) {
	extractor, err := NewContentExtractor(nil)
	require.NoError(t, err)

	assert.True(t, extractor.Supports("/tmp/notes.md"))
	assert.True(t, extractor.Supports("/tmp/data.JSON"))
	assert.False(t, extractor.Supports("/tmp/report.pdf"))
}

func TestContentExtractorToEntries(t *testing.T) {
	extractor, err := NewContentExtractor(NewConfig(WithMaxKeywords(2)))
	require.NoError(t, err)

	entries := extractor.toEntries(contentAnalysis{
		Title:    "  Design Notes ",
		Keywords: []string{"Architecture", "", "go", "extra"},
	})

	title, ok := entryByKey(entries, "ai_title")
	require.True(t, ok)
	assert.Equal(t, "Design Notes", title.StringValue)

	keywords, ok := entryByKey(entries, "ai_keywords")
	require.True(t, ok)
	assert.Equal(t, []string{"architecture", "go"}, keywords.StringListValue)
}
