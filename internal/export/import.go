package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CDMG-DanEmma/DMS/pkg/models"
	"github.com/CDMG-DanEmma/DMS/pkg/utils"
)

// TagRow is one line of a tag sheet: the tags to apply to a catalogued path.
type TagRow struct {
	Line   int
	Path   string
	Fields models.Fields
}

func tagFieldNames() []string {
	names := make([]string, len(models.TagFields))
	for i, f := range models.TagFields {
		names[i] = string(f)
	}
	return names
}

// ReadTags parses a CSV tag sheet. The header must name a file_path column;
// tag columns are picked up by name and every other column is ignored.
// Blank cells leave the existing tag alone, so an exported sheet can be
// edited and read back.
func ReadTags(r io.Reader) ([]TagRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %v", err)
	}
	pathCol := -1
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		if header[i] == string(models.FieldFilePath) {
			pathCol = i
		}
	}
	if pathCol < 0 {
		return nil, errors.New("CSV header has no file_path column")
	}

	allow := tagFieldNames()
	var rows []TagRow
	for lineNum := 2; ; lineNum++ { // Start from 2 to account for header row
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV line %d: %v", lineNum, err)
		}
		if pathCol >= len(record) || strings.TrimSpace(record[pathCol]) == "" {
			return nil, fmt.Errorf("invalid CSV format at line %d: missing file_path", lineNum)
		}

		raw := make(map[string]any, len(record))
		for i, v := range record {
			if i < len(header) {
				raw[header[i]] = v
			}
		}
		fields := make(models.Fields)
		for k, v := range utils.ValidateMetadata(raw, allow) {
			fields[models.Field(k)] = v
		}
		rows = append(rows, TagRow{
			Line:   lineNum,
			Path:   strings.TrimSpace(record[pathCol]),
			Fields: fields,
		})
	}
	return rows, nil
}
