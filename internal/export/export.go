// Package export writes catalog records to spreadsheets and reads tag
// sheets back in.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/CDMG-DanEmma/DMS/pkg/models"
	"github.com/CDMG-DanEmma/DMS/pkg/utils"
)

// Formats accepted by Write.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const sheetName = "Catalog"

// Columns is the header row of every export, in files_metadata order.
var Columns = []string{
	"file_id",
	string(models.FieldFilePath),
	string(models.FieldFileName),
	string(models.FieldSource),
	string(models.FieldFileType),
	string(models.FieldIssueStatus),
	string(models.FieldRevision),
	string(models.FieldDepartment),
	string(models.FieldDrawingType),
	string(models.FieldPlantArea),
	string(models.FieldEquipmentIncluded),
	string(models.FieldNotes),
	string(models.FieldTodos),
	string(models.FieldLastModified),
	string(models.FieldCreatedDate),
}

func row(rec *models.FileRecord) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.FilePath,
		rec.FileName,
		rec.Source,
		rec.FileType,
		rec.IssueStatus,
		rec.Revision,
		rec.Department,
		rec.DrawingType,
		rec.PlantArea,
		rec.EquipmentIncluded,
		rec.Notes,
		rec.Todos,
		stamp(rec.LastModified),
		stamp(rec.CreatedDate),
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return utils.FormatTimestamp(t.Local())
}

// Write encodes records to w in the given format.
func Write(w io.Writer, format string, records []models.FileRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	}
	return fmt.Errorf("unknown export format %q, expected %s or %s", format, FormatCSV, FormatXLSX)
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []models.FileRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(row(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with a frozen header row.
func WriteXLSX(w io.Writer, records []models.FileRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}
	// Panes must be set before the first row is streamed.
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = excelize.Cell{StyleID: bold, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := range records {
		values := row(&records[i])
		cells := make([]any, len(values))
		cells[0] = records[i].ID
		for j := 1; j < len(values); j++ {
			cells[j] = values[j]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
