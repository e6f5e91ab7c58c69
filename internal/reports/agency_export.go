package reports

import (
	"fmt"
	"io"

	"github.com/mroshb/liveroom/internal/models"
	"github.com/xuri/excelize/v2"
)

// WriteAgencyLogXLSX renders the agency transfer log as a spreadsheet for
// the admin export endpoint.
func WriteAgencyLogXLSX(w io.Writer, logs []models.AgencyTransferLog) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transfers"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Log ID", "Agent ID", "Target ID", "Amount", "Timestamp"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, log := range logs {
		row := rowIdx + 2
		values := []interface{}{
			log.LogID,
			log.AgentID,
			log.TargetID,
			log.Amount,
			log.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.Write(w)
}
