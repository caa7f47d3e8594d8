package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Relatório"

// Workbook renders a summary as a downloadable xlsx.
func Workbook(sum Summary) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FFF3D6"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]interface{}{
		{"Relatório de Satisfação e Reclamações", ""},
		{"Período", fmt.Sprintf("%s a %s", sum.From.Format("02/01/2006"), sum.To.AddDate(0, 0, -1).Format("02/01/2006"))},
		{"", ""},
		{"Pesquisas de satisfação", ""},
		{"Respostas", sum.SurveyCount},
		{"Média geral", fmt.Sprintf("%.1f", sum.SurveyAverage)},
		{"Conduta do motorista", fmt.Sprintf("%.1f", sum.Categories.DriverConduct)},
		{"Limpeza", fmt.Sprintf("%.1f", sum.Categories.Cleanliness)},
		{"Conservação do veículo", fmt.Sprintf("%.1f", sum.Categories.VehicleCondition)},
		{"Tempo de espera", fmt.Sprintf("%.1f", sum.Categories.WaitTime)},
		{"Cortesia", fmt.Sprintf("%.1f", sum.Categories.Courtesy)},
		{"", ""},
		{"Reclamações", ""},
		{"Total", sum.ComplaintCount},
		{"Resolvidas", sum.ComplaintResolved},
		{"Pendentes", sum.ComplaintPending},
		{"Percentual resolvidas", FormatPercent(sum.ResolvedPercent)},
	}

	sectionRows := map[int]bool{1: true, 4: true, 13: true}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		if sectionRows[i+1] {
			end, _ := excelize.CoordinatesToCellName(2, i+1)
			if err := f.SetCellStyle(sheetName, cell, end, headerStyle); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to style row %d: %w", i+1, err)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 24)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatPercent renders a percentage cell. Zero stays a plain "0%".
func FormatPercent(v float64) string {
	if v == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", v)
}
