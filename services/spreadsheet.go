package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"litigation_dashboard_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrInvalidSpreadsheet is returned when no sheet carries the required decision columns
var ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")

const decisionSheetName = "Decisoes"

// decisionColumns lists the template headers in order. The first alias is the canonical header.
var decisionColumns = []struct {
	field    string
	required bool
	aliases  []string
}{
	{"dataDecisao", false, []string{"dataDecisao", "data", "data da decisao", "data do julgamento", "julgamento"}},
	{"numeroProcesso", true, []string{"numeroProcesso", "processo", "numero do processo", "n processo", "n do processo", "cnj"}},
	{"local", false, []string{"local", "tribunal", "trt", "regiao"}},
	{"turma", true, []string{"turma", "vara", "orgao julgador", "camara"}},
	{"relator", true, []string{"relator", "relatora", "desembargador", "desembargadora", "juiz", "juiza", "magistrado"}},
	{"resultado", false, []string{"resultado", "decisao", "desfecho"}},
	{"responsabilidade", false, []string{"responsabilidade", "tipo de responsabilidade"}},
	{"upi", false, []string{"upi", "tese upi"}},
	{"empresa", false, []string{"empresa", "reclamada", "cliente"}},
	{"instancia", false, []string{"instancia", "grau"}},
}

// headerKey compacts a header to ASCII letters and digits, so "Nº do Processo" becomes "ndoprocesso"
func headerKey(s string) string {
	var b strings.Builder
	for _, r := range FoldName(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var headerIndex = func() map[string]string {
	idx := make(map[string]string)
	for _, col := range decisionColumns {
		for _, alias := range col.aliases {
			idx[headerKey(alias)] = col.field
		}
	}
	return idx
}()

// ReadDecisionRows reads decision rows from an xlsx file. The "Decisoes" sheet is used
// when present, otherwise the first sheet whose header row names the required columns.
// Cells are read raw so date cells arrive as Excel serial numbers.
func ReadDecisionRows(file io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for i, name := range sheets {
		if name == decisionSheetName && i != 0 {
			sheets[0], sheets[i] = sheets[i], sheets[0]
			break
		}
	}

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		columns, ok := mapHeader(rows[0])
		if !ok {
			continue
		}
		return rowsFromSheet(rows[1:], columns), nil
	}
	return nil, fmt.Errorf("%w: no sheet with columns turma, relator and numeroProcesso", ErrInvalidSpreadsheet)
}

// mapHeader maps each known field to its column index and reports whether the required ones are present
func mapHeader(header []string) (map[string]int, bool) {
	columns := make(map[string]int)
	for i, cell := range header {
		field, ok := headerIndex[headerKey(strings.TrimSuffix(strings.TrimSpace(cell), "*"))]
		if !ok {
			continue
		}
		if _, seen := columns[field]; !seen {
			columns[field] = i
		}
	}
	for _, col := range decisionColumns {
		if _, ok := columns[col.field]; col.required && !ok {
			return nil, false
		}
	}
	return columns, true
}

func rowsFromSheet(rows [][]string, columns map[string]int) []RawRow {
	out := make([]RawRow, 0, len(rows))
	for _, row := range rows {
		cell := func(field string) string {
			i, ok := columns[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		r := RawRow{
			DecisionDate:  cell("dataDecisao"),
			ProcessNumber: cell("numeroProcesso"),
			Location:      cell("local"),
			Division:      cell("turma"),
			Adjudicator:   cell("relator"),
			Outcome:       cell("resultado"),
			Liability:     cell("responsabilidade"),
			UPI:           cell("upi"),
			Company:       cell("empresa"),
			Instance:      cell("instancia"),
		}
		if r == (RawRow{}) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GenerateDecisionTemplate generates the Excel template for decision import.
// The instructions sheet lists the courts of the scope so users know the accepted "local" values.
func GenerateDecisionTemplate(ctx context.Context, dbConn *gorm.DB, scope Scope) (*bytes.Buffer, error) {
	query, err := scopedCourts(dbConn.WithContext(ctx), scope)
	if err != nil {
		return nil, err
	}
	var courts []models.Court
	if err := query.Order("courts.name ASC").Find(&courts).Error; err != nil {
		return nil, fmt.Errorf("failed to load courts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// --- Instructions Sheet ---
	sheetInstructions := "Instrucoes"
	f.SetSheetName("Sheet1", sheetInstructions)

	lines := []string{
		"Importacao de decisoes",
		"",
		"- Preencha uma linha por processo na aba " + decisionSheetName + ".",
		"- Colunas marcadas com * sao obrigatorias.",
		"- Um processo ja importado e atualizado pelo numero do processo.",
		"- resultado: favoravel, desfavoravel, parcialmente favoravel ou em analise.",
		"- responsabilidade: solidaria ou subsidiaria (padrao subsidiaria).",
		"- upi: sim ou nao.",
		"- instancia: " + models.InstanceFirst + " ou " + models.InstanceSecond + " (atual: " + scope.Instance + ").",
		"",
		"Tribunais cadastrados (coluna local):",
	}
	for i, line := range lines {
		f.SetCellValue(sheetInstructions, fmt.Sprintf("A%d", i+1), line)
	}
	row := len(lines) + 1
	for _, court := range courts {
		label := court.Name
		if court.RegionCode != "" {
			label = fmt.Sprintf("%s (regiao %s)", court.Name, court.RegionCode)
		}
		f.SetCellValue(sheetInstructions, fmt.Sprintf("A%d", row), "- "+label)
		row++
	}

	mainTitleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	f.SetCellStyle(sheetInstructions, "A1", "A1", mainTitleStyle)
	f.SetColWidth(sheetInstructions, "A", "A", 80)

	// --- Decisions Sheet ---
	f.NewSheet(decisionSheetName)
	for i, col := range decisionColumns {
		header := col.aliases[0]
		if col.required {
			header += "*"
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(decisionSheetName, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(decisionColumns))
	f.SetColWidth(decisionSheetName, "A", lastCol, 22)

	exampleLocal := "TRT 1"
	if len(courts) > 0 {
		exampleLocal = courts[0].Name
	}
	example := []interface{}{
		"2024-03-15",
		"0001234-56.2024.5.01.0001",
		exampleLocal,
		"1a Turma",
		"Des. Maria Souza",
		"Favoravel",
		"Subsidiaria",
		"Nao",
		"",
		scope.Instance,
	}
	for i, v := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(decisionSheetName, cell, v)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(decisionSheetName, "A1", lastCol+"1", headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}
