package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/flymidia/contracts-service/internal/format"
	"github.com/flymidia/contracts-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the contract list, ordered as given, into a single-sheet
// workbook matching the admin table layout.
func (g *Generator) Generate(contracts []model.Contract) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Contratos"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Empresa",
		"CPF",
		"Telefone",
		"Itens",
		"Valor",
		"Vencimento",
		"Cidade",
		"Local de divulgação",
		"Situação",
		"Responsável",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		set(cell, header)
	}

	for i, contract := range contracts {
		row := i + 2
		status := "Pendente"
		if contract.IsPaid {
			status = "Pago"
		}
		values := []interface{}{
			contract.CompanyName,
			contract.ClientTaxID,
			contract.Phone,
			itemsSummary(contract.Items),
			format.Currency(contract.TotalAmount),
			format.DateValue(contract.DueDate),
			contract.City,
			contract.DisplayLocation,
			status,
			contract.ResponsibleAdmin,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 30)
	_ = file.SetColWidth(sheet, "B", "C", 18)
	_ = file.SetColWidth(sheet, "D", "D", 40)
	_ = file.SetColWidth(sheet, "E", "F", 16)
	_ = file.SetColWidth(sheet, "G", "H", 24)
	_ = file.SetColWidth(sheet, "I", "J", 14)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// itemsSummary matches the table rendering: "Banner (x2), Vídeo GIF (x1)".
func itemsSummary(items []model.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (x%d)", item.Name, item.Quantity))
	}
	return strings.Join(parts, ", ")
}
