package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/flymidia/contracts-service/internal/format"
	"github.com/flymidia/contracts-service/internal/model"
)

// Generator renders a one-page contract statement. Portuguese fits latin-1,
// so the core fonts plus the cp1252 translator are enough.
type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(contract model.Contract) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Contrato de Divulgação"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Empresa: %s", contract.CompanyName)), "", 1, "C", false, 0, "")
	if contract.ClientTaxID != "" {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("CPF: %s", contract.ClientTaxID)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Dados do contrato"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Cidade: %s", safeValue(contract.City)),
		fmt.Sprintf("Local de divulgação: %s", safeValue(contract.DisplayLocation)),
		fmt.Sprintf("Telefone: %s", safeValue(contract.Phone)),
		fmt.Sprintf("Vencimento: %s", safeValue(format.DateValue(contract.DueDate))),
		fmt.Sprintf("Responsável: %s", safeValue(contract.ResponsibleAdmin)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Itens contratados"), "", 1, "L", false, 0, "")

	headers := []string{"Item", "Qtd.", "Valor unitário", "Subtotal"}
	colWidths := []float64{90, 20, 35, 35}
	drawTableRow(pdf, g.fontName, tr, headers, colWidths, true)

	for _, item := range contract.Items {
		row := []string{
			item.Name,
			fmt.Sprintf("%d", item.Quantity),
			format.Currency(item.UnitPrice),
			format.Currency(item.Subtotal),
		}
		drawTableRow(pdf, g.fontName, tr, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Valor total: %s", format.Currency(contract.TotalAmount))), "", 1, "R", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	status := "Pendente"
	if contract.IsPaid {
		status = "Pago"
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Situação: %s", status)), "", 1, "R", false, 0, "")

	if contract.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, tr("Observações"), "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, tr(contract.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}
