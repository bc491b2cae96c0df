package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SummaryPDF renders the administrative summary as a one-page PDF.
func SummaryPDF(municipality string, sum Summary, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Relatório Geral")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, municipality)
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Gerado em %s", generatedAt.Format("02/01/2006 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Funcionários ativos: %d", sum.Employees),
		fmt.Sprintf("Férias pendentes: %d", sum.PendingVacations),
		fmt.Sprintf("Contribuintes ativos: %d", sum.ActiveTaxpayers),
		fmt.Sprintf("Guias em aberto: %d", sum.OpenInvoices),
		fmt.Sprintf("Guias vencidas: %d", sum.OverdueInvoices),
		fmt.Sprintf("Processos licitatórios em andamento: %d", sum.OpenProcesses),
		fmt.Sprintf("Obras em execução: %d", sum.ActiveProjects),
		fmt.Sprintf("Valor lançado: R$ %.2f", sum.RevenueBilled),
		fmt.Sprintf("Valor arrecadado: R$ %.2f", sum.RevenueCollected),
		fmt.Sprintf("Índice de arrecadação: %.1f%%", CollectionRate(sum.RevenueBilled, sum.RevenueCollected)),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PayslipPDF renders a single payslip.
func PayslipPDF(municipality, employee, reference string, gross, deductions, net float64) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Contracheque")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, municipality)
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Funcionário: %s", employee))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Referência: %s", reference))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Proventos: R$ %.2f", gross))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Descontos: R$ %.2f", deductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Líquido: R$ %.2f", net))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
