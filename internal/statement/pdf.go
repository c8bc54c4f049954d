package statement

import (
	"fmt"
	"io"
	"time"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/money"
	"github.com/go-pdf/fpdf"
)

type PDFOptions struct {
	BankName string
	Currency string
	Location *time.Location
	// GeneratedAt is printed in the footer and stored as the document date.
	GeneratedAt time.Time
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 28, "L"},
	{"Opération", 34, "L"},
	{"Contrepartie", 32, "L"},
	{"Description", 36, "L"},
	{"Montant", 30, "R"},
	{"Solde", 30, "R"},
}

// RenderPDF writes the statement as an A4 document.
func RenderPDF(w io.Writer, st Statement, opts PDFOptions) error {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.BankName == "" {
		opts.BankName = "EGA Bank"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Relevé %s", st.AccountNumber), true)
	pdf.SetCreator(opts.BankName, true)
	pdf.SetCreationDate(opts.GeneratedAt)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		footer := fmt.Sprintf("Généré le %s - page %d/{nb}",
			opts.GeneratedAt.In(opts.Location).Format(constants.DisplayDateFormat+" 15:04"), pdf.PageNo())
		pdf.CellFormat(0, 10, tr(footer), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(opts.BankName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Relevé de compte"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	info := [][2]string{
		{"Titulaire", st.Holder},
		{"Numéro de compte", st.AccountNumber},
		{"Type de compte", st.AccountType.Label()},
		{"Période", fmt.Sprintf("du %s au %s",
			st.Period.FirstDay().Format(constants.DisplayDateFormat),
			st.Period.LastDay().Format(constants.DisplayDateFormat))},
	}
	for _, row := range info {
		pdf.CellFormat(45, 6, tr(row[0]+" :"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	amount := func(v int64) string { return money.FormatWithCurrency(v, opts.Currency) }

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 240, 248)
	summary := [][2]string{
		{"Solde initial", amount(st.Opening)},
		{"Total crédits", amount(st.TotalCredits)},
		{"Total débits", amount(st.TotalDebits)},
		{"Solde final", amount(st.Closing)},
		{"Nombre d'opérations", fmt.Sprint(st.Count())},
	}
	for _, row := range summary {
		pdf.CellFormat(60, 7, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 7, tr(row[1]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFillColor(40, 70, 120)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, tr(c.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 8)
	if len(st.Entries) == 0 {
		pdf.CellFormat(190, 7, tr("Aucune opération sur la période"), "1", 1, "C", false, 0, "")
	}
	for i, e := range st.Entries {
		fill := i%2 == 1
		pdf.SetFillColor(246, 246, 246)
		cells := []string{
			e.Date.In(opts.Location).Format(constants.DisplayDateFormat + " 15:04"),
			e.Label,
			e.Counterparty,
			truncate(e.Description, 22),
			money.FormatSigned(e.Amount),
			money.Format(e.Balance),
		}
		for j, c := range columns {
			pdf.CellFormat(c.width, 6, tr(cells[j]), "1", 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render statement: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write statement: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
