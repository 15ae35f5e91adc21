// Package form12bb renders the Form No. 12BB statement of an employee's
// investment declaration as a PDF document.
package form12bb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	fontFamily = "Times"
	rowH       = 5.0
	noClaims   = "No claims filed under Section 80C"
	noIncome   = "No other income declared"
	noLoans    = "No housing loan interest claimed"
)

type slabRow struct {
	bracket string
	newRate string
	oldRate string
}

// Reference slabs for FY 2025-26, printed as is on every statement.
var slabs = []slabRow{
	{"Up to Rs. 2,50,000", "NIL", "NIL"},
	{"Rs. 2,50,001 - Rs. 5,00,000", "NIL (Up to 7L)", "5%"},
	{"Rs. 5,00,001 - Rs. 7,50,000", "5%", "20%"},
	{"Rs. 7,50,001 - Rs. 10,00,000", "10%", "20%"},
	{"Rs. 10,00,001 - Rs. 12,00,000", "15%", "30%"},
	{"Above Rs. 15,00,000", "30%", "30%"},
}

// Render builds the Form 12BB PDF for in. Employee name and financial year
// are mandatory; nothing is rendered without them.
func Render(in Input) ([]byte, error) {
	return render(in, true)
}

func render(in Input, compress bool) ([]byte, error) {
	if strings.TrimSpace(in.EmployeeName) == "" {
		return nil, ErrMissingEmployeeName
	}
	if strings.TrimSpace(in.FinancialYear) == "" {
		return nil, ErrMissingFinancialYear
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 14)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle("Form 12BB "+in.FinancialYear, true)
	pdf.SetAuthor(in.EmployeeName, true)

	// core fonts are cp1252; names and labels arrive as UTF-8
	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		w.cell(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false)
	})

	pdf.AddPage()
	w.header(in)
	w.identity(in)
	w.hra(in.HRA)
	w.lta(in.LTA)
	w.housingLoans(in.HousingLoans)
	w.chapterVIA(in)
	w.otherIncome(in)
	w.declaration(in)

	pdf.AddPage()
	w.slabTable()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("form12bb: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) cell(width, height float64, text, border string, ln int, align string, fill bool) {
	w.pdf.CellFormat(width, height, w.tr(text), border, ln, align, fill, 0, "")
}

func (w *writer) multi(width, height float64, text, border, align string, fill bool) {
	w.pdf.MultiCell(width, height, w.tr(text), border, align, fill)
}

func (w *writer) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

func (w *writer) header(in Input) {
	p := w.pdf
	cw := w.contentWidth()

	p.SetFont(fontFamily, "B", 16)
	w.cell(cw, 7, "FORM NO. 12BB", "", 1, "C", false)
	p.SetFont(fontFamily, "", 10)
	w.cell(cw, 4, "(See rule 26C)", "", 1, "C", false)
	p.SetFont(fontFamily, "BU", 11)
	w.multi(cw, 5, "Statement showing particulars of claims by an employee for deduction of tax under section 192", "", "C", false)
	p.SetFont(fontFamily, "B", 11)
	w.cell(cw, 6, "FINANCIAL YEAR: "+in.FinancialYear, "B", 1, "C", false)
	p.Ln(2)
}

func (w *writer) identity(in Input) {
	p := w.pdf
	col := w.contentWidth() / 4

	rows := [][4]string{
		{"Name of Employee", in.EmployeeName, "Employee Code", in.EmployeeCode},
		{"Designation", in.Designation, "Department", in.Department},
		{"PAN of Employee", in.PAN, "Date of Joining", FormatDate(in.DateOfJoining)},
		{"Tax Scheme", orDefault(in.TaxScheme, "N/A"), "Financial Year", in.FinancialYear},
	}
	for _, r := range rows {
		p.SetFont(fontFamily, "B", 9)
		w.cell(col, rowH, r[0], "1", 0, "L", false)
		p.SetFont(fontFamily, "", 9)
		w.cell(col, rowH, r[1], "1", 0, "L", false)
		p.SetFont(fontFamily, "B", 9)
		w.cell(col, rowH, r[2], "1", 0, "L", false)
		p.SetFont(fontFamily, "", 9)
		w.cell(col, rowH, r[3], "1", 1, "L", false)
	}
	p.Ln(2)
}

func (w *writer) heading(title string) {
	w.pdf.SetFont(fontFamily, "B", 10)
	w.cell(w.contentWidth(), 6, title, "", 1, "L", false)
}

// tableHead prints a shaded label/amount header row.
func (w *writer) tableHead(label, amount string) {
	p := w.pdf
	cw := w.contentWidth()
	p.SetFillColor(230, 230, 230)
	p.SetFont(fontFamily, "B", 9)
	w.cell(cw*0.6, rowH, label, "1", 0, "L", true)
	w.cell(cw*0.4, rowH, amount, "1", 1, "R", true)
}

func (w *writer) amountRow(label string, amount decimal.Decimal) {
	p := w.pdf
	cw := w.contentWidth()
	p.SetFont(fontFamily, "", 9)
	w.cell(cw*0.6, rowH, label, "1", 0, "L", false)
	w.cell(cw*0.4, rowH, FormatINR(amount), "1", 1, "R", false)
}

func (w *writer) placeholderRow(text string) {
	w.pdf.SetFont(fontFamily, "I", 9)
	w.cell(w.contentWidth(), rowH, text, "1", 1, "C", false)
}

func (w *writer) hra(h HRA) {
	p := w.pdf
	cw := w.contentWidth()

	w.heading("1. HOUSE RENT ALLOWANCE (Section 10(13A))")
	p.SetFont(fontFamily, "B", 9)
	w.cell(cw*0.4, rowH, "Rent Paid to the Landlord", "1", 0, "L", false)
	w.cell(cw*0.2, rowH, "Rs. "+FormatINR(h.RentPaid), "1", 0, "R", false)
	w.cell(cw*0.4, rowH, "Landlord's PAN: "+orDefault(h.LandlordPAN, "N/A"), "1", 1, "L", false)

	receipt := "No"
	if h.HasRentReceipt {
		receipt = "Yes"
	}
	p.SetFont(fontFamily, "", 9)
	w.cell(cw*0.6, rowH, fmt.Sprintf("Months of rent paid: %d", h.Months), "1", 0, "L", false)
	w.cell(cw*0.4, rowH, "Rent receipts available: "+receipt, "1", 1, "L", false)
	p.Ln(2)
}

func (w *writer) lta(l LTA) {
	p := w.pdf
	cw := w.contentWidth()

	w.heading("2. LEAVE TRAVEL CONCESSION OR ASSISTANCE (Section 10(5))")
	if len(l.Claims) == 0 {
		w.placeholderRow("No leave travel claims declared")
	} else {
		col := cw / float64(len(l.Claims))
		p.SetFillColor(230, 230, 230)
		p.SetFont(fontFamily, "B", 9)
		for i, c := range l.Claims {
			ln := 0
			if i == len(l.Claims)-1 {
				ln = 1
			}
			w.cell(col, rowH, "Claim for "+c.Label, "1", ln, "C", true)
		}
		p.SetFont(fontFamily, "", 9)
		for i, c := range l.Claims {
			ln := 0
			if i == len(l.Claims)-1 {
				ln = 1
			}
			w.cell(col, rowH, "Rs. "+FormatINR(c.Amount), "1", ln, "C", false)
		}
	}
	if l.ProposedTravel != "" {
		p.SetFont(fontFamily, "", 9)
		w.multi(cw, rowH, "Proposed travel: "+l.ProposedTravel, "1", "L", false)
	}
	p.Ln(2)
}

func (w *writer) housingLoans(loans []HousingLoan) {
	p := w.pdf
	cw := w.contentWidth()

	w.heading("3. DEDUCTION OF INTEREST ON BORROWING (Section 24)")
	p.SetFillColor(230, 230, 230)
	p.SetFont(fontFamily, "B", 9)
	w.cell(cw*0.35, rowH, "Type of Property", "1", 0, "L", true)
	w.cell(cw*0.2, rowH, "Interest (Rs.)", "1", 0, "R", true)
	w.cell(cw*0.2, rowH, "Rental Income (Rs.)", "1", 0, "R", true)
	w.cell(cw*0.25, rowH, "Maximum Limit", "1", 1, "C", true)

	if len(loans) == 0 {
		w.placeholderRow(noLoans)
	}
	p.SetFont(fontFamily, "", 9)
	for _, l := range loans {
		w.cell(cw*0.35, rowH, l.Type, "1", 0, "L", false)
		w.cell(cw*0.2, rowH, FormatINR(l.Amount), "1", 0, "R", false)
		w.cell(cw*0.2, rowH, FormatINR(l.RentalIncome), "1", 0, "R", false)
		w.cell(cw*0.25, rowH, l.MaxLimit, "1", 1, "C", false)
	}
	p.Ln(2)
}

func (w *writer) chapterVIA(in Input) {
	w.heading("4. DEDUCTIONS UNDER CHAPTER VI-A")

	w.tableHead("Nature of Claim (Section 80C)", "Amount (Rs.)")
	if len(in.Section80C) == 0 {
		w.placeholderRow(noClaims)
	}
	for _, item := range in.Section80C {
		w.amountRow(item.Label, item.Amount)
	}
	w.amountRow("Contribution to Pension Funds (Section 80CCC)", in.Section80CCC)
	w.amountRow("Pension Scheme of Central Govt (Section 80CCD(1))", in.Section80CCD1)
	w.pdf.SetFont(fontFamily, "B", 9)
	cw := w.contentWidth()
	w.cell(cw*0.6, rowH, "Total eligible under Section 80C (max Rs. 1,50,000)", "1", 0, "L", false)
	w.cell(cw*0.4, rowH, FormatINR(in.Section80CTotal), "1", 1, "R", false)
	w.amountRow("Additional NPS Contribution (Section 80CCD(1B))", in.Section80CCD1B)

	w.tableHead("Health Insurance Premium (Section 80D)", "Amount (Rs.)")
	w.amountRow("Self, Spouse & Children"+seniorSuffix(in.Section80D.SelfSenior), in.Section80D.SelfSpouseChildren)
	w.amountRow("Parents"+seniorSuffix(in.Section80D.ParentsSenior), in.Section80D.Parents)
	w.amountRow("Preventive Health Check-up", in.Section80D.PreventiveCheckup)

	w.tableHead("Other Deductions", "Amount (Rs.)")
	w.amountRow("Interest on Education Loan (Section 80E)", in.Section80E)
	w.amountRow("Interest on Savings Account (Section 80TTA)", in.Section80TTA)
	w.amountRow("Others: "+orDefault(in.Other.Label, "-"), in.Other.Amount)
	w.pdf.Ln(2)
}

func seniorSuffix(senior bool) string {
	if senior {
		return " (Senior Citizen)"
	}
	return ""
}

func (w *writer) otherIncome(in Input) {
	w.heading("5. INCOME FROM PREVIOUS EMPLOYMENT & OTHER SOURCES")

	prev := in.PreviousEmployment
	w.amountRow("Income from Previous Employment (after exemptions)", prev.IncomeAfterExemptions)
	w.amountRow("Provident Fund deducted by Previous Employer", prev.ProvidentFund)
	w.amountRow("Professional Tax deducted by Previous Employer", prev.ProfessionalTax)
	w.amountRow("TDS Deducted by Previous Employer", prev.TDS)

	w.tableHead("Income from Other Sources", "Amount (Rs.)")
	if len(in.OtherIncome) == 0 {
		w.placeholderRow(noIncome)
	}
	for _, item := range in.OtherIncome {
		w.amountRow(item.Label, item.Amount)
	}
	w.pdf.Ln(2)
}

func (w *writer) declaration(in Input) {
	p := w.pdf
	cw := w.contentWidth()

	p.SetFont(fontFamily, "B", 10)
	w.cell(cw, 5, "DECLARATION:", "", 1, "L", false)
	p.SetFont(fontFamily, "", 9)
	text := in.AgreementText
	if text == "" {
		text = "do hereby declare that what is stated above is true to the best of my knowledge and belief."
	}
	w.multi(cw, 5, fmt.Sprintf("I, %s, %s", in.EmployeeName, text), "", "J", false)
	p.Ln(4)

	date := in.DeclaredDate
	if date == nil && !in.GeneratedAt.IsZero() {
		date = &in.GeneratedAt
	}
	signature := orDefault(in.Signature, "______________________________")

	w.cell(cw/2, 5, "Place: __________________", "", 0, "L", false)
	p.SetFont(fontFamily, "B", 9)
	w.cell(cw/2, 5, signature, "", 1, "R", false)
	p.SetFont(fontFamily, "", 9)
	w.cell(cw/2, 5, "Date: "+FormatDate(date), "", 0, "L", false)
	w.cell(cw/2, 5, "Signature of the Employee", "", 1, "R", false)
}

func (w *writer) slabTable() {
	p := w.pdf
	cw := w.contentWidth()
	left, _, _, _ := p.GetMargins()

	cols := []float64{cw * 0.3, cw * 0.17, cw * 0.17, cw * 0.16, cw * 0.2}

	p.SetFont(fontFamily, "B", 10)
	w.cell(cw, 7, "FOR REFERENCE: TAX SLABS FOR FY 2025-26", "", 1, "C", false)

	p.SetFillColor(230, 230, 230)
	p.SetFont(fontFamily, "B", 8)
	heads := []string{"Income Bracket", "New Tax Scheme", "Old Tax Scheme", "Surcharge", "Health & Education Cess"}
	for i, h := range heads {
		ln := 0
		if i == len(heads)-1 {
			ln = 1
		}
		w.cell(cols[i], rowH, h, "1", ln, "C", true)
	}

	top := p.GetY()
	p.SetFont(fontFamily, "", 8)
	for _, s := range slabs {
		p.SetX(left)
		w.cell(cols[0], rowH, s.bracket, "1", 0, "C", false)
		w.cell(cols[1], rowH, s.newRate, "1", 0, "C", false)
		w.cell(cols[2], rowH, s.oldRate, "1", 1, "C", false)
	}

	// surcharge and cess span every slab row
	spanH := rowH * float64(len(slabs))
	p.SetXY(left+cols[0]+cols[1]+cols[2], top)
	w.cell(cols[3], spanH, "As applicable", "1", 0, "C", false)
	w.cell(cols[4], spanH, "4% on Tax+Surcharge", "1", 1, "C", false)

	p.Ln(3)
	p.SetFont(fontFamily, "I", 7)
	w.multi(cw, 4, "* Standard Deduction of Rs. 50,000 (Old) / Rs. 75,000 (New) is applicable for salaried individuals.", "", "L", false)
}
