package declaration

import (
	"time"

	declarationerrors "go-hrportal/internal/declaration/errors"

	"github.com/shopspring/decimal"
)

// Section80CLimit caps the combined 80C, 80CCC and 80CCD(1) claim.
var Section80CLimit = decimal.NewFromInt(150000)

type HousingLoanType string

const (
	LoanPre1999SelfOccupied  HousingLoanType = "Pre-1999 Self-Occupied"
	LoanPost1999SelfOccupied HousingLoanType = "Post-1999 Self-Occupied"
	LoanLetOut               HousingLoanType = "Let-out Property"
)

// HousingLoanMaxLimit is advisory text shown next to a loan; the claimed
// interest is never clamped to it.
func HousingLoanMaxLimit(t HousingLoanType) string {
	switch t {
	case LoanPre1999SelfOccupied:
		return "Rs. 30,000/-"
	case LoanPost1999SelfOccupied:
		return "Rs. 2,00,000/-"
	case LoanLetOut:
		return "Actual Interest"
	}
	return ""
}

func (t HousingLoanType) Valid() bool {
	return HousingLoanMaxLimit(t) != ""
}

type Claim struct {
	IsApplicable bool            `json:"isApplicable"`
	Amount       decimal.Decimal `json:"amount"`
}

// Effective is the amount that counts toward totals.
func (c Claim) Effective() decimal.Decimal {
	if !c.IsApplicable {
		return decimal.Zero
	}
	return c.Amount
}

type MedicalClaim struct {
	IsApplicable    bool            `json:"isApplicable"`
	Amount          decimal.Decimal `json:"amount"`
	IsSeniorCitizen bool            `json:"isSeniorCitizen"`
}

type HouseRentAllowance struct {
	IsApplicable   bool            `json:"isApplicable"`
	RentPaid       decimal.Decimal `json:"rentPaid"`
	Months         int             `json:"months"`
	LandlordPAN    string          `json:"landlordPan"`
	HasRentReceipt bool            `json:"hasRentReceipt"`
}

type LTAClaim struct {
	Year   string          `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

type LeaveTravelAllowance struct {
	IsApplicable          bool       `json:"isApplicable"`
	ProposedTravel        string     `json:"proposedTravel"`
	Claims                []LTAClaim `json:"claims"`
	WillingToProduceBills bool       `json:"willingToProduceBills"`
}

type HousingLoan struct {
	Type         HousingLoanType  `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	RentalIncome *decimal.Decimal `json:"rentalIncome,omitempty"`
	MaxLimit     string           `json:"maxLimit"`
}

type Section80CItem struct {
	ItemName string          `json:"itemName"`
	Amount   decimal.Decimal `json:"amount"`
}

type Section80D struct {
	SelfSpouseChildren MedicalClaim `json:"selfSpouseChildren"`
	Parents            MedicalClaim `json:"parents"`
	PreventiveCheckup  Claim        `json:"preventiveCheckup"`
}

type OtherDeduction struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type PreviousEmploymentIncome struct {
	IncomeAfterExemptions decimal.Decimal `json:"incomeAfterExemptions"`
	ProvidentFund         decimal.Decimal `json:"providentFund"`
	ProfessionalTax       decimal.Decimal `json:"professionalTax"`
	TDS                   decimal.Decimal `json:"tds"`
}

type IncomeSource struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type Attestation struct {
	IsAgreed          bool       `json:"isAgreed"`
	AgreementText     string     `json:"agreementText"`
	DeclaredDate      *time.Time `json:"declaredDate,omitempty"`
	EmployeeSignature string     `json:"employeeSignature"`
}

// Sections is the nested body of a declaration, stored as one JSONB column.
// Mutate it through the setters so derived values stay consistent.
type Sections struct {
	HouseRentAllowance   HouseRentAllowance       `json:"houseRentAllowance"`
	LeaveTravelAllowance LeaveTravelAllowance     `json:"leaveTravelAllowance"`
	HousingLoans         []HousingLoan            `json:"housingLoanDeductions"`
	Section80C           []Section80CItem         `json:"section80CDeductions"`
	Section80CCC         Claim                    `json:"section80CCDeduction"`
	Section80CCD1        Claim                    `json:"section80CCD1Deduction"`
	Section80CCD1B       Claim                    `json:"section80CCD1BDeduction"`
	Section80D           Section80D               `json:"section80DDeductions"`
	Section80E           Claim                    `json:"section80EDeduction"`
	Section80TTA         Claim                    `json:"section80TTADeduction"`
	OtherDeductions      OtherDeduction           `json:"otherDeductions"`
	PreviousEmployment   PreviousEmploymentIncome `json:"previousEmploymentIncome"`
	OtherIncome          []IncomeSource           `json:"incomeFromOtherSources"`
	Declaration          Attestation              `json:"declaration"`
}

func (s *Sections) SetHRA(v HouseRentAllowance) {
	s.HouseRentAllowance = v
}

func (s *Sections) SetLTA(v LeaveTravelAllowance) {
	s.LeaveTravelAllowance = v
}

func (s *Sections) SetHousingLoans(loans []HousingLoan) {
	s.HousingLoans = append([]HousingLoan(nil), loans...)
	s.recompute()
}

func (s *Sections) SetSection80C(items []Section80CItem) {
	s.Section80C = append([]Section80CItem(nil), items...)
}

func (s *Sections) SetSection80CCC(v Claim) {
	s.Section80CCC = v
}

func (s *Sections) SetSection80CCD1(v Claim) {
	s.Section80CCD1 = v
}

func (s *Sections) SetSection80CCD1B(v Claim) {
	s.Section80CCD1B = v
}

func (s *Sections) SetSection80D(v Section80D) {
	s.Section80D = v
}

func (s *Sections) SetSection80E(v Claim) {
	s.Section80E = v
}

func (s *Sections) SetSection80TTA(v Claim) {
	s.Section80TTA = v
}

func (s *Sections) SetOtherDeductions(v OtherDeduction) {
	s.OtherDeductions = v
}

func (s *Sections) SetPreviousEmployment(v PreviousEmploymentIncome) {
	s.PreviousEmployment = v
}

func (s *Sections) SetOtherIncome(items []IncomeSource) {
	s.OtherIncome = append([]IncomeSource(nil), items...)
}

// SetDeclaration stores the attestation with the server-owned agreement text.
func (s *Sections) SetDeclaration(v Attestation) {
	v.AgreementText = AgreementText
	s.Declaration = v
}

// Section80CTotal is the capped sum of the 80C items and the 80CCC and
// 80CCD(1) amounts. The applicable flag of 80CCC and 80CCD(1) does not gate
// the sum. 80CCD(1B) is a separate allowance and never counts here.
func (s Sections) Section80CTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Section80C {
		total = total.Add(item.Amount)
	}
	total = total.Add(s.Section80CCC.Amount).Add(s.Section80CCD1.Amount)
	return decimal.Min(total, Section80CLimit)
}

func (s *Sections) recompute() {
	for i := range s.HousingLoans {
		s.HousingLoans[i].MaxLimit = HousingLoanMaxLimit(s.HousingLoans[i].Type)
	}
}

// Validate rejects unknown loan types and negative amounts.
func (s Sections) Validate() error {
	for _, l := range s.HousingLoans {
		if !l.Type.Valid() {
			return declarationerrors.ErrInvalidHousingLoanType
		}
		if l.Amount.IsNegative() || (l.RentalIncome != nil && l.RentalIncome.IsNegative()) {
			return declarationerrors.ErrNegativeAmount
		}
	}

	amounts := []decimal.Decimal{
		s.HouseRentAllowance.RentPaid,
		s.Section80CCC.Amount,
		s.Section80CCD1.Amount,
		s.Section80CCD1B.Amount,
		s.Section80D.SelfSpouseChildren.Amount,
		s.Section80D.Parents.Amount,
		s.Section80D.PreventiveCheckup.Amount,
		s.Section80E.Amount,
		s.Section80TTA.Amount,
		s.OtherDeductions.Amount,
		s.PreviousEmployment.IncomeAfterExemptions,
		s.PreviousEmployment.ProvidentFund,
		s.PreviousEmployment.ProfessionalTax,
		s.PreviousEmployment.TDS,
	}
	for _, c := range s.LeaveTravelAllowance.Claims {
		amounts = append(amounts, c.Amount)
	}
	for _, item := range s.Section80C {
		amounts = append(amounts, item.Amount)
	}
	for _, item := range s.OtherIncome {
		amounts = append(amounts, item.Amount)
	}
	for _, a := range amounts {
		if a.IsNegative() {
			return declarationerrors.ErrNegativeAmount
		}
	}
	if s.HouseRentAllowance.Months < 0 || s.HouseRentAllowance.Months > 12 {
		return declarationerrors.ErrInvalidRentMonths
	}
	return nil
}
