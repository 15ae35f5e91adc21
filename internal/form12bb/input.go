package form12bb

import (
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	Label  string
	Amount decimal.Decimal
}

type HRA struct {
	Applicable     bool
	RentPaid       decimal.Decimal
	Months         int
	LandlordPAN    string
	HasRentReceipt bool
}

type LTA struct {
	Applicable            bool
	ProposedTravel        string
	Claims                []LineItem
	WillingToProduceBills bool
}

type HousingLoan struct {
	Type         string
	Amount       decimal.Decimal
	RentalIncome decimal.Decimal
	MaxLimit     string
}

type MedicalInsurance struct {
	SelfSpouseChildren decimal.Decimal
	SelfSenior         bool
	Parents            decimal.Decimal
	ParentsSenior      bool
	PreventiveCheckup  decimal.Decimal
}

type PreviousEmployment struct {
	IncomeAfterExemptions decimal.Decimal
	ProvidentFund         decimal.Decimal
	ProfessionalTax       decimal.Decimal
	TDS                   decimal.Decimal
}

// Input is everything printed on the statement. Amounts for sections the
// employee did not opt into are expected to be zero.
type Input struct {
	EmployeeName  string
	EmployeeCode  string
	Designation   string
	Department    string
	PAN           string
	FinancialYear string
	TaxScheme     string
	DateOfJoining *time.Time

	HRA          HRA
	LTA          LTA
	HousingLoans []HousingLoan

	Section80C      []LineItem
	Section80CTotal decimal.Decimal
	Section80CCC    decimal.Decimal
	Section80CCD1   decimal.Decimal
	Section80CCD1B  decimal.Decimal
	Section80D      MedicalInsurance
	Section80E      decimal.Decimal
	Section80TTA    decimal.Decimal
	Other           LineItem

	PreviousEmployment PreviousEmployment
	OtherIncome        []LineItem

	AgreementText string
	Signature     string
	DeclaredDate  *time.Time
	GeneratedAt   time.Time
}
