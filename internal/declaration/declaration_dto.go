package declaration

import (
	"github.com/shopspring/decimal"
)

type SaveDeclarationRequest struct {
	EmployeeID    string `json:"employeeId" binding:"required,uuid"`
	FinancialYear string `json:"financialYear" binding:"required,financial_year"`
	TaxScheme     string `json:"taxScheme" binding:"required,oneof='Old Tax Scheme' 'New Tax Scheme'"`
	Version       *int   `json:"version"`

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

type SubmitDeclarationRequest struct {
	DeclarationID string `json:"declarationId" binding:"required,uuid"`
	EmployeeID    string `json:"employeeId" binding:"omitempty,uuid"`
}

type ReviewDeclarationRequest struct {
	DeclarationID string `json:"declarationId" binding:"required,uuid"`
	Remarks       string `json:"remarks"`
}

type ListDeclarationsRequest struct {
	EmployeeID    string `form:"employeeId" binding:"omitempty,uuid"`
	FinancialYear string `form:"financialYear" binding:"omitempty,financial_year"`
	Status        string `form:"status"`
	Search        string `form:"search"`
	Limit         int    `form:"limit" binding:"omitempty,min=1"`
	Cursor        string `form:"cursor"`
}

// UploadedFile is a document received from the client, already read into
// memory.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

type AttachmentResponse struct {
	ID          string `json:"id"`
	Section     string `json:"section"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Category    string `json:"category"`
	StorageURL  string `json:"storageUrl"`
	UploadedBy  string `json:"uploadedBy"`
	UploadedAt  string `json:"uploadedAt"`
}

// DocumentsResponse maps a section ledger name to its documents.
type DocumentsResponse map[string][]AttachmentResponse

type DeclarationResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	FinancialYear string  `json:"financialYear"`
	EmployeeName  string  `json:"employeeName"`
	EmployeeCode  string  `json:"employeeCode"`
	EmployeeEmail string  `json:"employeeEmail"`
	Department    string  `json:"department"`
	Designation   string  `json:"designation"`
	PAN           string  `json:"pan"`
	Gender        string  `json:"gender"`
	DateOfBirth   *string `json:"dateOfBirth"`
	DateOfJoining *string `json:"dateOfJoining"`
	TaxScheme     string  `json:"taxScheme"`
	Status        string  `json:"status"`
	Version       int     `json:"version"`

	Sections
	Section80CTotal decimal.Decimal `json:"section80CTotal"`

	SubmittedDate   *string `json:"submittedDate"`
	ApprovalDate    *string `json:"approvalDate"`
	ApprovalRemarks *string `json:"approvalRemarks"`
	ReviewedBy      *string `json:"reviewedBy"`
	Form12BBURL     *string `json:"form12bbUrl"`

	Documents DocumentsResponse `json:"documents,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type ListResult struct {
	Items      []DeclarationResponse
	Limit      int
	NextCursor string
}
