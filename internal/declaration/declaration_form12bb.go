package declaration

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	declarationerrors "go-hrportal/internal/declaration/errors"
	"go-hrportal/internal/form12bb"
	"go-hrportal/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *service) RenderForm12BB(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", declarationerrors.ErrInvalidDeclarationID
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", mapFindError(err)
	}
	if err := authorize(OpRead, actor, d.EmployeeID, d.Status); err != nil {
		return nil, "", err
	}

	out, err := form12bb.Render(toForm12BBInput(*d, s.clock.Now()))
	if err != nil {
		s.logger.Warn("render form 12BB failed", zap.String("declaration_id", id), zap.Error(err))
		return nil, "", err
	}
	return out, form12BBFilename(*d), nil
}

// ArchiveForm12BB renders an approved declaration and keeps the PDF in
// object storage. Calling it again returns the archived URL until a
// correction clears it.
func (s *service) ArchiveForm12BB(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", declarationerrors.ErrInvalidDeclarationID
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", mapFindError(err)
	}
	if d.Status != StatusApproved {
		return "", declarationerrors.ErrInvalidStatusTransition
	}
	if d.Form12BBURL != nil && *d.Form12BBURL != "" {
		return *d.Form12BBURL, nil
	}

	out, err := form12bb.Render(toForm12BBInput(*d, s.clock.Now()))
	if err != nil {
		return "", err
	}

	stored, err := s.store.Store(ctx, storage.Object{
		Data:        out,
		Filename:    form12BBFilename(*d),
		ContentType: "application/pdf",
		Folder:      path.Join(id, "form12bb"),
		// one object per declaration; re-archiving overwrites it
		Key: strings.TrimSuffix(form12BBFilename(*d), ".pdf"),
	})
	if err != nil {
		s.logger.Error("archive form 12BB upload failed", zap.String("declaration_id", id), zap.Error(err))
		return "", declarationerrors.StorageError(err)
	}

	if err := s.repo.SetForm12BBURL(ctx, id, stored.URL); err != nil {
		if delErr := s.store.Delete(ctx, stored.StoredID); delErr != nil {
			s.logger.Error("archive form 12BB compensation failed",
				zap.String("stored_id", stored.StoredID),
				zap.Error(delErr),
			)
		}
		return "", err
	}

	s.logger.Info("archive form 12BB success",
		zap.String("declaration_id", id),
		zap.String("url", stored.URL),
	)
	return stored.URL, nil
}

func form12BBFilename(d Declaration) string {
	who := d.EmployeeCode
	if who == "" {
		who = strings.ReplaceAll(strings.TrimSpace(d.EmployeeName), " ", "_")
	}
	return fmt.Sprintf("Form12BB_%s_%s.pdf", who, d.FinancialYear)
}

func toForm12BBInput(d Declaration, now time.Time) form12bb.Input {
	sec := d.Data()

	in := form12bb.Input{
		EmployeeName:  d.EmployeeName,
		EmployeeCode:  d.EmployeeCode,
		Designation:   d.Designation,
		Department:    d.Department,
		PAN:           d.PAN,
		FinancialYear: d.FinancialYear,
		TaxScheme:     d.TaxScheme,
		DateOfJoining: d.DateOfJoining,

		Section80CTotal: d.Section80CTotal,
		Section80CCC:    sec.Section80CCC.Amount,
		Section80CCD1:   sec.Section80CCD1.Amount,
		Section80CCD1B:  sec.Section80CCD1B.Effective(),
		Section80E:      sec.Section80E.Effective(),
		Section80TTA:    sec.Section80TTA.Effective(),
		Other: form12bb.LineItem{
			Label:  sec.OtherDeductions.Description,
			Amount: sec.OtherDeductions.Amount,
		},
		PreviousEmployment: form12bb.PreviousEmployment{
			IncomeAfterExemptions: sec.PreviousEmployment.IncomeAfterExemptions,
			ProvidentFund:         sec.PreviousEmployment.ProvidentFund,
			ProfessionalTax:       sec.PreviousEmployment.ProfessionalTax,
			TDS:                   sec.PreviousEmployment.TDS,
		},

		AgreementText: AgreementText,
		Signature:     sec.Declaration.EmployeeSignature,
		DeclaredDate:  sec.Declaration.DeclaredDate,
		GeneratedAt:   now,
	}

	if hra := sec.HouseRentAllowance; hra.IsApplicable {
		in.HRA = form12bb.HRA{
			Applicable:     true,
			RentPaid:       hra.RentPaid,
			Months:         hra.Months,
			LandlordPAN:    hra.LandlordPAN,
			HasRentReceipt: hra.HasRentReceipt,
		}
	}

	if lta := sec.LeaveTravelAllowance; lta.IsApplicable {
		in.LTA = form12bb.LTA{
			Applicable:            true,
			ProposedTravel:        lta.ProposedTravel,
			WillingToProduceBills: lta.WillingToProduceBills,
		}
		for _, c := range lta.Claims {
			in.LTA.Claims = append(in.LTA.Claims, form12bb.LineItem{Label: c.Year, Amount: c.Amount})
		}
	}

	for _, l := range sec.HousingLoans {
		rental := decimal.Zero
		if l.RentalIncome != nil {
			rental = *l.RentalIncome
		}
		in.HousingLoans = append(in.HousingLoans, form12bb.HousingLoan{
			Type:         string(l.Type),
			Amount:       l.Amount,
			RentalIncome: rental,
			MaxLimit:     l.MaxLimit,
		})
	}

	for _, item := range sec.Section80C {
		in.Section80C = append(in.Section80C, form12bb.LineItem{Label: item.ItemName, Amount: item.Amount})
	}

	med := sec.Section80D
	if med.SelfSpouseChildren.IsApplicable {
		in.Section80D.SelfSpouseChildren = med.SelfSpouseChildren.Amount
		in.Section80D.SelfSenior = med.SelfSpouseChildren.IsSeniorCitizen
	}
	if med.Parents.IsApplicable {
		in.Section80D.Parents = med.Parents.Amount
		in.Section80D.ParentsSenior = med.Parents.IsSeniorCitizen
	}
	in.Section80D.PreventiveCheckup = med.PreventiveCheckup.Effective()

	for _, item := range sec.OtherIncome {
		in.OtherIncome = append(in.OtherIncome, form12bb.LineItem{Label: item.Description, Amount: item.Amount})
	}
	return in
}
