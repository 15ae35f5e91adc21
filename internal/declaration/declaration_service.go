package declaration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-hrportal/internal/attachment"
	declarationerrors "go-hrportal/internal/declaration/errors"
	"go-hrportal/internal/employee"
	employeeerrors "go-hrportal/internal/employee/errors"
	"go-hrportal/internal/events"
	"go-hrportal/internal/messaging/kafka"
	"go-hrportal/internal/shared/apperror"
	"go-hrportal/internal/shared/clock"
	"go-hrportal/internal/shared/contextutil"
	"go-hrportal/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

//go:generate mockgen -source=declaration_service.go -destination=mock/declaration_service_mock.go -package=mock
type Service interface {
	Save(ctx context.Context, actor Actor, req SaveDeclarationRequest) (DeclarationResponse, bool, error)
	Submit(ctx context.Context, actor Actor, req SubmitDeclarationRequest) (DeclarationResponse, error)
	Approve(ctx context.Context, actor Actor, req ReviewDeclarationRequest) (DeclarationResponse, error)
	Reject(ctx context.Context, actor Actor, req ReviewDeclarationRequest) (DeclarationResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error

	GetByID(ctx context.Context, actor Actor, id string) (DeclarationResponse, error)
	GetByEmployee(ctx context.Context, actor Actor, employeeID, financialYear string) (DeclarationResponse, error)
	List(ctx context.Context, actor Actor, req ListDeclarationsRequest) (ListResult, error)

	AttachDocument(ctx context.Context, actor Actor, declarationID, section string, file UploadedFile) (AttachmentResponse, error)
	DetachDocument(ctx context.Context, actor Actor, declarationID, documentID string) error
	ListDocuments(ctx context.Context, actor Actor, declarationID, section string) (DocumentsResponse, error)

	RenderForm12BB(ctx context.Context, actor Actor, id string) ([]byte, string, error)
	ArchiveForm12BB(ctx context.Context, id string) (string, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	attachments attachment.Repository
	directory   employee.Directory
	store       storage.ObjectStorage
	outbox      kafka.OutboxRepository
	clock       clock.Clock
	logger      *zap.Logger
}

// NewService wires the declaration lifecycle. outbox may be nil, in which
// case no lifecycle events are queued; a nil clk uses wall-clock UTC.
func NewService(
	db *sql.DB,
	repo Repository,
	attachments attachment.Repository,
	directory employee.Directory,
	store storage.ObjectStorage,
	outbox kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("declaration.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("declaration.service")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &service{
		db:          db,
		repo:        repo,
		attachments: attachments,
		directory:   directory,
		store:       store,
		outbox:      outbox,
		clock:       clk,
		logger:      l,
	}
}

func (s *service) Save(ctx context.Context, actor Actor, req SaveDeclarationRequest) (DeclarationResponse, bool, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("save declaration requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.UserID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("financial_year", req.FinancialYear),
	)

	actorUUID, employeeUUID, err := validateSaveRequest(actor, req)
	if err != nil {
		s.logger.Warn("save declaration validation failed", zap.String("request_id", rid), zap.Error(err))
		return DeclarationResponse{}, false, err
	}
	// ownership is checked before the directory is consulted
	if err := authorize(OpSave, actor, employeeUUID, ""); err != nil {
		return DeclarationResponse{}, false, err
	}

	profile, err := s.directory.Lookup(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			return DeclarationResponse{}, false, declarationerrors.ErrEmployeeNotFound
		}
		s.logger.Error("save declaration employee lookup failed", zap.String("request_id", rid), zap.Error(err))
		return DeclarationResponse{}, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("save declaration begin tx failed", zap.Error(err))
		return DeclarationResponse{}, false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clock.Now()

	d, err := qtx.FindByEmployeeAndYearForUpdate(ctx, req.EmployeeID, req.FinancialYear)
	created := false
	fromStatus := ""
	switch {
	case errors.Is(mapFindError(err), declarationerrors.ErrDeclarationNotFound):
		created = true
		d = &Declaration{
			ID:            uuid.New(),
			EmployeeID:    employeeUUID,
			FinancialYear: req.FinancialYear,
			Status:        StatusDraft,
			Version:       1,
			Sections:      datatypes.NewJSONType(Sections{}),
			CreatedBy:     actorUUID,
			CreatedAt:     now,
		}
	case err != nil:
		s.logger.Error("save declaration lookup failed", zap.Error(err))
		return DeclarationResponse{}, false, err
	default:
		fromStatus = d.Status
		if err := authorize(OpSave, actor, d.EmployeeID, d.Status); err != nil {
			s.logger.Warn("save declaration rejected",
				zap.String("declaration_id", d.ID.String()),
				zap.String("status", d.Status),
				zap.String("role", actor.Role),
			)
			return DeclarationResponse{}, false, err
		}
		if req.Version != nil && *req.Version != d.Version {
			return DeclarationResponse{}, false, declarationerrors.ErrVersionMismatch.WithDetails(map[string]int{
				"currentVersion": d.Version,
			})
		}
		d.Status = statusAfterSave(d.Status)
		d.Version++
		// an archived Form 12BB no longer matches a corrected declaration
		if d.Status == StatusApproved {
			d.Form12BBURL = nil
		}
	}

	applyProfile(d, profile)
	d.TaxScheme = req.TaxScheme
	d.UpdatedBy = actorUUID
	d.UpdatedAt = now
	d.Update(func(sec *Sections) {
		applySections(sec, req)
	})
	if err := d.Data().Validate(); err != nil {
		return DeclarationResponse{}, false, err
	}

	if created {
		err = qtx.Create(ctx, d)
	} else {
		err = qtx.Update(ctx, d)
	}
	if err != nil {
		err = mapPersistError(err)
		s.logger.Error("save declaration persist failed",
			zap.String("declaration_id", d.ID.String()),
			zap.Error(err),
		)
		return DeclarationResponse{}, false, err
	}

	eventType := ""
	switch {
	case fromStatus != d.Status:
		eventType = events.DeclarationStatusChanged
	case d.Status == StatusSubmitted || d.Status == StatusApproved:
		eventType = events.DeclarationCorrected
	}
	if eventType != "" {
		if err := s.queueEvent(ctx, tx, d, eventType, fromStatus, actor); err != nil {
			return DeclarationResponse{}, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("save declaration commit failed", zap.Error(err))
		return DeclarationResponse{}, false, mapPersistError(err)
	}
	s.logger.Info("save declaration success",
		zap.String("request_id", rid),
		zap.String("declaration_id", d.ID.String()),
		zap.String("status", d.Status),
		zap.Bool("created", created),
	)

	return mapToResponse(*d), created, nil
}

func validateSaveRequest(actor Actor, req SaveDeclarationRequest) (uuid.UUID, uuid.UUID, error) {
	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, declarationerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, declarationerrors.ErrInvalidEmployeeID
	}
	if !apperror.IsFinancialYear(req.FinancialYear) {
		return uuid.Nil, uuid.Nil, declarationerrors.ErrInvalidFinancialYear
	}
	if !IsValidTaxScheme(req.TaxScheme) {
		return uuid.Nil, uuid.Nil, declarationerrors.ErrInvalidTaxScheme
	}
	return actorUUID, employeeUUID, nil
}

func applyProfile(d *Declaration, p employee.Profile) {
	d.EmployeeName = p.Name
	d.EmployeeCode = p.Code
	d.EmployeeEmail = p.Email
	d.Department = p.Department
	d.Designation = p.Designation
	d.PAN = p.PAN
	d.Gender = p.Gender
	d.DateOfBirth = p.DateOfBirth
	d.DateOfJoining = p.DateOfJoining
}

// applySections replaces every section with the request payload.
func applySections(s *Sections, req SaveDeclarationRequest) {
	s.SetHRA(req.HouseRentAllowance)
	s.SetLTA(req.LeaveTravelAllowance)
	s.SetHousingLoans(req.HousingLoans)
	s.SetSection80C(req.Section80C)
	s.SetSection80CCC(req.Section80CCC)
	s.SetSection80CCD1(req.Section80CCD1)
	s.SetSection80CCD1B(req.Section80CCD1B)
	s.SetSection80D(req.Section80D)
	s.SetSection80E(req.Section80E)
	s.SetSection80TTA(req.Section80TTA)
	s.SetOtherDeductions(req.OtherDeductions)
	s.SetPreviousEmployment(req.PreviousEmployment)
	s.SetOtherIncome(req.OtherIncome)
	s.SetDeclaration(req.Declaration)
}

func (s *service) Submit(ctx context.Context, actor Actor, req SubmitDeclarationRequest) (DeclarationResponse, error) {
	return s.transitionDeclarationStatus(ctx, actor, req.DeclarationID, req.EmployeeID, OpSubmit, "")
}

func (s *service) Approve(ctx context.Context, actor Actor, req ReviewDeclarationRequest) (DeclarationResponse, error) {
	return s.transitionDeclarationStatus(ctx, actor, req.DeclarationID, "", OpApprove, req.Remarks)
}

func (s *service) Reject(ctx context.Context, actor Actor, req ReviewDeclarationRequest) (DeclarationResponse, error) {
	return s.transitionDeclarationStatus(ctx, actor, req.DeclarationID, "", OpReject, req.Remarks)
}

func (s *service) transitionDeclarationStatus(
	ctx context.Context,
	actor Actor,
	id, employeeID string,
	op Operation,
	remarks string,
) (DeclarationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transition declaration status requested",
		zap.String("request_id", rid),
		zap.String("declaration_id", id),
		zap.String("actor_id", actor.UserID),
		zap.String("operation", string(op)),
	)

	if _, err := uuid.Parse(id); err != nil {
		return DeclarationResponse{}, declarationerrors.ErrInvalidDeclarationID
	}
	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return DeclarationResponse{}, declarationerrors.ErrInvalidActorID
	}
	remarks = strings.TrimSpace(remarks)
	if op == OpReject && remarks == "" {
		return DeclarationResponse{}, declarationerrors.ErrRemarksRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition declaration status begin tx failed", zap.Error(err))
		return DeclarationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return DeclarationResponse{}, mapFindError(err)
	}
	if employeeID != "" && employeeID != d.EmployeeID.String() {
		return DeclarationResponse{}, declarationerrors.ErrDeclarationNotFound
	}
	if err := authorize(op, actor, d.EmployeeID, d.Status); err != nil {
		s.logger.Warn("transition declaration status invalid",
			zap.String("declaration_id", id),
			zap.String("from_status", d.Status),
			zap.String("operation", string(op)),
			zap.Error(err),
		)
		return DeclarationResponse{}, err
	}

	now := s.clock.Now()
	fromStatus := d.Status
	switch op {
	case OpSubmit:
		att := d.Data().Declaration
		if !att.IsAgreed {
			return DeclarationResponse{}, declarationerrors.ErrAgreementRequired
		}
		if strings.TrimSpace(att.EmployeeSignature) == "" {
			return DeclarationResponse{}, declarationerrors.ErrSignatureRequired
		}
		d.Status = StatusSubmitted
		d.SubmittedAt = &now
		d.ApprovalDate = nil
		d.ReviewedBy = nil
		d.Update(func(sec *Sections) {
			if sec.Declaration.DeclaredDate == nil {
				sec.Declaration.DeclaredDate = &now
			}
		})
	case OpApprove, OpReject:
		d.Status = StatusApproved
		if op == OpReject {
			d.Status = StatusRejected
		}
		d.ApprovalDate = &now
		d.ReviewedBy = &actorUUID
		d.ApprovalRemarks = nil
		if remarks != "" {
			d.ApprovalRemarks = &remarks
		}
	}
	d.Version++
	d.UpdatedBy = actorUUID
	d.UpdatedAt = now

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("transition declaration status persist failed",
			zap.String("declaration_id", id),
			zap.String("target_status", d.Status),
			zap.Error(err),
		)
		return DeclarationResponse{}, err
	}
	if err := s.queueEvent(ctx, tx, d, events.DeclarationStatusChanged, fromStatus, actor); err != nil {
		return DeclarationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition declaration status commit failed",
			zap.String("declaration_id", id),
			zap.Error(err),
		)
		return DeclarationResponse{}, err
	}
	s.logger.Info("transition declaration status success",
		zap.String("request_id", rid),
		zap.String("declaration_id", id),
		zap.String("from_status", fromStatus),
		zap.String("status", d.Status),
	)
	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return declarationerrors.ErrInvalidDeclarationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete declaration begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	atx := s.attachments.WithTx(tx)

	d, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapFindError(err)
	}
	if err := authorize(OpDelete, actor, d.EmployeeID, d.Status); err != nil {
		return err
	}

	items, err := atx.ListByDeclaration(ctx, id)
	if err != nil {
		return err
	}
	ledger := attachment.NewLedger(items)

	if err := atx.DeleteByDeclaration(ctx, id); err != nil {
		s.logger.Error("delete declaration attachments failed", zap.String("declaration_id", id), zap.Error(err))
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete declaration persist failed", zap.String("declaration_id", id), zap.Error(err))
		return err
	}
	if err := s.queueEvent(ctx, tx, d, events.DeclarationDeleted, d.Status, actor); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete declaration commit failed", zap.String("declaration_id", id), zap.Error(err))
		return err
	}

	// rows are gone; a leftover object is only wasted space
	for _, storedID := range ledger.StoredIDs() {
		if err := s.store.Delete(ctx, storedID); err != nil {
			s.logger.Warn("delete declaration stored document failed",
				zap.String("declaration_id", id),
				zap.String("stored_id", storedID),
				zap.Error(err),
			)
		}
	}
	s.logger.Info("delete declaration success",
		zap.String("request_id", rid),
		zap.String("declaration_id", id),
		zap.Int("documents", ledger.Len()),
	)
	return nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (DeclarationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeclarationResponse{}, declarationerrors.ErrInvalidDeclarationID
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DeclarationResponse{}, mapFindError(err)
	}
	if err := authorize(OpRead, actor, d.EmployeeID, d.Status); err != nil {
		return DeclarationResponse{}, err
	}
	return s.withDocuments(ctx, d)
}

func (s *service) GetByEmployee(ctx context.Context, actor Actor, employeeID, financialYear string) (DeclarationResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return DeclarationResponse{}, declarationerrors.ErrInvalidEmployeeID
	}
	if !apperror.IsFinancialYear(financialYear) {
		return DeclarationResponse{}, declarationerrors.ErrInvalidFinancialYear
	}
	if err := authorize(OpRead, actor, employeeUUID, ""); err != nil {
		return DeclarationResponse{}, err
	}

	d, err := s.repo.FindByEmployeeAndYear(ctx, employeeID, financialYear)
	if err != nil {
		return DeclarationResponse{}, mapFindError(err)
	}
	return s.withDocuments(ctx, d)
}

func (s *service) withDocuments(ctx context.Context, d *Declaration) (DeclarationResponse, error) {
	items, err := s.attachments.ListByDeclaration(ctx, d.ID.String())
	if err != nil {
		return DeclarationResponse{}, err
	}
	resp := mapToResponse(*d)
	resp.Documents = mapLedgerResponse(attachment.NewLedger(items))
	return resp, nil
}

func (s *service) List(ctx context.Context, actor Actor, req ListDeclarationsRequest) (ListResult, error) {
	if req.Status != "" && !IsValidStatus(req.Status) {
		return ListResult{}, declarationerrors.ErrInvalidStatusFilter
	}
	if req.FinancialYear != "" && !apperror.IsFinancialYear(req.FinancialYear) {
		return ListResult{}, declarationerrors.ErrInvalidFinancialYear
	}
	after, err := DecodeCursor(req.Cursor)
	if err != nil {
		return ListResult{}, err
	}
	limit := normalizeLimit(req.Limit)

	q := ListQuery{
		EmployeeID:    req.EmployeeID,
		FinancialYear: req.FinancialYear,
		Status:        req.Status,
		Search:        req.Search,
		After:         after,
		Limit:         limit + 1,
	}
	if !actor.IsAdmin() {
		if actor.EmployeeID == "" {
			return ListResult{Items: []DeclarationResponse{}, Limit: limit}, nil
		}
		q.EmployeeID = actor.EmployeeID
	}

	rows, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list declarations failed", zap.Error(err))
		return ListResult{}, err
	}

	result := ListResult{Limit: limit}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		result.NextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	result.Items = mapToListResponse(rows)
	return result, nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, d *Declaration, eventType, fromStatus string, actor Actor) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)

	event := events.DeclarationStatusChangedEvent{
		EventType:     eventType,
		DeclarationID: d.ID.String(),
		EmployeeID:    d.EmployeeID.String(),
		FinancialYear: d.FinancialYear,
		FromStatus:    fromStatus,
		ActorID:       actor.UserID,
		OccurredAt:    s.clock.Now(),
	}
	if eventType != events.DeclarationDeleted {
		event.ToStatus = d.Status
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal declaration event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "declaration",
		AggregateID:   d.ID.String(),
		EventType:     eventType,
		Topic:         events.DeclarationLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("declaration outbox persist failed",
			zap.String("declaration_id", d.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format("2006-01-02")
	return &v
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func mapToResponse(d Declaration) DeclarationResponse {
	resp := DeclarationResponse{
		ID:              d.ID.String(),
		EmployeeID:      d.EmployeeID.String(),
		FinancialYear:   d.FinancialYear,
		EmployeeName:    d.EmployeeName,
		EmployeeCode:    d.EmployeeCode,
		EmployeeEmail:   d.EmployeeEmail,
		Department:      d.Department,
		Designation:     d.Designation,
		PAN:             d.PAN,
		Gender:          d.Gender,
		DateOfBirth:     formatDate(d.DateOfBirth),
		DateOfJoining:   formatDate(d.DateOfJoining),
		TaxScheme:       d.TaxScheme,
		Status:          d.Status,
		Version:         d.Version,
		Sections:        d.Data(),
		Section80CTotal: d.Section80CTotal,
		SubmittedDate:   formatTime(d.SubmittedAt),
		ApprovalDate:    formatTime(d.ApprovalDate),
		ApprovalRemarks: d.ApprovalRemarks,
		Form12BBURL:     d.Form12BBURL,
		CreatedAt:       d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.ReviewedBy != nil {
		v := d.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	return resp
}

func mapToListResponse(items []Declaration) []DeclarationResponse {
	resp := make([]DeclarationResponse, len(items))
	for i, d := range items {
		resp[i] = mapToResponse(d)
	}
	return resp
}

func mapAttachmentResponse(a attachment.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		Section:     string(a.Section),
		Filename:    a.Filename,
		Size:        a.Size,
		ContentType: a.ContentType,
		Category:    a.Category,
		StorageURL:  a.StorageURL,
		UploadedBy:  a.UploadedBy.String(),
		UploadedAt:  a.UploadedAt.UTC().Format(time.RFC3339),
	}
}

func mapLedgerResponse(l attachment.Ledger) DocumentsResponse {
	resp := make(DocumentsResponse, len(l))
	for section, items := range l {
		list := make([]AttachmentResponse, len(items))
		for i, a := range items {
			list[i] = mapAttachmentResponse(a)
		}
		resp[string(section)] = list
	}
	return resp
}
