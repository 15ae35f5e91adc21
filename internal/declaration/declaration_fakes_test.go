package declaration_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go-hrportal/internal/attachment"
	"go-hrportal/internal/declaration"
	"go-hrportal/internal/employee"
	employeeerrors "go-hrportal/internal/employee/errors"
	"go-hrportal/internal/messaging/kafka"
	kafkaMock "go-hrportal/internal/messaging/kafka/mock"
	"go-hrportal/internal/shared/clock"
	"go-hrportal/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// memDeclarationRepository keeps declarations in memory. Transactions are
// not modelled: writes are visible immediately.
type memDeclarationRepository struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]declaration.Declaration
	updateErr error
}

func newMemDeclarationRepository() *memDeclarationRepository {
	return &memDeclarationRepository{rows: map[uuid.UUID]declaration.Declaration{}}
}

func (r *memDeclarationRepository) WithTx(tx *sql.Tx) declaration.Repository { return r }

func (r *memDeclarationRepository) Create(ctx context.Context, d *declaration.Declaration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.EmployeeID == d.EmployeeID && row.FinancialYear == d.FinancialYear {
			return gorm.ErrDuplicatedKey
		}
	}
	r.rows[d.ID] = *d
	return nil
}

func (r *memDeclarationRepository) Update(ctx context.Context, d *declaration.Declaration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.rows[d.ID] = *d
	return nil
}

func (r *memDeclarationRepository) FindByID(ctx context.Context, id string) (*declaration.Declaration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *memDeclarationRepository) FindByIDForUpdate(ctx context.Context, id string) (*declaration.Declaration, error) {
	return r.FindByID(ctx, id)
}

func (r *memDeclarationRepository) FindByEmployeeAndYear(ctx context.Context, employeeID, financialYear string) (*declaration.Declaration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.EmployeeID.String() == employeeID && row.FinancialYear == financialYear {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDeclarationRepository) FindByEmployeeAndYearForUpdate(ctx context.Context, employeeID, financialYear string) (*declaration.Declaration, error) {
	return r.FindByEmployeeAndYear(ctx, employeeID, financialYear)
}

func (r *memDeclarationRepository) List(ctx context.Context, q declaration.ListQuery) ([]declaration.Declaration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []declaration.Declaration{}
	for _, row := range r.rows {
		if q.EmployeeID != "" && row.EmployeeID.String() != q.EmployeeID {
			continue
		}
		if q.FinancialYear != "" && row.FinancialYear != q.FinancialYear {
			continue
		}
		if q.Status != "" && row.Status != q.Status {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			hay := strings.ToLower(row.EmployeeName + " " + row.EmployeeCode + " " + row.EmployeeEmail)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if q.After != nil {
			if row.CreatedAt.Before(q.After.CreatedAt) {
				continue
			}
			if row.CreatedAt.Equal(q.After.CreatedAt) && row.ID.String() <= q.After.ID.String() {
				continue
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *memDeclarationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, uuid.MustParse(id))
	return nil
}

func (r *memDeclarationRepository) SetForm12BBURL(ctx context.Context, id, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[uuid.MustParse(id)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Form12BBURL = &url
	r.rows[row.ID] = row
	return nil
}

func (r *memDeclarationRepository) get(id string) declaration.Declaration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[uuid.MustParse(id)]
}

func (r *memDeclarationRepository) setStatus(id, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.rows[uuid.MustParse(id)]
	row.Status = status
	r.rows[row.ID] = row
}

func (r *memDeclarationRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memAttachmentRepository struct {
	mu        sync.Mutex
	rows      []attachment.Attachment
	createErr error
}

func (r *memAttachmentRepository) WithTx(tx *sql.Tx) attachment.Repository { return r }

func (r *memAttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.rows = append(r.rows, *a)
	return nil
}

func (r *memAttachmentRepository) FindByID(ctx context.Context, declarationID, id string) (*attachment.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.DeclarationID.String() == declarationID && a.ID.String() == id {
			found := a
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAttachmentRepository) ListByDeclaration(ctx context.Context, declarationID string) ([]attachment.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []attachment.Attachment{}
	for _, a := range r.rows {
		if a.DeclarationID.String() == declarationID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAttachmentRepository) ListBySection(ctx context.Context, declarationID string, section attachment.Section) ([]attachment.Attachment, error) {
	all, _ := r.ListByDeclaration(ctx, declarationID)
	out := []attachment.Attachment{}
	for _, a := range all {
		if a.Section == section {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAttachmentRepository) Delete(ctx context.Context, declarationID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, a := range r.rows {
		if a.DeclarationID.String() == declarationID && a.ID.String() == id {
			continue
		}
		kept = append(kept, a)
	}
	r.rows = kept
	return nil
}

func (r *memAttachmentRepository) DeleteByDeclaration(ctx context.Context, declarationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, a := range r.rows {
		if a.DeclarationID.String() == declarationID {
			continue
		}
		kept = append(kept, a)
	}
	r.rows = kept
	return nil
}

func (r *memAttachmentRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeStorage struct {
	mu       sync.Mutex
	stored   []storage.Object
	deleted  []string
	storeErr error
	onStore  func(obj storage.Object)
	seq      int
}

func (s *fakeStorage) Store(ctx context.Context, obj storage.Object) (storage.StoredObject, error) {
	if s.onStore != nil {
		s.onStore(obj)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return storage.StoredObject{}, s.storeErr
	}
	s.seq++
	s.stored = append(s.stored, obj)
	id := obj.Folder + "/" + obj.Filename
	return storage.StoredObject{URL: "https://files.example.com/" + id, StoredID: id}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, storedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, storedID)
	return nil
}

type fakeDirectory struct {
	profiles map[string]employee.Profile
	err      error
}

func (f *fakeDirectory) Lookup(ctx context.Context, employeeID string) (employee.Profile, error) {
	if f.err != nil {
		return employee.Profile{}, f.err
	}
	p, ok := f.profiles[employeeID]
	if !ok {
		return employee.Profile{}, employeeerrors.ErrEmployeeNotFound
	}
	return p, nil
}

type harness struct {
	svc         declaration.Service
	mock        sqlmock.Sqlmock
	repo        *memDeclarationRepository
	attachments *memAttachmentRepository
	store       *fakeStorage
	directory   *fakeDirectory
	clock       *clock.FakeClock

	outboxMu sync.Mutex
	events   []kafka.OutboxEvent

	employeeID string
	employee   declaration.Actor
	admin      declaration.Actor
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)

	employeeID := uuid.NewString()
	joined := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)

	h := &harness{
		mock:        mock,
		repo:        newMemDeclarationRepository(),
		attachments: &memAttachmentRepository{},
		store:       &fakeStorage{},
		directory: &fakeDirectory{profiles: map[string]employee.Profile{
			employeeID: {
				ID:            uuid.MustParse(employeeID),
				Name:          "Asha Kumar",
				Code:          "EMP-042",
				Email:         "asha@example.com",
				Department:    "Engineering",
				Designation:   "Engineer",
				PAN:           "ABCDE1234F",
				DateOfJoining: &joined,
			},
		}},
		clock:      clock.NewFakeClock(time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)),
		employeeID: employeeID,
		employee:   declaration.Actor{UserID: uuid.NewString(), EmployeeID: employeeID, Role: declaration.RoleEmployee},
		admin:      declaration.Actor{UserID: uuid.NewString(), Role: declaration.RoleAdmin},
	}

	outbox.EXPECT().WithTx(gomock.Any()).Return(outbox).AnyTimes()
	outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
		h.outboxMu.Lock()
		defer h.outboxMu.Unlock()
		h.events = append(h.events, e)
		return nil
	}).AnyTimes()

	h.svc = declaration.NewService(db, h.repo, h.attachments, h.directory, h.store, outbox, h.clock)
	return h
}

func (h *harness) expectTx(t *testing.T, commit bool) {
	t.Helper()
	h.mock.ExpectBegin()
	if commit {
		h.mock.ExpectCommit()
	} else {
		h.mock.ExpectRollback()
	}
}

func (h *harness) eventCount() int {
	h.outboxMu.Lock()
	defer h.outboxMu.Unlock()
	return len(h.events)
}

func (h *harness) lastEvent() kafka.OutboxEvent {
	h.outboxMu.Lock()
	defer h.outboxMu.Unlock()
	if len(h.events) == 0 {
		return kafka.OutboxEvent{}
	}
	return h.events[len(h.events)-1]
}

// seed stores a declaration directly, bypassing the service.
func (h *harness) seed(status string) declaration.Declaration {
	d := declaration.Declaration{
		ID:            uuid.New(),
		EmployeeID:    uuid.MustParse(h.employeeID),
		FinancialYear: "2025-26",
		EmployeeName:  "Asha Kumar",
		EmployeeCode:  "EMP-042",
		TaxScheme:     declaration.TaxSchemeOld,
		Status:        status,
		Version:       1,
		CreatedAt:     h.clock.Now(),
		UpdatedAt:     h.clock.Now(),
	}
	d.Update(func(s *declaration.Sections) {
		s.SetDeclaration(declaration.Attestation{IsAgreed: true, EmployeeSignature: "Asha Kumar"})
	})
	if err := h.repo.Create(context.Background(), &d); err != nil {
		panic(err)
	}
	return d
}

var errBoom = errors.New("boom")
