package declaration

import (
	"context"
	"errors"
	"mime"
	"path"
	"strings"

	"go-hrportal/internal/attachment"
	declarationerrors "go-hrportal/internal/declaration/errors"
	"go-hrportal/internal/shared/contextutil"
	"go-hrportal/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const MaxDocumentSize = 10 << 20

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

func validateUpload(file UploadedFile) error {
	if len(file.Data) == 0 || strings.TrimSpace(file.Filename) == "" {
		return declarationerrors.ErrDocumentRequired
	}
	if file.Size > MaxDocumentSize || len(file.Data) > MaxDocumentSize {
		return declarationerrors.ErrDocumentTooLarge
	}
	mediaType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil {
		return declarationerrors.ErrUnsupportedContentType
	}
	if _, ok := allowedContentTypes[strings.ToLower(mediaType)]; !ok {
		return declarationerrors.ErrUnsupportedContentType
	}
	return nil
}

// AttachDocument stores the bytes first and records the reference only once
// storage confirmed them, so a ledger never points at a missing object.
func (s *service) AttachDocument(
	ctx context.Context,
	actor Actor,
	declarationID, sectionName string,
	file UploadedFile,
) (AttachmentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("attach document requested",
		zap.String("request_id", rid),
		zap.String("declaration_id", declarationID),
		zap.String("section", sectionName),
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
	)

	declarationUUID, err := uuid.Parse(declarationID)
	if err != nil {
		return AttachmentResponse{}, declarationerrors.ErrInvalidDeclarationID
	}
	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return AttachmentResponse{}, declarationerrors.ErrInvalidActorID
	}
	section, ok := attachment.ParseSection(sectionName)
	if !ok {
		return AttachmentResponse{}, declarationerrors.ErrInvalidDocumentType
	}
	if err := validateUpload(file); err != nil {
		s.logger.Warn("attach document validation failed", zap.String("request_id", rid), zap.Error(err))
		return AttachmentResponse{}, err
	}

	d, err := s.repo.FindByID(ctx, declarationID)
	if err != nil {
		return AttachmentResponse{}, mapFindError(err)
	}
	if err := authorize(OpAttach, actor, d.EmployeeID, d.Status); err != nil {
		return AttachmentResponse{}, err
	}

	stored, err := s.store.Store(ctx, storage.Object{
		Data:        file.Data,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Folder:      path.Join(declarationID, string(section)),
	})
	if err != nil {
		s.logger.Error("attach document upload failed",
			zap.String("declaration_id", declarationID),
			zap.Error(err),
		)
		return AttachmentResponse{}, declarationerrors.StorageError(err)
	}

	a, err := s.recordAttachment(ctx, actor, declarationUUID, section, file, stored, actorUUID)
	if err != nil {
		if delErr := s.store.Delete(ctx, stored.StoredID); delErr != nil {
			s.logger.Error("attach document compensation failed",
				zap.String("stored_id", stored.StoredID),
				zap.Error(delErr),
			)
		}
		return AttachmentResponse{}, err
	}

	s.logger.Info("attach document success",
		zap.String("request_id", rid),
		zap.String("declaration_id", declarationID),
		zap.String("attachment_id", a.ID.String()),
		zap.String("section", string(section)),
	)
	return mapAttachmentResponse(*a), nil
}

// recordAttachment re-checks the declaration under a row lock, since its
// status may have moved while the upload was running.
func (s *service) recordAttachment(
	ctx context.Context,
	actor Actor,
	declarationID uuid.UUID,
	section attachment.Section,
	file UploadedFile,
	stored storage.StoredObject,
	uploadedBy uuid.UUID,
) (*attachment.Attachment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("attach document begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	d, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, declarationID.String())
	if err != nil {
		return nil, mapFindError(err)
	}
	if err := authorize(OpAttach, actor, d.EmployeeID, d.Status); err != nil {
		return nil, err
	}

	size := file.Size
	if size <= 0 {
		size = int64(len(file.Data))
	}
	a := &attachment.Attachment{
		ID:            uuid.New(),
		DeclarationID: declarationID,
		Section:       section,
		Filename:      file.Filename,
		Size:          size,
		ContentType:   file.ContentType,
		Category:      attachment.CategoryFor(file.ContentType, file.Filename),
		StorageURL:    stored.URL,
		StoredID:      stored.StoredID,
		UploadedBy:    uploadedBy,
		UploadedAt:    s.clock.Now(),
	}
	if err := s.attachments.WithTx(tx).Create(ctx, a); err != nil {
		s.logger.Error("attach document persist failed", zap.Error(err))
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("attach document commit failed", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (s *service) DetachDocument(ctx context.Context, actor Actor, declarationID, documentID string) error {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(declarationID); err != nil {
		return declarationerrors.ErrInvalidDeclarationID
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return declarationerrors.ErrAttachmentNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("detach document begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	atx := s.attachments.WithTx(tx)

	d, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, declarationID)
	if err != nil {
		return mapFindError(err)
	}
	if err := authorize(OpDetach, actor, d.EmployeeID, d.Status); err != nil {
		return err
	}

	a, err := atx.FindByID(ctx, declarationID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return declarationerrors.ErrAttachmentNotFound
		}
		return err
	}
	if err := atx.Delete(ctx, declarationID, documentID); err != nil {
		s.logger.Error("detach document persist failed", zap.String("attachment_id", documentID), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("detach document commit failed", zap.Error(err))
		return err
	}

	if err := s.store.Delete(ctx, a.StoredID); err != nil {
		s.logger.Warn("detach document stored object delete failed",
			zap.String("stored_id", a.StoredID),
			zap.Error(err),
		)
	}
	s.logger.Info("detach document success",
		zap.String("request_id", rid),
		zap.String("declaration_id", declarationID),
		zap.String("attachment_id", documentID),
	)
	return nil
}

// ListDocuments returns every ledger, or only the one named by section.
func (s *service) ListDocuments(ctx context.Context, actor Actor, declarationID, sectionName string) (DocumentsResponse, error) {
	if _, err := uuid.Parse(declarationID); err != nil {
		return nil, declarationerrors.ErrInvalidDeclarationID
	}
	d, err := s.repo.FindByID(ctx, declarationID)
	if err != nil {
		return nil, mapFindError(err)
	}
	if err := authorize(OpRead, actor, d.EmployeeID, d.Status); err != nil {
		return nil, err
	}

	if sectionName == "" {
		items, err := s.attachments.ListByDeclaration(ctx, declarationID)
		if err != nil {
			return nil, err
		}
		return mapLedgerResponse(attachment.NewLedger(items)), nil
	}

	section, ok := attachment.ParseSection(sectionName)
	if !ok {
		return nil, declarationerrors.ErrInvalidDocumentType
	}
	items, err := s.attachments.ListBySection(ctx, declarationID, section)
	if err != nil {
		return nil, err
	}
	list := make([]AttachmentResponse, len(items))
	for i, a := range items {
		list[i] = mapAttachmentResponse(a)
	}
	return DocumentsResponse{string(section): list}, nil
}
