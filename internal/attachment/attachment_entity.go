package attachment

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Section names one of the six per-declaration document ledgers.
type Section string

const (
	SectionHRA         Section = "hraDocuments"
	SectionLTA         Section = "ltaDocuments"
	Section80C         Section = "section80CDocuments"
	Section80CCD       Section = "section80CCDDocuments"
	Section80D         Section = "section80DDocuments"
	SectionHousingLoan Section = "housingLoanDocuments"
)

var AllSections = []Section{
	SectionHRA,
	SectionLTA,
	Section80C,
	Section80CCD,
	Section80D,
	SectionHousingLoan,
}

func ParseSection(v string) (Section, bool) {
	for _, s := range AllSections {
		if string(s) == v {
			return s, true
		}
	}
	return "", false
}

const (
	CategoryImage    = "image"
	CategoryDocument = "document"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// CategoryFor picks the icon category shown next to an uploaded file.
func CategoryFor(contentType, filename string) string {
	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return CategoryImage
	}
	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return CategoryImage
	}
	return CategoryDocument
}

type Attachment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeclarationID uuid.UUID `gorm:"type:uuid;not null;index:idx_declaration_attachments_section"`
	Section       Section   `gorm:"type:varchar(40);not null;index:idx_declaration_attachments_section"`

	Filename    string `gorm:"type:text;not null"`
	Size        int64  `gorm:"not null"`
	ContentType string `gorm:"type:varchar(100)"`
	Category    string `gorm:"type:varchar(20);not null;default:'document'"`
	StorageURL  string `gorm:"type:text;not null"`
	StoredID    string `gorm:"type:text;not null"`

	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	UploadedAt time.Time `gorm:"not null"`
}

func (Attachment) TableName() string {
	return "declaration_attachments"
}
