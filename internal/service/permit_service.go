package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
)

const defaultDateFormat = "02/01/2006"

type permitGetter interface {
	Get(ctx context.Context, id string) (*models.Permit, error)
}

// PermitService serves single-permit views: the document viewer and the
// plain-text permit slip.
type PermitService struct {
	permits    permitGetter
	baseURL    string
	dateFormat string
	logger     *zap.Logger
}

// NewPermitService constructs a PermitService. baseURL prefixes attachment
// paths so the UI can link to the stored scans.
func NewPermitService(permits permitGetter, baseURL, dateFormat string, logger *zap.Logger) *PermitService {
	if dateFormat == "" {
		dateFormat = defaultDateFormat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermitService{permits: permits, baseURL: strings.TrimRight(baseURL, "/"), dateFormat: dateFormat, logger: logger}
}

// Detail loads a permit with its attachments classified for preview.
func (s *PermitService) Detail(ctx context.Context, id string) (*dto.PermitDetail, error) {
	permit, err := s.permits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments := make([]dto.AttachmentView, 0, len(permit.Attachments))
	for _, a := range permit.Attachments {
		kind := dto.AttachmentKindImage
		if a.IsPDF() {
			kind = dto.AttachmentKindPDF
		}
		attachments = append(attachments, dto.AttachmentView{
			Filename: a.Filename,
			Path:     a.Path,
			URL:      s.attachmentURL(a.Path),
			Kind:     kind,
		})
	}
	return &dto.PermitDetail{Permit: *permit, FullName: permit.FullName(), Attachments: attachments}, nil
}

// Slip fetches a permit and renders its download slip.
func (s *PermitService) Slip(ctx context.Context, id string) (*dto.ExportFile, error) {
	permit, err := s.permits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	file := PermitSlip(*permit, s.dateFormat)
	return &file, nil
}

func (s *PermitService) attachmentURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.baseURL + "/" + strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
}

// PermitSlip renders the plain-text summary of one permit, named after its
// permit number.
func PermitSlip(p models.Permit, dateFormat string) dto.ExportFile {
	var b strings.Builder
	fmt.Fprintf(&b, "Burial Permit: %s\n", p.PermitNumber)
	fmt.Fprintf(&b, "Name: %s\n", p.FullName())
	fmt.Fprintf(&b, "Date of Death: %s\n", formatDate(p.DateOfDeath, dateFormat))
	if p.NextOfKinName != "" {
		fmt.Fprintf(&b, "Next of Kin: %s\n", p.NextOfKinName)
	}
	fmt.Fprintf(&b, "Burial Location: %s\n", p.BurialLocation)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	return dto.ExportFile{
		Filename:    p.PermitNumber + ".txt",
		ContentType: "text/plain; charset=utf-8",
		Records:     1,
		Data:        []byte(b.String()),
	}
}

// formatDate renders a backend timestamp as a calendar date in the UTC day
// the backend stored it under; nil renders empty.
func formatDate(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = defaultDateFormat
	}
	return t.UTC().Format(layout)
}
