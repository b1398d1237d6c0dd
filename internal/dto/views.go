package dto

import (
	"time"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
)

// DashboardView is the composed payload of the dashboard mount.
type DashboardView struct {
	User              *models.User          `json:"user,omitempty"`
	Overview          *models.Overview      `json:"overview,omitempty"`
	Cards             []StatCard            `json:"cards"`
	MonthlyByLocation MonthlyLocationChart  `json:"monthlyByLocation"`
	RecentPermits     []models.RecentPermit `json:"recentPermits"`
	Empty             bool                  `json:"empty"`
}

// RecordsView is the records table state.
type RecordsView struct {
	Filters    models.RecordFilter `json:"filters"`
	Records    []models.Permit     `json:"records"`
	Pagination models.Pagination   `json:"pagination"`
	Selected   []string            `json:"selected"`
	Loading    bool                `json:"loading"`
	Error      string              `json:"error,omitempty"`
}

// ReportView is the reports page state: the current page, the full-scope
// count used for exports and the chart data.
type ReportView struct {
	Filters     models.ReportFilter `json:"filters"`
	Records     []models.Permit     `json:"records"`
	Pagination  models.Pagination   `json:"pagination"`
	ScopeTotal  int                 `json:"scopeTotal"`
	Overview    *models.Overview    `json:"overview,omitempty"`
	Cards       []StatCard          `json:"cards"`
	Gender      []GenderSlice       `json:"gender"`
	Monthly     []MonthTotal        `json:"monthly"`
	Loading     bool                `json:"loading"`
	PanelsReady bool                `json:"panelsReady"`
	Message     string              `json:"message,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Capture modes.
const (
	CaptureModeNew  = "new"
	CaptureModeEdit = "edit"
)

// Draft auto-save states.
const (
	SaveStatusIdle   = ""
	SaveStatusSaving = "saving"
	SaveStatusSaved  = "saved"
)

// CaptureView is the data-capture form state.
type CaptureView struct {
	Mode       string            `json:"mode"`
	EditID     string            `json:"editId,omitempty"`
	Form       models.PermitForm `json:"form"`
	SaveStatus string            `json:"saveStatus,omitempty"`
	Submitting bool              `json:"submitting"`
}

// AttachmentView is an attachment annotated for the document viewer.
type AttachmentView struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
}

// Attachment kinds.
const (
	AttachmentKindPDF   = "pdf"
	AttachmentKindImage = "image"
)

// PermitDetail is the document viewer payload.
type PermitDetail struct {
	Permit      models.Permit    `json:"permit"`
	FullName    string           `json:"fullName"`
	Attachments []AttachmentView `json:"attachments"`
}

// Notification levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notification is one toast message.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Records     int    `json:"records"`
	Data        []byte `json:"-"`
}
