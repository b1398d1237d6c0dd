package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/dto"
	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/debounce"
	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
)

const savedStatusHold = 2 * time.Second

type capturePermits interface {
	List(ctx context.Context, params url.Values) (*models.PermitPage, error)
	Get(ctx context.Context, id string) (*models.Permit, error)
	Create(ctx context.Context, form models.PermitForm, files []httpclient.FilePart) (*models.Permit, error)
	Update(ctx context.Context, id string, form models.PermitForm) (*models.Permit, error)
}

type draftStore interface {
	Load(ctx context.Context, dest interface{}) error
	Save(ctx context.Context, value interface{}) error
	Clear(ctx context.Context) error
}

type draftObserver interface {
	ObserveDraftSave(err error)
}

// CaptureConfig tunes the data-capture view.
type CaptureConfig struct {
	AutoSave      bool
	AutoSaveDelay time.Duration
	PreviewScan   int
	Location      *time.Location
}

// CaptureServiceParams groups constructor dependencies.
type CaptureServiceParams struct {
	Permits   capturePermits
	Drafts    draftStore
	Notifier  Notifier
	Metrics   draftObserver
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    CaptureConfig
	Now       func() time.Time
}

// CaptureService owns the data-capture form: new-permit drafts with a
// debounced auto-save, edit mode, validation and submission.
type CaptureService struct {
	permits  capturePermits
	drafts   draftStore
	notifier Notifier
	metrics  draftObserver
	validate *validator.Validate
	logger   *zap.Logger
	cfg      CaptureConfig
	now      func() time.Time
	saver    *debounce.Debouncer

	mu         sync.Mutex
	mode       string
	editID     string
	form       models.PermitForm
	saving     bool
	savedAt    time.Time
	submitting bool
}

// NewCaptureService constructs the capture view in new-permit mode.
func NewCaptureService(params CaptureServiceParams) *CaptureService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Config.Location == nil {
		params.Config.Location = time.Local
	}
	if params.Config.AutoSaveDelay <= 0 {
		params.Config.AutoSaveDelay = 1500 * time.Millisecond
	}
	if params.Config.PreviewScan <= 0 {
		params.Config.PreviewScan = 1000
	}
	if params.Validator == nil {
		params.Validator = NewValidator(params.Now, params.Config.Location)
	}
	s := &CaptureService{
		permits:  params.Permits,
		drafts:   params.Drafts,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		validate: params.Validator,
		logger:   params.Logger,
		cfg:      params.Config,
		now:      params.Now,
		mode:     dto.CaptureModeNew,
		form:     models.NewPermitForm(),
	}
	s.saver = debounce.New(params.Config.AutoSaveDelay, s.saveDraft)
	return s
}

// View returns the form state.
func (s *CaptureService) View() dto.CaptureView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Open enters edit mode for editID, or new mode when editID is empty. New
// mode restores a saved draft and suggests the next permit number.
func (s *CaptureService) Open(ctx context.Context, editID string) (dto.CaptureView, error) {
	s.saver.Cancel()
	if editID != "" {
		return s.openEdit(ctx, editID)
	}

	form := models.NewPermitForm()
	if s.cfg.AutoSave {
		var draft models.PermitForm
		switch err := s.drafts.Load(ctx, &draft); {
		case err == nil:
			form = draft
			s.notifier.Success("Draft restored from previous session")
		case errors.Is(err, appErrors.ErrStoreMiss):
		default:
			s.logger.Warn("could not restore draft", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.mode = dto.CaptureModeNew
	s.editID = ""
	s.form = form
	s.saving = false
	s.savedAt = time.Time{}
	s.mu.Unlock()

	if err := s.refreshPreview(ctx); err != nil {
		return s.View(), err
	}
	return s.View(), nil
}

func (s *CaptureService) openEdit(ctx context.Context, id string) (dto.CaptureView, error) {
	permit, err := s.permits.Get(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return s.View(), err
		}
		s.notifier.Error("Error loading permit data")
		return s.View(), appErrors.Clone(appErrors.FromError(err), "Error loading permit data")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = dto.CaptureModeEdit
	s.editID = id
	s.form = models.FormFromPermit(*permit)
	s.saving = false
	return s.viewLocked(), nil
}

// Change sets one field. In new mode with auto-save on, a draft save is
// scheduled once a first or last name has been typed.
func (s *CaptureService) Change(field, value string) (dto.CaptureView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.form.Set(field, value); err != nil {
		return s.viewLocked(), appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if s.mode == dto.CaptureModeNew && s.cfg.AutoSave && s.form.HasName() {
		s.saving = true
		s.saver.Trigger()
	}
	return s.viewLocked(), nil
}

// Submit validates the form and creates or updates the permit. Nothing is
// sent when validation fails.
func (s *CaptureService) Submit(ctx context.Context, files []httpclient.FilePart) (*models.Permit, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "A submission is already in progress")
	}
	form := s.form
	mode, editID := s.mode, s.editID
	if err := s.validate.Struct(form); err != nil {
		s.mu.Unlock()
		msg := validationMessage(err)
		s.notifier.Error(msg)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if mode == dto.CaptureModeEdit {
		updated, err := s.permits.Update(ctx, editID, form)
		if err != nil {
			return nil, s.saveFailed(err)
		}
		s.notifier.Success("Permit record updated successfully!")
		return updated, nil
	}

	created, err := s.permits.Create(ctx, form, files)
	if err != nil {
		return nil, s.saveFailed(err)
	}
	s.logger.Info("permit created", zap.String("permitNumber", created.PermitNumber))
	s.notifier.Success(fmt.Sprintf("Permit %s created successfully!", created.PermitNumber))
	if err := s.clearForm(ctx); err != nil {
		s.logger.Warn("form reset after create failed", zap.Error(err))
	}
	return created, nil
}

// Reset discards the draft and starts a blank form with a fresh number suggestion.
func (s *CaptureService) Reset(ctx context.Context) (dto.CaptureView, error) {
	s.mu.Lock()
	s.mode = dto.CaptureModeNew
	s.editID = ""
	s.mu.Unlock()
	err := s.clearForm(ctx)
	return s.View(), err
}

// Close stops the auto-save timer; no draft write happens afterwards.
func (s *CaptureService) Close() {
	s.saver.Stop()
}

// PreviewPermitNumber suggests the next permit number of the current year
// from the highest sequence the backend returns. It is a hint only; the
// backend allocates the authoritative number.
func (s *CaptureService) PreviewPermitNumber(ctx context.Context) (string, error) {
	year := s.now().In(s.cfg.Location).Year()
	params := url.Values{}
	params.Set("search", fmt.Sprintf("BP-%d", year))
	params.Set("limit", strconv.Itoa(s.cfg.PreviewScan))
	page, err := s.permits.List(ctx, params)
	if err != nil {
		return "", err
	}
	prefix := fmt.Sprintf("BP-%d-", year)
	highest := 0
	for _, p := range page.Permits {
		if !strings.HasPrefix(p.PermitNumber, prefix) {
			continue
		}
		if n := models.PermitSequence(p.PermitNumber); n > highest {
			highest = n
		}
	}
	return models.FormatPermitNumber(year, highest+1), nil
}

func (s *CaptureService) refreshPreview(ctx context.Context) error {
	number, err := s.PreviewPermitNumber(ctx)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return err
		}
		s.logger.Warn("permit number preview failed", zap.Error(err))
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == dto.CaptureModeNew {
		s.form.PermitNumber = number
	}
	return nil
}

func (s *CaptureService) clearForm(ctx context.Context) error {
	s.saver.Cancel()
	if err := s.drafts.Clear(ctx); err != nil {
		s.logger.Warn("could not clear draft", zap.Error(err))
	}
	s.mu.Lock()
	s.form = models.NewPermitForm()
	s.saving = false
	s.savedAt = time.Time{}
	s.mu.Unlock()
	return s.refreshPreview(ctx)
}

func (s *CaptureService) saveFailed(err error) error {
	if errors.Is(err, appErrors.ErrUnauthorized) {
		return err
	}
	msg := appErrors.UserMessage(err, "Error saving record")
	s.notifier.Error(msg)
	return appErrors.Clone(appErrors.FromError(err), msg)
}

// saveDraft runs on the debounce timer.
func (s *CaptureService) saveDraft() {
	s.mu.Lock()
	if s.mode != dto.CaptureModeNew {
		s.saving = false
		s.mu.Unlock()
		return
	}
	form := s.form
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.drafts.Save(ctx, form)
	if s.metrics != nil {
		s.metrics.ObserveDraftSave(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.logger.Warn("draft save failed", zap.Error(err))
		return
	}
	s.savedAt = s.now()
}

func (s *CaptureService) viewLocked() dto.CaptureView {
	status := dto.SaveStatusIdle
	switch {
	case s.saving:
		status = dto.SaveStatusSaving
	case !s.savedAt.IsZero() && s.now().Sub(s.savedAt) < savedStatusHold:
		status = dto.SaveStatusSaved
	}
	return dto.CaptureView{
		Mode:       s.mode,
		EditID:     s.editID,
		Form:       s.form,
		SaveStatus: status,
		Submitting: s.submitting,
	}
}
