// internal/services/verification_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/models"
)

// Mailer is the notification slice the worker needs. NotificationService
// satisfies it in production; tests substitute a recorder.
type Mailer interface {
	Send(to, subject, body string) error
}

// VerificationService is the XOR batch worker. Each invocation scans for
// applications in GDS_UPLOADED, runs the geometry tool against each file
// and drives the application to XOR_PASSED or XOR_FAILED. Failures on
// one item never stop the batch.
type VerificationService struct {
	db      *gorm.DB
	storage ObjectStorage
	mailer  Mailer
	cfg     config.VerificationConfig
	client  *http.Client
}

// RunSummary counts the outcome of one worker pass.
type RunSummary struct {
	Scanned int
	Passed  int
	Failed  int
	Errors  int
}

func NewVerificationService(db *gorm.DB, storage ObjectStorage, mailer Mailer, cfg config.VerificationConfig) *VerificationService {
	return &VerificationService{
		db:      db,
		storage: storage,
		mailer:  mailer,
		cfg:     cfg,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// Run executes one pass over every eligible application. There is no
// claim step: the deployment runs a single worker, so an item picked up
// here is not contended. Per-item errors are logged and counted; the
// item stays in GDS_UPLOADED for the next pass.
func (s *VerificationService) Run(ctx context.Context) (RunSummary, error) {
	var summary RunSummary

	var pending []models.Application
	err := s.db.Preload("User").Preload("Shuttle").
		Where("status = ?", models.ApplicationStatusGDSUploaded).
		Order("created_at asc").
		Find(&pending).Error
	if err != nil {
		return summary, fmt.Errorf("failed to scan for pending applications: %w", err)
	}

	summary.Scanned = len(pending)
	logrus.WithField("pending", len(pending)).Info("XOR verification pass started")

	for i := range pending {
		app := &pending[i]
		if !app.EligibleForVerification() {
			// Row changed between scan and processing, or the path is
			// missing. Skip rather than fail the batch.
			continue
		}

		status, err := s.processOne(ctx, app)
		if err != nil {
			summary.Errors++
			logrus.WithFields(logrus.Fields{
				"application_id": app.ID,
				"error":          err,
			}).Error("verification item failed")
			continue
		}

		switch status {
		case models.ApplicationStatusXORPassed:
			summary.Passed++
		case models.ApplicationStatusXORFailed:
			summary.Failed++
		}
	}

	logrus.WithFields(logrus.Fields{
		"scanned": summary.Scanned,
		"passed":  summary.Passed,
		"failed":  summary.Failed,
		"errors":  summary.Errors,
	}).Info("XOR verification pass finished")

	return summary, nil
}

// processOne runs the full pipeline for a single application: fetch the
// GDS file through a short-lived signed URL, invoke the tool, store the
// report, transition the status and notify the applicant.
func (s *VerificationService) processOne(ctx context.Context, app *models.Application) (models.ApplicationStatus, error) {
	localPath, cleanup, err := s.fetchDesignFile(ctx, app)
	if err != nil {
		return "", err
	}
	defer cleanup()

	verdict, report := s.invokeTool(ctx, localPath)
	if verdict == "" {
		// Tool could not even start; item error, not a FAIL verdict.
		return "", &ToolInvocationError{ExitCode: -1, Output: report}
	}

	reportKey := XORReportKey(app.UserID, app.ID)
	if err := s.storage.Upload(reportKey, strings.NewReader(report), "text/plain"); err != nil {
		return "", &TransferError{Op: "xor report upload", Err: err}
	}

	summaryLine := firstLine(report)
	if err := s.transition(app, verdict, reportKey, summaryLine); err != nil {
		return "", err
	}

	s.notify(app, verdict, summaryLine)

	return verdict, nil
}

// fetchDesignFile pulls the stored GDS object into a scratch directory
// through a signed read URL. The returned cleanup removes the directory.
func (s *VerificationService) fetchDesignFile(ctx context.Context, app *models.Application) (string, func(), error) {
	noop := func() {}

	if app.GDSPath == nil || *app.GDSPath == "" {
		return "", noop, &FetchError{Op: "signed URL", Err: fmt.Errorf("application has no stored GDS path")}
	}

	ttl := time.Duration(s.cfg.ReadURLTTLSeconds) * time.Second
	url, err := s.storage.SignedDownloadURL(*app.GDSPath, ttl)
	if err != nil {
		return "", noop, &FetchError{Op: "signed URL", Err: err}
	}

	dir, err := os.MkdirTemp("", "xor-")
	if err != nil {
		return "", noop, &FetchError{Op: "scratch dir", Err: err}
	}
	cleanup := func() { os.RemoveAll(dir) }

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cleanup()
		return "", noop, &FetchError{Op: "download", Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		cleanup()
		return "", noop, &FetchError{Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		cleanup()
		return "", noop, &FetchError{Op: "download", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	localPath := filepath.Join(dir, filepath.Base(*app.GDSPath))
	out, err := os.Create(localPath)
	if err != nil {
		cleanup()
		return "", noop, &FetchError{Op: "scratch file", Err: err}
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		cleanup()
		return "", noop, &FetchError{Op: "download", Err: err}
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", noop, &FetchError{Op: "scratch file", Err: err}
	}

	return localPath, cleanup, nil
}

// invokeTool runs the geometry tool in batch mode. A zero exit is a
// PASS, a non-zero exit is a legitimate FAIL verdict. An empty verdict
// means the tool could not be started at all.
func (s *VerificationService) invokeTool(ctx context.Context, localPath string) (models.ApplicationStatus, string) {
	cmd := exec.CommandContext(ctx, s.cfg.ToolPath,
		"-b",
		"-r", s.cfg.RunsetPath,
		"-rd", "IN_FILE="+localPath,
	)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	report := output.String()
	if report == "" {
		report = "no output from verification tool"
	}

	if err == nil {
		return models.ApplicationStatusXORPassed, report
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return models.ApplicationStatusXORFailed, report
	}

	// Start failure (missing binary, context cancelled before exec).
	return "", err.Error()
}

// transition moves the application into its terminal status, checked
// against the allowed state machine.
func (s *VerificationService) transition(app *models.Application, verdict models.ApplicationStatus, reportKey, summaryLine string) error {
	if !app.Status.CanTransitionTo(verdict) {
		return &PersistenceError{
			Op:  "status transition",
			Err: fmt.Errorf("illegal transition %s -> %s", app.Status, verdict),
		}
	}

	updates := map[string]interface{}{
		"status":          verdict,
		"xor_report_path": reportKey,
		"xor_summary":     summaryLine,
	}
	if err := s.db.Model(app).Updates(updates).Error; err != nil {
		return &PersistenceError{Op: "verdict update", Err: err}
	}

	app.Status = verdict
	app.XORReportPath = &reportKey
	app.XORSummary = &summaryLine
	return nil
}

// notify mails the applicant the verdict. The status is already
// committed, so a mail failure is logged but the item is not reprocessed.
func (s *VerificationService) notify(app *models.Application, verdict models.ApplicationStatus, summaryLine string) {
	if app.User.Email == "" {
		logrus.WithField("application_id", app.ID).Warn("no applicant email on record, skipping notification")
		return
	}

	process := app.Shuttle.Process

	subject := fmt.Sprintf("MPW Application %s", verdict)
	body := fmt.Sprintf("Your MPW application for %s is now %s.\nSummary: %s", process, verdict, summaryLine)
	if err := s.mailer.Send(app.User.Email, subject, body); err != nil {
		logrus.WithFields(logrus.Fields{
			"application_id": app.ID,
			"error":          err,
		}).Error("failed to send verdict notification")
	}
}

func firstLine(report string) string {
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return "no summary available"
}
