package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/elioraretreat/registration-server/internal/logger"
	"github.com/elioraretreat/registration-server/internal/model"
)

const (
	exportSheet = "Participants"

	// proofLinkLabel is the fixed display text of a resolved proof link;
	// proofFallback is shown when there is no proof or resolution failed.
	proofLinkLabel = "Slip Attached"
	proofFallback  = "-"

	// downloadURLExpiry bounds how long resolved proof links stay valid.
	downloadURLExpiry = 1 * time.Hour

	// resolveConcurrency caps parallel blob URL resolutions per export.
	resolveConcurrency = 8
)

// Export serializes a filtered registration set to a spreadsheet, resolving
// payment proof references to time-limited URLs at export time.
type Export struct {
	blobs  model.BlobStore
	logger *logger.Logger
	busy   atomic.Bool
}

func NewExport(blobs model.BlobStore, logger *logger.Logger) *Export {
	return &Export{
		blobs:  blobs,
		logger: logger,
	}
}

// Busy reports whether an export is currently running, so the triggering
// surface can disable re-entry.
func (s *Export) Busy() bool {
	return s.busy.Load()
}

// exportColumn is one spreadsheet column: header and value projection.
type exportColumn struct {
	Header string
	Value  func(r model.Registration) string
}

// exportColumns is the fixed column projection. The payment proof column is
// appended separately because its cells carry hyperlinks.
var exportColumns = []exportColumn{
	{"Full Name", func(r model.Registration) string { return r.FullName }},
	{"Gender", func(r model.Registration) string { return string(r.Gender) }},
	{"Date of Birth", func(r model.Registration) string { return r.DateOfBirth.Format("2006-01-02") }},
	{"Number", func(r model.Registration) string { return r.WhatsappNumber }},
	{"Emergency Contact", func(r model.Registration) string { return r.EmergencyContact }},
	{"Email", func(r model.Registration) string { return r.EmailAddress }},
	{"Address", func(r model.Registration) string { return orDash(r.Address) }},
	{"Parish", func(r model.Registration) string { return r.ParishName }},
	{"Life Status", func(r model.Registration) string { return string(r.LifeStatus) }},
	{"Payment", func(r model.Registration) string { return string(r.PaymentMethod) }},
	{"Comment", func(r model.Registration) string { return orDash(r.Comment) }},
	{"Prayer Intention", func(r model.Registration) string { return orDash(r.PrayerIntention) }},
	{"Registered Date", func(r model.Registration) string { return r.CreatedAt.Format("02/01/2006") }},
}

const proofHeader = "Payment Proof"

func orDash(s string) string {
	if s == "" {
		return proofFallback
	}
	return s
}

// ExportRegistrations builds an xlsx workbook with one row per given
// registration. Proof references are resolved to URLs one per record;
// individual resolution failures are logged and replaced with the fallback
// label, never aborting the whole export. A second export requested while
// one is running is rejected with model.ErrExportInProgress.
func (s *Export) ExportRegistrations(ctx context.Context, registrations []model.Registration) ([]byte, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, model.ErrExportInProgress
	}
	defer s.busy.Store(false)

	proofURLs := s.resolveProofURLs(ctx, registrations)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	header := make([]interface{}, 0, len(exportColumns)+1)
	for _, col := range exportColumns {
		header = append(header, col.Header)
	}
	header = append(header, proofHeader)
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	proofCol := len(exportColumns) + 1
	for i, r := range registrations {
		rowNum := i + 2

		row := make([]interface{}, 0, len(exportColumns)+1)
		for _, col := range exportColumns {
			row = append(row, col.Value(r))
		}

		proofCell, err := excelize.CoordinatesToCellName(proofCol, rowNum)
		if err != nil {
			return nil, fmt.Errorf("failed to compute proof cell: %w", err)
		}

		if url := proofURLs[i]; url != "" {
			row = append(row, proofLinkLabel)
			if err := f.SetCellHyperLink(exportSheet, proofCell, url, "External"); err != nil {
				return nil, fmt.Errorf("failed to set proof link: %w", err)
			}
		} else {
			row = append(row, proofFallback)
		}

		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, fmt.Errorf("failed to compute row cell: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to assemble workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// resolveProofURLs resolves each registration's proof reference
// independently, concurrently up to a limit. A failed resolution leaves an
// empty URL for that record.
func (s *Export) resolveProofURLs(ctx context.Context, registrations []model.Registration) []string {
	urls := make([]string, len(registrations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	for i, r := range registrations {
		if r.PaymentProof == "" {
			continue
		}
		g.Go(func() error {
			url, err := s.blobs.ResolveURL(gctx, r.PaymentProof, downloadURLExpiry)
			if err != nil {
				s.logger.Error("Failed to resolve payment proof url",
					"registration_id", r.ID,
					"key", r.PaymentProof,
					"error", err)
				return nil
			}
			urls[i] = url
			return nil
		})
	}

	// Goroutines never return errors; Wait only ensures all resolutions
	// finished before the file is assembled.
	_ = g.Wait()

	return urls
}
