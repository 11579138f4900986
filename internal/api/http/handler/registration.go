package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/elioraretreat/registration-server/internal/logger"
	"github.com/elioraretreat/registration-server/internal/model"
	"github.com/elioraretreat/registration-server/internal/service"
)

// maxFormMemory bounds the in-memory multipart spool; maxRequestBody caps
// the whole request so an oversized upload is cut off at the wire instead
// of being buffered.
const (
	maxFormMemory  = 4 << 20
	maxRequestBody = 8 << 20
)

// RegistrationService defines business operations for registrations.
type RegistrationService interface {
	CreateRegistration(ctx context.Context, input service.RegistrationInput) (model.Registration, service.FieldErrors, error)
	GetRegistration(ctx context.Context, id uuid.UUID) (model.Registration, error)
	UpdateRegistration(ctx context.Context, id uuid.UUID, input service.RegistrationInput) (model.Registration, service.FieldErrors, error)
	ListRegistrations(ctx context.Context) ([]model.Registration, error)
	GenerateUploadURL(ctx context.Context) (uploadURL string, key string, err error)
}

// Registration handles the public registration form endpoints.
type Registration struct {
	registrationService RegistrationService
	logger              *logger.Logger
}

// NewRegistration creates a new Registration handler.
func NewRegistration(registrationService RegistrationService, logger *logger.Logger) *Registration {
	return &Registration{
		registrationService: registrationService,
		logger:              logger,
	}
}

// registrationResponse is the JSON shape of a registration.
type registrationResponse struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	Gender           string    `json:"gender"`
	LifeStatus       string    `json:"lifeStatus"`
	DateOfBirth      string    `json:"dateOfBirth"`
	WhatsappNumber   string    `json:"whatsappNumber"`
	EmergencyContact string    `json:"emergencyContact"`
	EmailAddress     string    `json:"emailAddress"`
	Address          string    `json:"address,omitempty"`
	ParishName       string    `json:"parishName"`
	PaymentMethod    string    `json:"paymentMethod"`
	PrayerIntention  string    `json:"prayerIntention,omitempty"`
	Comment          string    `json:"comment,omitempty"`
	PaymentProof     string    `json:"paymentProof,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toRegistrationResponse(r model.Registration) registrationResponse {
	return registrationResponse{
		ID:               r.ID.String(),
		FullName:         r.FullName,
		Gender:           string(r.Gender),
		LifeStatus:       string(r.LifeStatus),
		DateOfBirth:      r.DateOfBirth.Format("2006-01-02"),
		WhatsappNumber:   r.WhatsappNumber,
		EmergencyContact: r.EmergencyContact,
		EmailAddress:     r.EmailAddress,
		Address:          r.Address,
		ParishName:       r.ParishName,
		PaymentMethod:    string(r.PaymentMethod),
		PrayerIntention:  r.PrayerIntention,
		Comment:          r.Comment,
		PaymentProof:     r.PaymentProof,
		CreatedAt:        r.CreatedAt,
	}
}

// Create accepts the public registration form as multipart form data with
// an optional payment proof image.
func (h *Registration) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form data"})
		return
	}

	input := service.RegistrationInput{
		FullName:         r.FormValue("fullName"),
		Gender:           r.FormValue("gender"),
		LifeStatus:       r.FormValue("lifeStatus"),
		DateOfBirth:      r.FormValue("dateOfBirth"),
		WhatsappNumber:   r.FormValue("whatsappNumber"),
		EmergencyContact: r.FormValue("emergencyContact"),
		EmailAddress:     r.FormValue("emailAddress"),
		Address:          r.FormValue("address"),
		ParishName:       r.FormValue("parishName"),
		PaymentMethod:    r.FormValue("paymentMethod"),
		PrayerIntention:  r.FormValue("prayerIntention"),
		Comment:          r.FormValue("comment"),
		ProofKey:         r.FormValue("paymentProofKey"),
	}

	proof, err := readProofFile(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read payment proof"})
		return
	}
	input.Proof = proof

	saved, fieldErrs, err := h.registrationService.CreateRegistration(r.Context(), input)
	if len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		h.logger.Error("Registration handler: create failed", "error", err)
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRegistrationResponse(saved))
}

// readProofFile extracts the optional payment proof upload. The MIME type
// is sniffed from the content, not trusted from the client header. A part
// over the size limit is never read past its sniff prefix; validation
// rejects it from the declared size alone.
func readProofFile(r *http.Request) (*model.ProofFile, error) {
	file, header, err := r.FormFile("paymentProof")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Size > service.MaxProofSize {
		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		return &model.ProofFile{
			ContentType: http.DetectContentType(sniff[:n]),
			Size:        header.Size,
		}, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &model.ProofFile{
		ContentType: http.DetectContentType(data),
		Size:        header.Size,
		Data:        data,
	}, nil
}

type uploadURLResponse struct {
	UploadURL  string `json:"uploadUrl"`
	StorageKey string `json:"storageKey"`
}

// GenerateUploadURL returns a presigned one-time upload target for clients
// that PUT the proof image directly to the blob store.
func (h *Registration) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	uploadURL, key, err := h.registrationService.GenerateUploadURL(r.Context())
	if err != nil {
		h.logger.Error("Registration handler: generate upload url failed", "error", err)
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadURLResponse{UploadURL: uploadURL, StorageKey: key})
}

// parseID extracts and validates the registration id path parameter.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid registration id: %w", err)
	}
	return id, nil
}
