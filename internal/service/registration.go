package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elioraretreat/registration-server/internal/logger"
	"github.com/elioraretreat/registration-server/internal/model"
)

// uploadURLExpiry bounds how long a presigned upload target stays valid.
const uploadURLExpiry = 10 * time.Minute

type Registration struct {
	store  model.RegistrationStore
	blobs  model.BlobStore
	logger *logger.Logger
}

func NewRegistration(
	store model.RegistrationStore,
	blobs model.BlobStore,
	logger *logger.Logger,
) *Registration {
	return &Registration{
		store:  store,
		blobs:  blobs,
		logger: logger,
	}
}

// CreateRegistration validates raw form input and persists a new
// registration. Field errors block the write entirely; no partial
// success. When a proof file is present it is uploaded before the insert,
// and deleted again if the insert fails.
func (s *Registration) CreateRegistration(ctx context.Context, input RegistrationInput) (model.Registration, FieldErrors, error) {
	params, fieldErrs := ValidateRegistration(input)
	if len(fieldErrs) > 0 {
		return model.Registration{}, fieldErrs, nil
	}

	proofKey := params.ProofKey
	if params.Proof != nil {
		proofKey = s.generateProofKey()
		err := s.blobs.Upload(ctx, proofKey, bytes.NewReader(params.Proof.Data), params.Proof.Size, params.Proof.ContentType)
		if err != nil {
			return model.Registration{}, nil, fmt.Errorf("failed to upload payment proof: %w", err)
		}
	}

	registration := model.Registration{
		ID:               uuid.New(),
		FullName:         params.FullName,
		Gender:           params.Gender,
		LifeStatus:       params.LifeStatus,
		DateOfBirth:      params.DateOfBirth,
		WhatsappNumber:   params.WhatsappNumber,
		EmergencyContact: params.EmergencyContact,
		EmailAddress:     params.EmailAddress,
		Address:          params.Address,
		ParishName:       params.ParishName,
		PaymentMethod:    params.PaymentMethod,
		PrayerIntention:  params.PrayerIntention,
		Comment:          params.Comment,
		PaymentProof:     proofKey,
	}

	saved, err := s.store.Create(ctx, registration)
	if err != nil {
		// Compensate the orphaned blob; its loss is logged, not fatal.
		if params.Proof != nil && proofKey != "" {
			if delErr := s.blobs.Delete(ctx, proofKey); delErr != nil {
				s.logger.Error("Failed to delete orphaned payment proof", "key", proofKey, "error", delErr)
			}
		}
		return model.Registration{}, nil, fmt.Errorf("failed to create registration: %w", err)
	}

	return saved, nil, nil
}

// GetRegistration returns a single registration by id.
func (s *Registration) GetRegistration(ctx context.Context, id uuid.UUID) (model.Registration, error) {
	registration, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Registration{}, fmt.Errorf("failed to get registration by id: %w", err)
	}

	return registration, nil
}

// UpdateRegistration applies an admin edit to the allow-listed fields.
// ID, CreatedAt and PaymentProof are never modified.
func (s *Registration) UpdateRegistration(ctx context.Context, id uuid.UUID, input RegistrationInput) (model.Registration, FieldErrors, error) {
	patch, fieldErrs := ValidatePatch(input)
	if len(fieldErrs) > 0 {
		return model.Registration{}, fieldErrs, nil
	}

	updated, err := s.store.Patch(ctx, id, patch)
	if err != nil {
		return model.Registration{}, nil, fmt.Errorf("failed to patch registration: %w", err)
	}

	return updated, nil, nil
}

// ListRegistrations returns all registrations, newest first.
func (s *Registration) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	registrations, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	return registrations, nil
}

// GenerateUploadURL mints a presigned one-time upload target and the
// storage key the client must send back with the form.
func (s *Registration) GenerateUploadURL(ctx context.Context) (uploadURL string, key string, err error) {
	key = s.generateProofKey()
	uploadURL, err = s.blobs.PresignedUploadURL(ctx, key, uploadURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate upload url: %w", err)
	}
	return uploadURL, key, nil
}

// ResolveProofURL exchanges a registration's payment proof reference for a
// time-limited download URL. Registrations without a proof yield
// model.ErrNotFound.
func (s *Registration) ResolveProofURL(ctx context.Context, id uuid.UUID) (string, error) {
	registration, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get registration by id: %w", err)
	}

	if registration.PaymentProof == "" {
		return "", model.ErrNotFound
	}

	url, err := s.blobs.ResolveURL(ctx, registration.PaymentProof, downloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to resolve payment proof url: %w", err)
	}

	return url, nil
}

func (s *Registration) generateProofKey() string {
	return fmt.Sprintf("payment-proofs/%s", uuid.NewString())
}
