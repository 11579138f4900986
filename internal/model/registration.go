package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrExportInProgress is returned when an export is requested while a
// previous one has not finished yet.
var ErrExportInProgress = errors.New("export already in progress")

// RegistrationStore defines persistence operations for registrations.
// There is deliberately no delete: registrations are never removed.
type RegistrationStore interface {
	Create(ctx context.Context, registration Registration) (Registration, error)
	GetByID(ctx context.Context, id uuid.UUID) (Registration, error)
	Patch(ctx context.Context, id uuid.UUID, fields RegistrationPatch) (Registration, error)
	ListAll(ctx context.Context) ([]Registration, error)
}

// Registration represents one participant's submitted record.
type Registration struct {
	ID               uuid.UUID
	FullName         string
	Gender           Gender
	LifeStatus       LifeStatus
	DateOfBirth      time.Time
	WhatsappNumber   string
	EmergencyContact string
	EmailAddress     string
	Address          string
	ParishName       string
	PaymentMethod    PaymentMethod
	PrayerIntention  string
	Comment          string
	// PaymentProof is an opaque blob storage key, not a URL. It must be
	// exchanged for a time-limited URL through the blob store at read time.
	PaymentProof string
	CreatedAt    time.Time
}

// Gender enumerates the accepted gender values.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// LifeStatus enumerates the accepted life status values.
type LifeStatus string

const (
	LifeStatusStudy LifeStatus = "Study"
	LifeStatusJob   LifeStatus = "Job"
	LifeStatusOther LifeStatus = "Other"
)

// PaymentMethod enumerates the accepted payment methods.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// RegistrationPatch carries the allow-listed mutable fields for an admin
// edit. ID, CreatedAt and PaymentProof are not patchable.
type RegistrationPatch struct {
	FullName         string
	Gender           Gender
	LifeStatus       LifeStatus
	DateOfBirth      time.Time
	WhatsappNumber   string
	EmergencyContact string
	EmailAddress     string
	Address          string
	ParishName       string
	PaymentMethod    PaymentMethod
	PrayerIntention  string
	Comment          string
}

// CreateRegistrationParams contains validated form input for a new
// registration plus the optional payment proof file contents.
type CreateRegistrationParams struct {
	FullName         string
	Gender           Gender
	LifeStatus       LifeStatus
	DateOfBirth      time.Time
	WhatsappNumber   string
	EmergencyContact string
	EmailAddress     string
	Address          string
	ParishName       string
	PaymentMethod    PaymentMethod
	PrayerIntention  string
	Comment          string
	// ProofKey references a blob already uploaded through a presigned URL.
	// When Proof is set instead, the server uploads the bytes itself.
	ProofKey string
	Proof    *ProofFile
}

// ProofFile is a payment proof image submitted with the form.
type ProofFile struct {
	ContentType string
	Size        int64
	Data        []byte
}
