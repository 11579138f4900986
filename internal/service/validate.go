package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/elioraretreat/registration-server/internal/model"
)

// FieldErrors maps a form field name to a human-readable error message.
type FieldErrors map[string]string

// RegistrationInput is raw, untrusted form input for a registration.
type RegistrationInput struct {
	FullName         string
	Gender           string
	LifeStatus       string
	DateOfBirth      string
	WhatsappNumber   string
	EmergencyContact string
	EmailAddress     string
	Address          string
	ParishName       string
	PaymentMethod    string
	PrayerIntention  string
	Comment          string
	ProofKey         string
	Proof            *model.ProofFile
}

// MaxProofSize is the upper bound on a payment proof image. Transports
// should avoid buffering anything larger before validation sees it.
const MaxProofSize = 2 << 20 // 2 MiB

var (
	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var allowedProofTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidateRegistration converts raw form input into a normalized create
// payload or a set of field-level errors. It never partially succeeds: any
// error blocks the write entirely.
func ValidateRegistration(input RegistrationInput) (model.CreateRegistrationParams, FieldErrors) {
	errs := FieldErrors{}

	profile := validateProfile(input, errs)

	params := model.CreateRegistrationParams{
		FullName:         profile.FullName,
		Gender:           profile.Gender,
		LifeStatus:       profile.LifeStatus,
		DateOfBirth:      profile.DateOfBirth,
		WhatsappNumber:   profile.WhatsappNumber,
		EmergencyContact: profile.EmergencyContact,
		EmailAddress:     profile.EmailAddress,
		Address:          profile.Address,
		ParishName:       profile.ParishName,
		PaymentMethod:    profile.PaymentMethod,
		PrayerIntention:  profile.PrayerIntention,
		Comment:          profile.Comment,
	}

	// A payment proof only makes sense for online payments. Under cash it
	// is dropped rather than stored.
	if params.PaymentMethod == model.PaymentMethodOnline {
		switch {
		case input.Proof != nil:
			if !allowedProofTypes[input.Proof.ContentType] {
				errs["paymentProof"] = "Only JPG/PNG allowed."
			} else if input.Proof.Size > MaxProofSize {
				errs["paymentProof"] = "File size must be under 2MB."
			} else {
				params.Proof = input.Proof
			}
		case input.ProofKey != "":
			params.ProofKey = input.ProofKey
		default:
			errs["paymentProof"] = "Payment screenshot is required."
		}
	}

	if len(errs) > 0 {
		return model.CreateRegistrationParams{}, errs
	}
	return params, nil
}

// ValidatePatch validates an admin edit of the allow-listed mutable fields.
func ValidatePatch(input RegistrationInput) (model.RegistrationPatch, FieldErrors) {
	errs := FieldErrors{}

	profile := validateProfile(input, errs)
	if len(errs) > 0 {
		return model.RegistrationPatch{}, errs
	}
	return profile, nil
}

func validateProfile(input RegistrationInput, errs FieldErrors) model.RegistrationPatch {
	var out model.RegistrationPatch

	out.FullName = strings.TrimSpace(input.FullName)
	if out.FullName == "" {
		errs["fullName"] = "Full Name is required."
	}

	switch model.Gender(input.Gender) {
	case model.GenderMale, model.GenderFemale:
		out.Gender = model.Gender(input.Gender)
	default:
		errs["gender"] = "Please select your gender."
	}

	switch model.LifeStatus(input.LifeStatus) {
	case model.LifeStatusStudy, model.LifeStatusJob, model.LifeStatusOther:
		out.LifeStatus = model.LifeStatus(input.LifeStatus)
	default:
		errs["lifeStatus"] = "Please select your current status."
	}

	if input.DateOfBirth == "" {
		errs["dateOfBirth"] = "Date of Birth is required."
	} else {
		dob, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			errs["dateOfBirth"] = "Enter a valid date of birth."
		} else {
			out.DateOfBirth = dob
		}
	}

	if !phoneRegex.MatchString(input.WhatsappNumber) {
		errs["whatsappNumber"] = "Enter a valid 10-digit WhatsApp number."
	} else {
		out.WhatsappNumber = input.WhatsappNumber
	}

	out.EmergencyContact = strings.TrimSpace(input.EmergencyContact)
	if out.EmergencyContact == "" {
		errs["emergencyContact"] = "Emergency contact is required."
	} else if input.WhatsappNumber == input.EmergencyContact {
		errs["emergencyContact"] = "Emergency contact cannot be the same as WhatsApp number"
	}

	if !emailRegex.MatchString(input.EmailAddress) {
		errs["emailAddress"] = "Enter a valid email address."
	} else {
		out.EmailAddress = input.EmailAddress
	}

	out.ParishName = strings.TrimSpace(input.ParishName)
	if out.ParishName == "" {
		errs["parishName"] = "Parish name is required."
	}

	switch model.PaymentMethod(input.PaymentMethod) {
	case model.PaymentMethodCash, model.PaymentMethodOnline:
		out.PaymentMethod = model.PaymentMethod(input.PaymentMethod)
	default:
		errs["paymentMethod"] = "Please select a payment method."
	}

	// Optional free-form fields pass through unchanged.
	out.Address = input.Address
	out.PrayerIntention = input.PrayerIntention
	out.Comment = input.Comment

	return out
}
