package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/elioraretreat/registration-server/internal/model"
)

var _ model.RegistrationStore = (*RegistrationRepository)(nil)

type RegistrationRepository struct {
	db *Connection
}

func NewRegistrationRepository(db *Connection) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
	}
}

const registrationColumns = `id, full_name, gender, life_status, date_of_birth, whatsapp_number,
	emergency_contact, email_address, address, parish_name, payment_method,
	prayer_intention, comment, payment_proof, created_at`

func (r *RegistrationRepository) Create(ctx context.Context, registration model.Registration) (model.Registration, error) {
	query := `
		INSERT INTO registrations (id, full_name, gender, life_status, date_of_birth, whatsapp_number,
			emergency_contact, email_address, address, parish_name, payment_method,
			prayer_intention, comment, payment_proof)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + registrationColumns

	row := r.db.QueryRow(ctx, query,
		registration.ID, registration.FullName, string(registration.Gender), string(registration.LifeStatus),
		registration.DateOfBirth, registration.WhatsappNumber, registration.EmergencyContact,
		registration.EmailAddress, registration.Address, registration.ParishName,
		string(registration.PaymentMethod), registration.PrayerIntention, registration.Comment,
		registration.PaymentProof,
	)

	saved, err := scanRegistration(row)
	if err != nil {
		return model.Registration{}, err
	}

	return saved, nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	registration, err := scanRegistration(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Registration{}, model.ErrNotFound
		}
		return model.Registration{}, err
	}

	return registration, nil
}

// Patch updates the allow-listed mutable fields of a registration.
// id, created_at and payment_proof are never touched.
func (r *RegistrationRepository) Patch(ctx context.Context, id uuid.UUID, fields model.RegistrationPatch) (model.Registration, error) {
	query := `
		UPDATE registrations
		SET full_name = $2, gender = $3, life_status = $4, date_of_birth = $5,
			whatsapp_number = $6, emergency_contact = $7, email_address = $8,
			address = $9, parish_name = $10, payment_method = $11,
			prayer_intention = $12, comment = $13
		WHERE id = $1
		RETURNING ` + registrationColumns

	row := r.db.QueryRow(ctx, query,
		id, fields.FullName, string(fields.Gender), string(fields.LifeStatus), fields.DateOfBirth,
		fields.WhatsappNumber, fields.EmergencyContact, fields.EmailAddress,
		fields.Address, fields.ParishName, string(fields.PaymentMethod),
		fields.PrayerIntention, fields.Comment,
	)

	updated, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Registration{}, model.ErrNotFound
		}
		return model.Registration{}, err
	}

	return updated, nil
}

func (r *RegistrationRepository) ListAll(ctx context.Context) ([]model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registrations []model.Registration
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registrations, nil
}

func scanRegistration(row pgx.Row) (model.Registration, error) {
	var registration model.Registration
	err := row.Scan(
		&registration.ID, &registration.FullName, &registration.Gender, &registration.LifeStatus,
		&registration.DateOfBirth, &registration.WhatsappNumber, &registration.EmergencyContact,
		&registration.EmailAddress, &registration.Address, &registration.ParishName,
		&registration.PaymentMethod, &registration.PrayerIntention, &registration.Comment,
		&registration.PaymentProof, &registration.CreatedAt,
	)
	if err != nil {
		return model.Registration{}, err
	}
	return registration, nil
}
