//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/elioraretreat/registration-server/internal/model"
	repo "github.com/elioraretreat/registration-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "eliora_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/eliora_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newRegistration() model.Registration {
	return model.Registration{
		ID:               uuid.New(),
		FullName:         "Anna Fernando",
		Gender:           model.GenderFemale,
		LifeStatus:       model.LifeStatusStudy,
		DateOfBirth:      time.Date(2001, time.March, 12, 0, 0, 0, 0, time.UTC),
		WhatsappNumber:   "0771234567",
		EmergencyContact: "0719876543",
		EmailAddress:     fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Address:          "12 Temple Road",
		ParishName:       "St. Mary's Church",
		PaymentMethod:    model.PaymentMethodOnline,
		PaymentProof:     "payment-proofs/" + uuid.NewString(),
	}
}

func TestRegistrationRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	rr := repo.NewRegistrationRepository(conn)

	t.Run("create and get", func(t *testing.T) {
		reg := newRegistration()
		saved, err := rr.Create(ctx, reg)
		require.NoError(t, err)
		require.Equal(t, reg.ID, saved.ID)
		require.False(t, saved.CreatedAt.IsZero())

		got, err := rr.GetByID(ctx, reg.ID)
		require.NoError(t, err)
		require.Equal(t, reg.FullName, got.FullName)
		require.Equal(t, reg.Gender, got.Gender)
		require.Equal(t, reg.PaymentProof, got.PaymentProof)
		require.Equal(t, reg.DateOfBirth.Format("2006-01-02"), got.DateOfBirth.Format("2006-01-02"))
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := rr.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("patch keeps proof and created_at", func(t *testing.T) {
		reg := newRegistration()
		saved, err := rr.Create(ctx, reg)
		require.NoError(t, err)

		updated, err := rr.Patch(ctx, reg.ID, model.RegistrationPatch{
			FullName:         "Anna F. Perera",
			Gender:           model.GenderFemale,
			LifeStatus:       model.LifeStatusJob,
			DateOfBirth:      saved.DateOfBirth,
			WhatsappNumber:   "0770000000",
			EmergencyContact: saved.EmergencyContact,
			EmailAddress:     saved.EmailAddress,
			Address:          saved.Address,
			ParishName:       saved.ParishName,
			PaymentMethod:    saved.PaymentMethod,
		})
		require.NoError(t, err)
		require.Equal(t, "Anna F. Perera", updated.FullName)
		require.Equal(t, model.LifeStatusJob, updated.LifeStatus)
		require.Equal(t, saved.PaymentProof, updated.PaymentProof)
		require.Equal(t, saved.CreatedAt, updated.CreatedAt)
	})

	t.Run("patch missing", func(t *testing.T) {
		_, err := rr.Patch(ctx, uuid.New(), model.RegistrationPatch{
			FullName: "Nobody",
		})
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		first, err := rr.Create(ctx, newRegistration())
		require.NoError(t, err)
		second, err := rr.Create(ctx, newRegistration())
		require.NoError(t, err)

		list, err := rr.ListAll(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(list), 2)

		var firstIdx, secondIdx int
		for i, r := range list {
			if r.ID == first.ID {
				firstIdx = i
			}
			if r.ID == second.ID {
				secondIdx = i
			}
		}
		require.Less(t, secondIdx, firstIdx)
	})
}
