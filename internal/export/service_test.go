package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/comfythings/visaflow/internal/entity"
)

type stubClients struct {
	clients []*entity.Client
	err     error
}

func (s *stubClients) Create(context.Context, *entity.Client) error { return nil }
func (s *stubClients) Get(context.Context, uuid.UUID) (*entity.Client, error) {
	return nil, errors.New("unused")
}
func (s *stubClients) List(context.Context) ([]*entity.Client, error) { return s.clients, s.err }
func (s *stubClients) Update(context.Context, *entity.Client) error   { return nil }
func (s *stubClients) Delete(context.Context, uuid.UUID) error        { return nil }
func (s *stubClients) Close() error                                   { return nil }

func TestClientsXLSX(t *testing.T) {
	created := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	svc := NewService(&stubClients{clients: []*entity.Client{
		{
			ID:             uuid.New(),
			FullName:       "محمد الغزالي",
			Email:          "mhmdalg@comfythings.com",
			PassportNumber: "AB1234567",
			VisaNumber:     "1234567890",
			BirthDate:      "01/05/1985",
			DocumentType:   "visa",
			CreatedAt:      created,
		},
		{
			ID:           uuid.New(),
			FullName:     "Jane Doe",
			DocumentType: "passport",
			CreatedAt:    created.Add(-time.Hour),
		},
	}}, nil)

	data, err := svc.ClientsXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Clients")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "Full Name", rows[0][0])
	require.Equal(t, "Created At", rows[0][6])

	require.Equal(t, "محمد الغزالي", rows[1][0])
	require.Equal(t, "mhmdalg@comfythings.com", rows[1][1])
	require.Equal(t, "AB1234567", rows[1][2])
	require.Equal(t, "1234567890", rows[1][3])
	require.Equal(t, "01/05/1985", rows[1][4])
	require.Equal(t, "visa", rows[1][5])
	require.Equal(t, "2026-05-04 09:30", rows[1][6])

	require.Equal(t, "Jane Doe", rows[2][0])
	require.Equal(t, "passport", rows[2][5])
}

func TestClientsXLSXEmptyHistory(t *testing.T) {
	svc := NewService(&stubClients{}, nil)

	data, err := svc.ClientsXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Clients")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestClientsXLSXStoreError(t *testing.T) {
	svc := NewService(&stubClients{err: errors.New("db down")}, nil)
	_, err := svc.ClientsXLSX(context.Background())
	require.Error(t, err)
}
