// Package export produces XLSX workbooks of the client history for the
// agency's back office.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/comfythings/visaflow/internal/repository"
)

// Service is a tiny façade over the history store that produces XLSX bytes.
type Service struct {
	clients repository.ClientRepository
	logger  *slog.Logger
}

func NewService(clients repository.ClientRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{clients: clients, logger: logger}
}

var headers = []string{
	"Full Name",
	"Email",
	"Passport No",
	"Visa No",
	"Birth Date",
	"Document Type",
	"Created At",
}

// ClientsXLSX returns an XLSX workbook (as bytes) of the full client
// history, newest first, mirroring the list endpoint's order.
func (s *Service) ClientsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Clients"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Debug("default sheet removal skipped", "error", err)
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, c := range clients {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, c.FullName)
		write(2, c.Email)
		write(3, c.PassportNumber)
		write(4, c.VisaNumber)
		write(5, c.BirthDate)
		write(6, c.DocumentType)
		write(7, c.CreatedAt.UTC().Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // name
	_ = f.SetColWidth(sheet, "B", "B", 32) // email
	_ = f.SetColWidth(sheet, "C", "D", 16) // document numbers
	_ = f.SetColWidth(sheet, "E", "E", 12) // birth date
	_ = f.SetColWidth(sheet, "F", "F", 14) // type
	_ = f.SetColWidth(sheet, "G", "G", 18) // created

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(clients),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
