package service

import (
	"context"
	"fmt"
	"io"

	"tutfree/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{"ID", "Client", "Phone", "Requested at", "Status", "Created at", "Decided at"}

// ExportService renders a venue's bookings as an xlsx workbook.
type ExportService struct {
	bookings *BookingService
	logger   *zerolog.Logger
}

func NewExportService(bookings *BookingService, logger *zerolog.Logger) *ExportService {
	return &ExportService{bookings: bookings, logger: logger}
}

// ExportVenueBookings writes the workbook to w, newest booking first.
func (s *ExportService) ExportVenueBookings(ctx context.Context, venueID string, w io.Writer) error {
	bookings, err := s.bookings.ListForVenue(ctx, venueID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(exportSheet, "A1", "Venue: "+venueID)
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(exportSheet, cell, h)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for r, b := range bookings {
		row := []interface{}{b.ID, b.ClientName, b.ClientPhone, b.RequestedAt, b.Status, b.CreatedAt, b.DecidedAt}
		cell, _ := excelize.CoordinatesToCellName(1, r+3)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
		if style := statusStyle(f, b.Status); style != 0 {
			statusCell, _ := excelize.CoordinatesToCellName(5, r+3)
			_ = f.SetCellStyle(exportSheet, statusCell, statusCell, style)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", "G", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	s.logger.Info().Str("venue_id", venueID).Int("rows", len(bookings)).Msg("bookings exported")
	return nil
}

func statusStyle(f *excelize.File, status string) int {
	var color string
	switch status {
	case models.BookingConfirmed:
		color = "#C6EFCE"
	case models.BookingRejected:
		color = "#FFC7CE"
	default:
		return 0
	}
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0
	}
	return style
}
