package http

import (
	"bytes"
	"fmt"
	"net/http"

	"bakery/internal/core/application/usecases/queries"
	"bakery/internal/pkg/errs"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"

	businessDaySheet = "Business days"
)

var businessDayColumns = []string{
	"Date", "Orders", "Deliveries", "Acknowledged", "Verified", "Invoiced", "Closed by", "Closed at", "Notes",
}

// ExportBusinessDays handles GET /admin/business-days/export?from=&to=&format=xlsx|pdf.
func (s *Server) ExportBusinessDays(ctx echo.Context) error {
	views, err := s.businessDays(ctx)
	if err != nil {
		return err
	}

	var (
		content     []byte
		contentType string
		extension   string
	)
	switch format := ctx.QueryParam("format"); format {
	case "", "xlsx":
		content, err = BusinessDaysXLSX(views)
		contentType, extension = mimeXLSX, "xlsx"
	case "pdf":
		content, err = BusinessDaysPDF(views)
		contentType, extension = mimePDF, "pdf"
	default:
		return errs.NewValueIsInvalidErrorWithCause("format", fmt.Errorf("%q is neither xlsx nor pdf", format))
	}
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=business-days-%s.%s", s.today().Compact(), extension))
	return ctx.Blob(http.StatusOK, contentType, content)
}

func businessDayRow(v queries.BusinessDayView) []any {
	return []any{
		v.Date.String(),
		v.Totals.Orders,
		v.Totals.Deliveries,
		v.Totals.Acknowledged,
		v.Totals.Verified,
		v.Totals.Invoiced,
		v.ClosedByName,
		v.ClosedAt.Format("2006-01-02 15:04"),
		v.Notes,
	}
}

// BusinessDaysXLSX renders the snapshots as a single-sheet workbook.
func BusinessDaysXLSX(days []queries.BusinessDayView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", businessDaySheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(businessDayColumns))
	for i, column := range businessDayColumns {
		header[i] = column
	}
	if err := f.SetSheetRow(businessDaySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, day := range days {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := businessDayRow(day)
		if err = f.SetSheetRow(businessDaySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BusinessDaysPDF renders the snapshots as an A4 landscape table.
func BusinessDaysPDF(days []queries.BusinessDayView) ([]byte, error) {
	widths := []float64{25, 20, 24, 28, 20, 20, 45, 32, 63}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(277, 10, "Business day closings", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, column := range businessDayColumns {
		pdf.CellFormat(widths[i], 7, column, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, day := range days {
		for i, value := range businessDayRow(day) {
			align := "L"
			if _, ok := value.(int); ok {
				align = "R"
			}
			text := fmt.Sprint(value)
			if len(text) > 40 {
				text = text[:37] + "..."
			}
			pdf.CellFormat(widths[i], 6, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
