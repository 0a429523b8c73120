package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"shipdesk/internal/domain"
	"shipdesk/internal/fieldmap"
)

const sheetName = "Shipment Records"

// WriteRecords writes the record set as an XLSX workbook with one sheet,
// a header row of display names and one row per record, columns in
// fieldmap order.
func WriteRecords(w io.Writer, records []domain.ShipmentRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	header := make([]interface{}, len(fieldmap.Fields))
	for i, fld := range fieldmap.Fields {
		header[i] = fld.Display
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range records {
		row := recordToRow(&records[i])
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// recordToRow converts one record to a row slice in fieldmap column order.
// Absent values render as empty cells.
func recordToRow(r *domain.ShipmentRecord) []interface{} {
	values := map[string]string{
		"page_number":            strconv.Itoa(r.PageNumber),
		"doc_type":               deref(r.DocType),
		"principal_company":      deref(r.PrincipalCompany),
		"lr_no":                  deref(r.LRNo),
		"lr_date":                deref(r.LRDate),
		"invoice_no":             deref(r.InvoiceNo),
		"invoice_date":           deref(r.InvoiceDate),
		"truck_no":               deref(r.TruckNo),
		"bill_to_party":          deref(r.BillToParty),
		"ship_to_party":          deref(r.ShipToParty),
		"origin":                 deref(r.Origin),
		"destination":            deref(r.Destination),
		"order_type":             deref(r.OrderType),
		"origin_weighment_slip":  deref(r.OriginWeighmentSlip),
		"site_weighment_slip":    deref(r.SiteWeighmentSlip),
		"acknowledgement_status": deref(r.AcknowledgementStatus),
	}

	row := make([]interface{}, len(fieldmap.Fields))
	for i, fld := range fieldmap.Fields {
		row[i] = values[fld.Column]
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.xlsx
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.xlsx", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
