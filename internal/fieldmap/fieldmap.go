package fieldmap

// Field describes one column of an extracted shipment record: the
// persistence name used by the extraction service, the display name shown
// in the portal, and whether operators may edit it.
type Field struct {
	Column   string
	Display  string
	Editable bool
}

// Fields is the canonical ordered column set for shipment records. Order
// matters: tables and exports render columns in this order.
var Fields = []Field{
	{Column: "page_number", Display: "Page", Editable: false},
	{Column: "doc_type", Display: "Doc Type", Editable: false},
	{Column: "principal_company", Display: "Principal Company", Editable: true},
	{Column: "lr_no", Display: "LR No", Editable: true},
	{Column: "lr_date", Display: "LR Date", Editable: true},
	{Column: "invoice_no", Display: "Invoice No", Editable: true},
	{Column: "invoice_date", Display: "Invoice Date", Editable: true},
	{Column: "truck_no", Display: "Truck No", Editable: true},
	{Column: "bill_to_party", Display: "Bill to Party", Editable: true},
	{Column: "ship_to_party", Display: "Ship to Party", Editable: true},
	{Column: "origin", Display: "Origin", Editable: true},
	{Column: "destination", Display: "Destination", Editable: true},
	{Column: "order_type", Display: "Order Type", Editable: true},
	{Column: "origin_weighment_slip", Display: "Origin Weighment Slip", Editable: true},
	{Column: "site_weighment_slip", Display: "Site Weighment Slip", Editable: true},
	{Column: "acknowledgement_status", Display: "Acknowledgement Status", Editable: true},
}

var (
	byColumn  = make(map[string]Field, len(Fields))
	byDisplay = make(map[string]Field, len(Fields))
)

func init() {
	for _, f := range Fields {
		byColumn[f.Column] = f
		byDisplay[f.Display] = f
	}
}

// ByColumn looks up a field by its persistence column name.
func ByColumn(column string) (Field, bool) {
	f, ok := byColumn[column]
	return f, ok
}

// ByDisplay looks up a field by its display name.
func ByDisplay(display string) (Field, bool) {
	f, ok := byDisplay[display]
	return f, ok
}

// ColumnFor translates a display name to its persistence column name.
// Unknown display names return ok=false.
func ColumnFor(display string) (string, bool) {
	f, ok := byDisplay[display]
	if !ok {
		return "", false
	}
	return f.Column, true
}

// DisplayFor translates a persistence column name to its display name.
func DisplayFor(column string) (string, bool) {
	f, ok := byColumn[column]
	if !ok {
		return "", false
	}
	return f.Display, true
}

// EditableColumns returns the persistence names of all operator-editable
// fields, in canonical order.
func EditableColumns() []string {
	cols := make([]string, 0, len(Fields))
	for _, f := range Fields {
		if f.Editable {
			cols = append(cols, f.Column)
		}
	}
	return cols
}

// NormalizeValue maps the UI's empty-cell conventions to an explicit null.
// An empty string or a lone dash means "no value"; anything else is kept
// verbatim.
func NormalizeValue(v string) *string {
	if v == "" || v == "-" {
		return nil
	}
	return &v
}
