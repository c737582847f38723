package artifact

import "slices"

// Field is the name a report kind is published under in a URL report.
// It is independent of the file name the scanner writes.
type Field string

// Report fields.
const (
	FieldCodeScanAlerts   Field = "codescanalerts"
	FieldDependabotAlerts Field = "dependabotalerts"
	FieldHTTP             Field = "http"
	FieldLighthouse       Field = "lhr"
	FieldNmap             Field = "nmap"
	FieldNuclei           Field = "nuclei"
	FieldTestSSL          Field = "testssl"
	FieldThirdParties     Field = "thirdparties"
	FieldUpdown           Field = "updownio"
	FieldWappalyzer       Field = "wappalyzer"
	FieldZAP              Field = "zap"
)

// Shape is the top-level JSON type a report file must have.
type Shape int

const (
	// ShapeObject is a single JSON object.
	ShapeObject Shape = iota
	// ShapeArray is a non-empty JSON array.
	ShapeArray
)

// String returns the JSON name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	default:
		return "unknown"
	}
}

// Entry describes one report kind.
type Entry struct {
	// Field is the output key.
	Field Field

	// Filename is the file inside the run directory.
	Filename string

	// Shape is the expected top-level JSON type.
	Shape Shape

	// Tool is the scanner that produces the file, used for display.
	Tool string
}

// catalog is ordered by field name, which is also the JSON key order of a
// URL report.
var catalog = []Entry{
	{Field: FieldCodeScanAlerts, Filename: "codescanalerts.json", Shape: ShapeObject, Tool: "code scanning alerts"},
	{Field: FieldDependabotAlerts, Filename: "dependabotalerts.json", Shape: ShapeObject, Tool: "dependabot alerts"},
	{Field: FieldHTTP, Filename: "http.json", Shape: ShapeObject, Tool: "http headers"},
	{Field: FieldLighthouse, Filename: "lhr.json", Shape: ShapeObject, Tool: "lighthouse"},
	{Field: FieldNmap, Filename: "nmapvuln.json", Shape: ShapeObject, Tool: "nmap vulners"},
	{Field: FieldNuclei, Filename: "nuclei.json", Shape: ShapeArray, Tool: "nuclei"},
	{Field: FieldTestSSL, Filename: "testssl.json", Shape: ShapeArray, Tool: "testssl"},
	{Field: FieldThirdParties, Filename: "thirdparties.json", Shape: ShapeObject, Tool: "third parties"},
	{Field: FieldUpdown, Filename: "updownio.json", Shape: ShapeObject, Tool: "updown.io"},
	{Field: FieldWappalyzer, Filename: "wappalyzer.json", Shape: ShapeObject, Tool: "wappalyzer"},
	{Field: FieldZAP, Filename: "zap.json", Shape: ShapeObject, Tool: "owasp zap"},
}

// Catalog returns a copy of the report catalog.
func Catalog() []Entry {
	return slices.Clone(catalog)
}

// Fields returns every field name in catalog order.
func Fields() []Field {
	fields := make([]Field, len(catalog))
	for i, e := range catalog {
		fields[i] = e.Field
	}
	return fields
}

// Lookup returns the catalog entry of a field.
func Lookup(field Field) (Entry, bool) {
	for _, e := range catalog {
		if e.Field == field {
			return e, true
		}
	}
	return Entry{}, false
}
