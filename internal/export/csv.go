package export

import (
	"bytes"
	"encoding/csv"

	"github.com/rotisserie/eris"
)

// utf8BOM makes spreadsheet applications detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// renderCSV writes the header and rows with RFC 4180 escaping. A non-empty
// watermark is appended as a final comment row.
func renderCSV(rows [][]string, watermark string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, eris.Wrap(err, "csv: write header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, eris.Wrap(err, "csv: write row")
		}
	}
	if watermark != "" {
		if err := w.Write([]string{"# " + watermark}); err != nil {
			return nil, eris.Wrap(err, "csv: write watermark")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "csv: flush")
	}

	return buf.Bytes(), nil
}
