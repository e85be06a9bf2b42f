// Package resultset persists a batch's results as the CSV handed from the
// scrape step to the map step.
package resultset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"slices"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/mapscrape/internal/model"
)

// Columns is the CSV header, in order.
var Columns = []string{"address", "latitude", "longitude", "status"}

// Write encodes rs as UTF-8 CSV with a leading byte-order mark so spreadsheet
// tools detect the encoding. Missing coordinates are written as empty cells.
func Write(w io.Writer, rs model.ResultSet) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(bw)
	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false

	if err := enc.EncodeHeader(model.GeocodeResult{}); err != nil {
		return eris.Wrap(err, "resultset: write header")
	}
	for i := range rs {
		if err := enc.Encode(rs[i]); err != nil {
			return eris.Wrapf(err, "resultset: write row %d", i+1)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "resultset: flush")
	}
	if err := bw.Close(); err != nil {
		return eris.Wrap(err, "resultset: flush")
	}
	return nil
}

// WriteFile writes rs to path, replacing any existing file.
func WriteFile(path string, rs model.ResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "resultset: create %s", path)
	}
	if err := Write(f, rs); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "resultset: close %s", path)
	}
	return nil
}

// Read decodes a CSV written by Write. A leading byte-order mark is optional.
// Rows marked success must carry finite coordinates.
func Read(r io.Reader) (model.ResultSet, error) {
	br := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	dec, err := csvutil.NewDecoder(csv.NewReader(br))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("resultset: missing header")
		}
		return nil, eris.Wrap(err, "resultset: read header")
	}

	header := dec.Header()
	for _, col := range Columns {
		if !slices.Contains(header, col) {
			return nil, eris.Errorf("resultset: header missing column %q", col)
		}
	}

	var rs model.ResultSet
	for line := 2; ; line++ {
		var row model.GeocodeResult
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "resultset: decode line %d", line)
		}
		if row.Status.IsSuccess() && !row.HasCoordinates() {
			return nil, eris.Errorf("resultset: line %d: status success without usable coordinates", line)
		}
		rs = append(rs, row)
	}

	return rs, nil
}

// ReadFile reads a result CSV from path.
func ReadFile(path string) (model.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resultset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Read(f)
}
