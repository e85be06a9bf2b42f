package batch

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrAddressFileNotFound is returned by LoadAddresses when the input file is
// missing.
var ErrAddressFileNotFound = eris.New("address file not found")

// LoadAddresses reads one address per line from path. Lines are trimmed and
// blank lines dropped; a leading byte-order mark is ignored.
func LoadAddresses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(ErrAddressFileNotFound, "batch: open %s", path)
		}
		return nil, eris.Wrapf(err, "batch: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ParseAddresses(f)
}

// ParseAddresses reads addresses from r with the same rules as LoadAddresses.
func ParseAddresses(r io.Reader) ([]string, error) {
	// BOMOverride strips a UTF-8 BOM and passes everything else through.
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	var out []string
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "batch: read addresses")
	}
	return out, nil
}
