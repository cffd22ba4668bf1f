// Package universe loads the instrument list a batch run iterates over.
// Exchange-published stock lists are GBK-encoded CSV; Load decodes them
// transparently.
package universe

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// Instrument is one listed stock.
type Instrument struct {
	Code string
	Name string
}

// Universe is an ordered instrument list with code lookup.
type Universe struct {
	list  []Instrument
	index map[string]int
}

// New builds a universe from instruments, keeping first occurrence of
// each code.
func New(instruments []Instrument) *Universe {
	u := &Universe{index: make(map[string]int, len(instruments))}
	for _, ins := range instruments {
		if _, ok := u.index[ins.Code]; ok {
			continue
		}
		u.index[ins.Code] = len(u.list)
		u.list = append(u.list, ins)
	}
	return u
}

func (u *Universe) Len() int { return len(u.list) }

// Codes returns the instrument codes in list order.
func (u *Universe) Codes() []string {
	out := make([]string, len(u.list))
	for i, ins := range u.list {
		out[i] = ins.Code
	}
	return out
}

// Name returns the display name for code, or the code itself when the
// universe does not know it.
func (u *Universe) Name(code string) string {
	if i, ok := u.index[code]; ok && u.list[i].Name != "" {
		return u.list[i].Name
	}
	return code
}

// Contains reports whether code is in the universe.
func (u *Universe) Contains(code string) bool {
	_, ok := u.index[code]
	return ok
}

// Load reads a stock-list CSV of code,name rows from path. GBK files
// are decoded to UTF-8; files already in UTF-8 pass through unchanged.
func Load(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses code,name rows from r, decoding GBK when the content is
// not valid UTF-8. A header row and empty rows are skipped.
func Read(r io.Reader) (*Universe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("decode universe: %w", err)
		}
		data = decoded
	}

	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.FieldsPerRecord = -1

	var (
		instruments []Instrument
		sawFirst    bool
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse universe: %w", err)
		}
		if len(row) == 0 {
			continue
		}

		code := strings.TrimSpace(row[0])
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(code, "code") {
				continue
			}
		}
		if code == "" {
			continue
		}

		var name string
		if len(row) > 1 {
			name = strings.TrimSpace(row[1])
		}
		instruments = append(instruments, Instrument{Code: code, Name: name})
	}
	return New(instruments), nil
}
