package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"shade-match/internal/finish"
	"shade-match/internal/region"
	"shade-match/pkg/colorutil"
)

// column aliases accepted in CSV headers, first match wins.
var columns = map[string][]string{
	"id":       {"id", "product_id"},
	"brand":    {"brand", "brand_name"},
	"product":  {"product_name", "product", "name"},
	"shade":    {"shade_name", "shade", "color_name"},
	"category": {"category"},
	"finish":   {"finish", "texture"},
	"l":        {"lab_l", "l"},
	"a":        {"lab_a", "a"},
	"b":        {"lab_b", "b"},
	"standard": {"is_standard_lab"},
	"hex":      {"hex", "color_hex"},
	"price":    {"price"},
	"image":    {"image_url"},
}

var required = []string{"brand", "product", "category", "l", "a", "b"}

// LoadCSV reads entries from a headed CSV. Lab values are standard unless an
// is_standard_lab column marks a row false, in which case they are device
// scale and converted.
func LoadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	pos := make(map[string]int, len(columns))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for key, names := range columns {
			if _, seen := pos[key]; seen {
				continue
			}
			for _, n := range names {
				if h == n {
					pos[key] = i
				}
			}
		}
	}
	for _, key := range required {
		if _, ok := pos[key]; !ok {
			return nil, fmt.Errorf("catalog header missing %s column (one of %v)", key, columns[key])
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
		e, err := parseRecord(rec, pos)
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRecord(rec []string, pos map[string]int) (Entry, error) {
	field := func(key string) string {
		i, ok := pos[key]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	number := func(key string) (float64, error) {
		v, err := strconv.ParseFloat(field(key), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	e := Entry{
		ID:       field("id"),
		Brand:    field("brand"),
		Product:  field("product"),
		Shade:    field("shade"),
		Hex:      field("hex"),
		ImageURL: field("image"),
	}

	var err error
	if e.Category, err = region.Parse(field("category")); err != nil {
		return Entry{}, err
	}
	if e.Finish, err = finish.Parse(field("finish")); err != nil {
		return Entry{}, err
	}
	if field("price") != "" {
		if e.Price, err = number("price"); err != nil {
			return Entry{}, err
		}
	}

	var lab [3]float64
	for i, key := range []string{"l", "a", "b"} {
		if lab[i], err = number(key); err != nil {
			return Entry{}, err
		}
	}
	e.Color = colorutil.Lab{L: lab[0], A: lab[1], B: lab[2]}
	if s := field("standard"); s != "" {
		standard, err := strconv.ParseBool(s)
		if err != nil {
			return Entry{}, fmt.Errorf("is_standard_lab: %w", err)
		}
		if !standard {
			e.Color = colorutil.ToStandard(colorutil.DeviceLab{L: lab[0], A: lab[1], B: lab[2]})
		}
	}

	return e, e.Validate()
}

// LoadJSON reads a JSON array of entries.
func LoadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return entries, nil
}

// LoadFile reads a .csv or .json catalog.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".json":
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}
