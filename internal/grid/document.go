package grid

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/orderledger-dev/orderledger/internal/record"
)

// Document owns named sheets in a stable order and maps to one xlsx file.
type Document struct {
	sheets map[string]*Sheet
	order  []string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{sheets: make(map[string]*Sheet)}
}

// Sheet returns a sheet by name.
func (d *Document) Sheet(name string) (*Sheet, bool) {
	s, ok := d.sheets[name]
	return s, ok
}

// AddSheet creates an empty sheet, or returns the existing one.
func (d *Document) AddSheet(name string) *Sheet {
	if s, ok := d.sheets[name]; ok {
		return s
	}
	s := &Sheet{Name: name}
	d.sheets[name] = s
	d.order = append(d.order, name)
	return s
}

// SheetNames returns sheet names in creation order.
func (d *Document) SheetNames() []string {
	return d.order
}

// Load reads an xlsx file into a Document. Cell strings are re-parsed so
// numeric cells stay numeric across runs.
func Load(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	doc := NewDocument()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}
		sheet := doc.AddSheet(name)
		for _, raw := range rows {
			row := make([]record.Value, len(raw))
			for i, cell := range raw {
				row[i] = record.Parse(cell)
			}
			sheet.AppendRow(row)
		}
	}
	return doc, nil
}

// OpenOrCreate loads the document at path (or starts a new one if the file
// is absent) and ensures the named sheet exists with header as row 1.
// Repeated calls with an unchanged header are a no-op beyond the read.
func OpenOrCreate(path, sheetName string, header []string) (*Document, *Sheet, error) {
	var doc *Document
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		doc = NewDocument()
	} else if err != nil {
		return nil, nil, fmt.Errorf("checking workbook %s: %w", path, err)
	} else {
		loaded, err := Load(path)
		if err != nil {
			return nil, nil, err
		}
		doc = loaded
	}

	sheet := doc.AddSheet(sheetName)
	if sheet.RowCount() == 0 && len(header) > 0 {
		row := make([]record.Value, len(header))
		for i, col := range header {
			row[i] = record.String(col)
		}
		sheet.AppendRow(row)
	}
	return doc, sheet, nil
}

// Persist renders the document to xlsx and atomically replaces path: the
// workbook is written to a temp file in the destination directory, synced,
// then renamed over path. A crash mid-write leaves the previous file
// intact, and readers never observe a partial workbook.
func (d *Document) Persist(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := d.render()
	if err != nil {
		return err
	}
	defer f.Close()

	tmp, err := os.CreateTemp(dir, ".orderledger-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temp workbook: %w", err)
	}
	tmpName := tmp.Name()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp workbook: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing workbook %s: %w", path, err)
	}
	return nil
}

func (d *Document) render() (*excelize.File, error) {
	f := excelize.NewFile()

	for i, name := range d.order {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("naming sheet %s: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("creating sheet %s: %w", name, err)
			}
		}

		sheet := d.sheets[name]
		for r := 1; r <= sheet.RowCount(); r++ {
			row := sheet.Row(r)
			if len(row) == 0 {
				continue
			}
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = v.Cell()
			}
			ref, err := excelize.CoordinatesToCellName(1, r)
			if err != nil {
				return nil, fmt.Errorf("cell reference row %d: %w", r, err)
			}
			if err := f.SetSheetRow(name, ref, &cells); err != nil {
				return nil, fmt.Errorf("writing sheet %s row %d: %w", name, r, err)
			}
		}
	}
	return f, nil
}
