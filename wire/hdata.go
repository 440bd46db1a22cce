package wire

import "strings"

// HData is a decoded "hda" value: a recursive, schema-driven columnar table.
// The h-path names one pointer column per path component (e.g. "buffer/line"
// yields columns "ptr_buffer" and "ptr_line"); the key-types header then
// names the remaining declared columns and their wire type.
type HData struct {
	// HPath is the raw h-path string, e.g. "buffer/line_data".
	HPath string
	// PointerColumns are the "ptr_<component>" column names derived from HPath.
	PointerColumns []string
	// Columns are the declared (name, type) pairs from the key-types header,
	// in wire order.
	Columns []HDataColumn
	// Rows holds one map per row; each row has an entry for every pointer
	// column (value *string, possibly nil) and every declared column (value
	// per readValue for that column's tag).
	Rows []map[string]any
}

// HDataColumn is one declared column of an hdata's key-types header.
type HDataColumn struct {
	Name string
	Type string
}

// readHdata reads an "hda": an h-path string, a key-types header string,
// a 4-byte row count, then that many rows of (pointer columns..., declared
// columns...), each column untagged (its type is already known from the
// h-path/header).
func (d *Decoder) readHdata() (*HData, error) {
	hpath, err := d.readNullableString()
	if err != nil {
		return nil, err
	}
	keys, err := d.readNullableString()
	if err != nil {
		return nil, err
	}

	var hpathStr, keysStr string
	if hpath != nil {
		hpathStr = *hpath
	}
	if keys != nil {
		keysStr = *keys
	}

	ptrCols := pointerColumns(hpathStr)
	cols, err := parseKeyTypes(keysStr)
	if err != nil {
		return nil, err
	}

	count, err := d.readCount()
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, count)
	for i := uint32(0); i < count; i++ {
		row := make(map[string]any, len(ptrCols)+len(cols))
		for _, name := range ptrCols {
			v, err := d.readPtr()
			if err != nil {
				return nil, err
			}
			row[name] = v
		}
		for _, col := range cols {
			v, err := d.readValue(col.Type)
			if err != nil {
				return nil, err
			}
			row[col.Name] = v
		}
		rows = append(rows, row)
	}

	return &HData{
		HPath:          hpathStr,
		PointerColumns: ptrCols,
		Columns:        cols,
		Rows:           rows,
	}, nil
}

// pointerColumns derives the "ptr_<component>" column names from an h-path
// like "buffer/line_data" -> ["ptr_buffer", "ptr_line_data"]. An empty
// h-path yields no pointer columns.
func pointerColumns(hpath string) []string {
	if hpath == "" {
		return nil
	}
	parts := strings.Split(hpath, "/")
	cols := make([]string, len(parts))
	for i, p := range parts {
		cols[i] = "ptr_" + p
	}
	return cols
}

// parseKeyTypes parses a key-types header like "number:int,full_name:str"
// into declared columns. Each entry's type tag is always exactly the last
// 3 characters following a colon, matching the wire format's fixed-width
// type tags.
func parseKeyTypes(keys string) ([]HDataColumn, error) {
	if keys == "" {
		return nil, nil
	}
	entries := strings.Split(keys, ",")
	cols := make([]HDataColumn, 0, len(entries))
	for _, e := range entries {
		if len(e) < 4 || e[len(e)-4] != ':' {
			return nil, errf(BadLength, "malformed key-type entry %q", e)
		}
		name := e[:len(e)-4]
		typ := e[len(e)-3:]
		cols = append(cols, HDataColumn{Name: name, Type: typ})
	}
	return cols, nil
}
