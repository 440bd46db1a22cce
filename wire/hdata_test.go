package wire_test

import (
	"bytes"
	"testing"

	"github.com/mickamy/weechat-tui/wire"
)

// buildHdataMessage builds the exact byte vector documented for the
// "bufs" hdata example: h-path "bufs" -> "ptr_bufs", schema
// "number:int,full_name:str", two rows.
func buildHdataMessage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("hda")
	writeStr(&buf, "bufs")
	writeStr(&buf, "number:int,full_name:str")
	writeUint32(&buf, 2)

	// Row 1: ptr=123, number=1, full_name="core.weechat"
	writePtr(&buf, "123")
	writeInt32(&buf, 1)
	writeStr(&buf, "core.weechat")

	// Row 2: ptr=567, number=2, full_name="potato"
	writePtr(&buf, "567")
	writeInt32(&buf, 2)
	writeStr(&buf, "potato")

	return buf.Bytes()
}

func TestReadHdataBuffers(t *testing.T) {
	t.Parallel()
	raw := buildHdataMessage(t)
	dec := wire.NewDecoder(bytes.NewReader(raw))
	got, err := dec.ReadTyped()
	if err != nil {
		t.Fatalf("ReadTyped: %v", err)
	}
	hd, ok := got.(*wire.HData)
	if !ok {
		t.Fatalf("got %T, want *wire.HData", got)
	}
	if hd.HPath != "bufs" {
		t.Fatalf("got HPath %q, want bufs", hd.HPath)
	}
	if len(hd.PointerColumns) != 1 || hd.PointerColumns[0] != "ptr_bufs" {
		t.Fatalf("got pointer columns %v, want [ptr_bufs]", hd.PointerColumns)
	}
	if len(hd.Columns) != 2 || hd.Columns[0].Name != "number" || hd.Columns[0].Type != "int" ||
		hd.Columns[1].Name != "full_name" || hd.Columns[1].Type != "str" {
		t.Fatalf("got columns %#v", hd.Columns)
	}
	if len(hd.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(hd.Rows))
	}

	row0 := hd.Rows[0]
	ptr0 := row0["ptr_bufs"].(*string)
	if ptr0 == nil || *ptr0 != "123" {
		t.Fatalf("row0 ptr_bufs = %v, want 123", row0["ptr_bufs"])
	}
	if row0["number"].(int32) != 1 {
		t.Fatalf("row0 number = %v, want 1", row0["number"])
	}
	name0 := row0["full_name"].(*string)
	if name0 == nil || *name0 != "core.weechat" {
		t.Fatalf("row0 full_name = %v, want core.weechat", row0["full_name"])
	}

	row1 := hd.Rows[1]
	if row1["number"].(int32) != 2 {
		t.Fatalf("row1 number = %v, want 2", row1["number"])
	}
}

func TestReadHdataEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	buf.WriteString("hda")
	writeStr(&buf, "")
	writeStr(&buf, "")
	writeUint32(&buf, 0)

	dec := wire.NewDecoder(bytes.NewReader(buf.Bytes()))
	got, err := dec.ReadTyped()
	if err != nil {
		t.Fatalf("ReadTyped: %v", err)
	}
	hd := got.(*wire.HData)
	if len(hd.Rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(hd.Rows))
	}
	if len(hd.PointerColumns) != 0 || len(hd.Columns) != 0 {
		t.Fatalf("got pointer columns %v / columns %v, want both empty", hd.PointerColumns, hd.Columns)
	}
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	buf.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func writeInt32(buf *bytes.Buffer, v int32) {
	writeUint32(buf, uint32(v))
}

func writeStr(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writePtr(buf *bytes.Buffer, hexDigits string) {
	buf.WriteByte(byte(len(hexDigits)))
	buf.WriteString(hexDigits)
}
