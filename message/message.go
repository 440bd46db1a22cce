// Package message maps decoded wire.Frame values onto the fixed set of
// record shapes the relay protocol's message ids carry, dispatching by id
// prefix the way the relay server's own command set is organized.
package message

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mickamy/weechat-tui/wire"
)

// Handshake is the htb-coded response to the "handshake" command.
type Handshake struct {
	PasswordHashAlgo       string
	PasswordHashIterations int
	Nonce                  string
	Compression            string
}

// Info is the "inf" shape returned by "version_check" and similar info queries.
type Info struct {
	Name  string
	Value *string // nil when the server reports no value
}

// Buffer is one row of a "gui_buffers" hdata response.
type Buffer struct {
	PtrBuffer string
	Number    int32
	ShortName *string
	FullName  string
	Title     *string
	// Hotlist is never populated from gui_buffers; it's filled in only by
	// the session engine's gui_hotlist dispatch.
	Hotlist [4]int32
}

// HotlistEntry is one row of a "gui_hotlist" hdata response.
type HotlistEntry struct {
	Priority int32
	Buffer   string
	Count    [4]int32
}

// Line is one row of backlog/scrollback/_buffer_line_added hdata responses.
type Line struct {
	PtrLine     *string
	Buffer      string
	Date        string // raw decimal timestamp, per wire "tim" encoding
	Displayed   bool
	Highlight   bool
	Prefix      *string
	Message     string
	NotifyLevel int8
}

// CompletionData is the single row of a "completion" hdata response.
type CompletionData struct {
	Context  string
	BaseWord string
	PosStart int32
	PosEnd   int32
	AddSpace bool
	List     []string
}

// shapeMismatch builds a wire.Error with ShapeMismatch kind, returned when
// a frame known by id decodes to a value of the wrong shape.
func shapeMismatch(format string, args ...any) error {
	return &wire.Error{Kind: wire.ShapeMismatch, Msg: fmt.Sprintf(format, args...)}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func asHData(v any) (*wire.HData, error) {
	hd, ok := v.(*wire.HData)
	if !ok {
		return nil, shapeMismatch("expected hdata, got %T", v)
	}
	return hd, nil
}

func columnString(row map[string]any, name string) (*string, error) {
	v, ok := row[name]
	if !ok {
		return nil, shapeMismatch("missing column %q", name)
	}
	sp, ok := v.(*string)
	if !ok {
		return nil, shapeMismatch("column %q: expected string, got %T", name, v)
	}
	return sp, nil
}

func columnRequiredString(row map[string]any, name string) (string, error) {
	sp, err := columnString(row, name)
	if err != nil {
		return "", err
	}
	if sp == nil {
		return "", shapeMismatch("column %q must not be null", name)
	}
	return *sp, nil
}

func columnInt32(row map[string]any, name string) (int32, error) {
	v, ok := row[name]
	if !ok {
		return 0, shapeMismatch("missing column %q", name)
	}
	i, ok := v.(int32)
	if !ok {
		return 0, shapeMismatch("column %q: expected int, got %T", name, v)
	}
	return i, nil
}

func columnChar(row map[string]any, name string) (int8, error) {
	v, ok := row[name]
	if !ok {
		return 0, shapeMismatch("missing column %q", name)
	}
	c, ok := v.(int8)
	if !ok {
		return 0, shapeMismatch("column %q: expected char, got %T", name, v)
	}
	return c, nil
}

// ParseHandshake decodes the htb-coded handshake response.
func ParseHandshake(v any) (*Handshake, error) {
	tbl, ok := v.(map[any]any)
	if !ok {
		return nil, shapeMismatch("expected htb, got %T", v)
	}
	h := &Handshake{}
	if s, ok := tbl["password_hash_algo"].(*string); ok {
		h.PasswordHashAlgo = derefString(s)
	}
	if s, ok := tbl["password_hash_iterations"].(*string); ok {
		if n, err := strconv.Atoi(derefString(s)); err == nil {
			h.PasswordHashIterations = n
		}
	}
	if s, ok := tbl["nonce"].(*string); ok {
		h.Nonce = derefString(s)
	}
	if s, ok := tbl["compression"].(*string); ok {
		h.Compression = derefString(s)
	}
	return h, nil
}

// ParseInfo decodes an "inf" value into an Info record.
func ParseInfo(v any) (*Info, error) {
	inf, ok := v.([2]*string)
	if !ok {
		return nil, shapeMismatch("expected inf, got %T", v)
	}
	if inf[0] == nil {
		return nil, shapeMismatch("inf name must not be null")
	}
	return &Info{Name: *inf[0], Value: inf[1]}, nil
}

// ParseBuffers decodes a "gui_buffers" hdata response.
func ParseBuffers(v any) ([]Buffer, error) {
	hd, err := asHData(v)
	if err != nil {
		return nil, err
	}
	out := make([]Buffer, 0, len(hd.Rows))
	for _, row := range hd.Rows {
		ptr, err := columnString(row, "ptr_buffer")
		if err != nil {
			// Some servers h-path this as ptr_bufs; fall back before failing.
			ptr, err = columnString(row, "ptr_bufs")
			if err != nil {
				return nil, err
			}
		}
		if ptr == nil {
			return nil, shapeMismatch("buffer row missing pointer")
		}
		number, err := columnInt32(row, "number")
		if err != nil {
			return nil, err
		}
		// short_name and title are optional: a row without the column
		// leaves the field nil.
		var shortName, title *string
		if _, ok := row["short_name"]; ok {
			if shortName, err = columnString(row, "short_name"); err != nil {
				return nil, err
			}
		}
		fullName, err := columnRequiredString(row, "full_name")
		if err != nil {
			return nil, err
		}
		if _, ok := row["title"]; ok {
			if title, err = columnString(row, "title"); err != nil {
				return nil, err
			}
		}
		out = append(out, Buffer{
			PtrBuffer: *ptr,
			Number:    number,
			ShortName: shortName,
			FullName:  fullName,
			Title:     title,
		})
	}
	return out, nil
}

// ParseHotlist decodes a "gui_hotlist" hdata response.
func ParseHotlist(v any) ([]HotlistEntry, error) {
	hd, err := asHData(v)
	if err != nil {
		return nil, err
	}
	out := make([]HotlistEntry, 0, len(hd.Rows))
	for _, row := range hd.Rows {
		priority, err := columnInt32(row, "priority")
		if err != nil {
			return nil, err
		}
		buf, err := columnRequiredString(row, "buffer")
		if err != nil {
			return nil, err
		}
		var count [4]int32
		for i, name := range []string{"count_00", "count_01", "count_02", "count_03"} {
			c, err := columnInt32(row, name)
			if err != nil {
				return nil, err
			}
			count[i] = c
		}
		out = append(out, HotlistEntry{Priority: priority, Buffer: buf, Count: count})
	}
	return out, nil
}

// ParseLines decodes a backlog/scrollback/_buffer_line_added hdata response,
// one Line per row.
func ParseLines(v any) ([]Line, error) {
	hd, err := asHData(v)
	if err != nil {
		return nil, err
	}
	out := make([]Line, 0, len(hd.Rows))
	for _, row := range hd.Rows {
		ptrLine, err := columnString(row, "ptr_line")
		if err != nil {
			ptrLine, err = columnString(row, "ptr_line_data")
			if err != nil {
				return nil, err
			}
		}
		buf, err := columnRequiredString(row, "buffer")
		if err != nil {
			return nil, err
		}
		date, err := rawTimestamp(row, "date")
		if err != nil {
			return nil, err
		}
		displayed, err := columnChar(row, "displayed")
		if err != nil {
			return nil, err
		}
		highlight, err := columnChar(row, "highlight")
		if err != nil {
			return nil, err
		}
		prefix, err := columnString(row, "prefix")
		if err != nil {
			return nil, err
		}
		msg, err := columnRequiredString(row, "message")
		if err != nil {
			return nil, err
		}
		notify, err := columnChar(row, "notify_level")
		if err != nil {
			return nil, err
		}
		out = append(out, Line{
			PtrLine:     ptrLine,
			Buffer:      buf,
			Date:        date,
			Displayed:   displayed != 0,
			Highlight:   highlight != 0,
			Prefix:      prefix,
			Message:     msg,
			NotifyLevel: notify,
		})
	}
	return out, nil
}

func rawTimestamp(row map[string]any, name string) (string, error) {
	v, ok := row[name]
	if !ok {
		return "", shapeMismatch("missing column %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", shapeMismatch("column %q: expected raw timestamp string, got %T", name, v)
	}
	return s, nil
}

// ParseCompletion decodes a "completion" hdata response, keeping only the
// first row per the protocol's single-completion-context convention.
func ParseCompletion(v any) (*CompletionData, error) {
	hd, err := asHData(v)
	if err != nil {
		return nil, err
	}
	if len(hd.Rows) == 0 {
		return nil, shapeMismatch("completion response has no rows")
	}
	row := hd.Rows[0]
	context, err := columnRequiredString(row, "context")
	if err != nil {
		return nil, err
	}
	baseWord, err := columnRequiredString(row, "base_word")
	if err != nil {
		return nil, err
	}
	posStart, err := columnInt32(row, "pos_start")
	if err != nil {
		return nil, err
	}
	posEnd, err := columnInt32(row, "pos_end")
	if err != nil {
		return nil, err
	}
	addSpace, err := columnChar(row, "add_space")
	if err != nil {
		return nil, err
	}
	list, err := columnStringArray(row, "list")
	if err != nil {
		return nil, err
	}
	return &CompletionData{
		Context:  context,
		BaseWord: baseWord,
		PosStart: posStart,
		PosEnd:   posEnd,
		AddSpace: addSpace != 0,
		List:     list,
	}, nil
}

func columnStringArray(row map[string]any, name string) ([]string, error) {
	v, ok := row[name]
	if !ok {
		return nil, shapeMismatch("missing column %q", name)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, shapeMismatch("column %q: expected array, got %T", name, v)
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		sp, ok := item.(*string)
		if !ok {
			return nil, shapeMismatch("column %q: element type %T", name, item)
		}
		out = append(out, derefString(sp))
	}
	return out, nil
}

// KindFromID classifies a frame id by the fixed prefix rules the relay
// protocol uses: exact matches for request/response ids, and leading-
// underscore ids for the server's asynchronous push events.
func KindFromID(id string) string {
	switch {
	case id == "":
		return "unknown"
	case strings.HasPrefix(id, "_"):
		return strings.TrimPrefix(id, "_")
	default:
		return id
	}
}
