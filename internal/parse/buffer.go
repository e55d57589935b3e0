package parse

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// bomUTF8 is the three-byte UTF-8 byte order mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// ReadGrid sniffs the buffer's encoding (ZIP-container xlsx workbook vs
// delimited text, with BOM-aware UTF-8/UTF-16LE/UTF-16BE handling) and
// returns a universal Grid. Excel cells are coerced to strings at the
// library boundary so a style number that looks like scientific notation
// never round-trips through a numeric type (§6, S6). Legacy binary .xls
// workbooks are not recognized as spreadsheets; like any buffer without
// the ZIP signature they are read as delimited text.
func ReadGrid(buf []byte, fileName string) (Grid, error) {
	if looksLikeXLSX(buf) {
		return readXLSXGrid(buf)
	}
	return readCSVGrid(buf)
}

func looksLikeXLSX(buf []byte) bool {
	// ZIP magic bytes "PK\x03\x04" — the xlsx container.
	return len(buf) >= 4 && buf[0] == 'P' && buf[1] == 'K' && buf[2] == 0x03 && buf[3] == 0x04
}

func readXLSXGrid(buf []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return Grid{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Grid{}, fmt.Errorf("no sheets in workbook")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Grid{}, fmt.Errorf("read rows: %w", err)
	}
	return Grid{Rows: rows}, nil
}

func readCSVGrid(buf []byte) (Grid, error) {
	text, err := decodeText(buf)
	if err != nil {
		return Grid{}, fmt.Errorf("decode text: %w", err)
	}

	delim := detectDelimiter(text)
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Grid{}, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return Grid{Rows: rows}, nil
}

// decodeText strips a BOM and transcodes UTF-16LE/UTF-16BE to UTF-8; plain
// UTF-8 (with or without BOM) passes through unchanged.
func decodeText(buf []byte) (string, error) {
	if bytes.HasPrefix(buf, bomUTF8) {
		return string(buf[len(bomUTF8):]), nil
	}
	if len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE {
		return decodeUTF16(buf[2:], false)
	}
	if len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF {
		return decodeUTF16(buf[2:], true)
	}
	if !utf8.Valid(buf) {
		return string(buf), nil
	}
	return string(buf), nil
}

func decodeUTF16(buf []byte, bigEndian bool) (string, error) {
	if len(buf)%2 != 0 {
		buf = buf[:len(buf)-1]
	}
	u16 := make([]uint16, len(buf)/2)
	for i := range u16 {
		if bigEndian {
			u16[i] = uint16(buf[2*i])<<8 | uint16(buf[2*i+1])
		} else {
			u16[i] = uint16(buf[2*i+1])<<8 | uint16(buf[2*i])
		}
	}
	return string(utf16.Decode(u16)), nil
}

// detectDelimiter chooses between comma and tab by majority count on the
// first line (§6).
func detectDelimiter(text string) rune {
	firstLine := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		firstLine = text[:idx]
	}
	commas := strings.Count(firstLine, ",")
	tabs := strings.Count(firstLine, "\t")
	if tabs > commas {
		return '\t'
	}
	return ','
}
