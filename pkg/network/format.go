package network

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Format identifies the layout of an edge table.
type Format string

const (
	// FormatSTRING is a delimited table with a combined confidence score,
	// e.g. "protein1_hugo protein2_hugo combined_score".
	FormatSTRING Format = "string"
	// FormatGUILD is whitespace separated "u w v" with the weight in the middle.
	FormatGUILD Format = "guild"
	// FormatDIAMOnD is comma separated "u,v" without weights.
	FormatDIAMOnD Format = "diamond"
)

// Formats lists every supported format.
var Formats = []Format{FormatSTRING, FormatGUILD, FormatDIAMOnD}

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Weighted reports whether the format carries a confidence column.
func (f Format) Weighted() bool { return f != FormatDIAMOnD }

// Header names accepted for STRING-like tables, in lookup order.
var (
	nodeAColumns = []string{"protein1_hugo", "protein1", "node1", "gene1"}
	nodeBColumns = []string{"protein2_hugo", "protein2", "node2", "gene2"}
	scoreColumns = []string{"combined_score", "score", "weight"}
)

// SkipReason classifies a row that did not become an edge.
type SkipReason string

const (
	SkipMissingID     SkipReason = "missing_id"
	SkipBadScore      SkipReason = "bad_score"
	SkipSelfLoop      SkipReason = "self_loop"
	SkipBelowMinScore SkipReason = "below_min_score"
	SkipShortRow      SkipReason = "short_row"
	SkipMalformed     SkipReason = "malformed"
)

// row is one parsed record before filtering.
type row struct {
	line   int
	u, v   string
	weight float64
	skip   SkipReason
}

// rowReader yields rows until io.EOF.
type rowReader interface {
	next() (row, error)
}

func newRowReader(r io.Reader, opts LoadOptions) (rowReader, error) {
	switch opts.Format {
	case FormatSTRING:
		return newStringReader(r, opts.Delimiter), nil
	case FormatGUILD:
		return &lineReader{sc: newScanner(r), split: splitGUILD}, nil
	case FormatDIAMOnD:
		return &lineReader{sc: newScanner(r), split: splitDIAMOnD}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// stringReader reads STRING-like tables. The first record is treated as a
// header when its third column is not numeric and it names at least one known
// column; otherwise it is an ordinary row.
type stringReader struct {
	cr         *csv.Reader
	first      bool
	colA, colB int
	colScore   int
}

func newStringReader(r io.Reader, delim rune) *stringReader {
	if delim == 0 {
		delim = '\t'
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = delim == ' '
	cr.ReuseRecord = true
	return &stringReader{cr: cr, first: true, colA: 0, colB: 1, colScore: 2}
}

func (s *stringReader) next() (row, error) {
	for {
		rec, err := s.cr.Read()
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return row{line: perr.Line, skip: SkipMalformed}, nil
			}
			return row{}, err
		}
		if isBlank(rec) {
			continue
		}
		line, _ := s.cr.FieldPos(0)
		if s.first {
			s.first = false
			if len(rec) >= 3 && !isNumeric(rec[2]) {
				header, err := s.bindHeader(rec)
				if err != nil {
					return row{}, loadError("parse", "", line, err)
				}
				if header {
					continue
				}
			}
		}
		return s.toRow(rec, line), nil
	}
}

// bindHeader reports false when rec names none of the known columns, so the
// caller can keep positional columns and read it as data.
func (s *stringReader) bindHeader(rec []string) (bool, error) {
	lookup := func(names []string) int {
		for _, name := range names {
			for i, col := range rec {
				if strings.EqualFold(strings.TrimSpace(col), name) {
					return i
				}
			}
		}
		return -1
	}
	a, b, score := lookup(nodeAColumns), lookup(nodeBColumns), lookup(scoreColumns)
	switch {
	case a < 0 && b < 0 && score < 0:
		return false, nil
	case a < 0 || b < 0 || score < 0:
		return false, fmt.Errorf("%w: need one of %v, %v and %v; got %v",
			ErrMissingColumn, nodeAColumns, nodeBColumns, scoreColumns, rec)
	}
	s.colA, s.colB, s.colScore = a, b, score
	return true, nil
}

func (s *stringReader) toRow(rec []string, line int) row {
	r := row{line: line}
	need := max(s.colA, s.colB, s.colScore)
	if len(rec) <= need {
		r.skip = SkipShortRow
		return r
	}
	r.u, r.v = strings.TrimSpace(rec[s.colA]), strings.TrimSpace(rec[s.colB])
	if r.u == "" || r.v == "" {
		r.skip = SkipMissingID
		return r
	}
	w, err := parseWeight(rec[s.colScore])
	if err != nil {
		r.skip = SkipBadScore
		return r
	}
	r.weight = w
	return r
}

// lineReader reads the line-oriented GUILD and DIAMOnD formats.
type lineReader struct {
	sc    *bufio.Scanner
	line  int
	split func(text string) row
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return sc
}

func (l *lineReader) next() (row, error) {
	for l.sc.Scan() {
		l.line++
		text := strings.TrimSpace(l.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		r := l.split(text)
		r.line = l.line
		return r, nil
	}
	if err := l.sc.Err(); err != nil {
		return row{}, err
	}
	return row{}, io.EOF
}

func splitGUILD(text string) row {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return row{skip: SkipShortRow}
	}
	r := row{u: parts[0], v: parts[2]}
	w, err := parseWeight(parts[1])
	if err != nil {
		r.skip = SkipBadScore
		return r
	}
	r.weight = w
	return r
}

func splitDIAMOnD(text string) row {
	u, v, ok := strings.Cut(text, ",")
	if !ok {
		return row{skip: SkipShortRow}
	}
	r := row{u: strings.TrimSpace(u), v: strings.TrimSpace(v), weight: 1}
	// tolerate a trailing column, e.g. "u,v,extra"
	if head, _, found := strings.Cut(r.v, ","); found {
		r.v = strings.TrimSpace(head)
	}
	if r.u == "" || r.v == "" {
		r.skip = SkipMissingID
	}
	return r
}

func parseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0, fmt.Errorf("invalid weight %q", s)
	}
	return w, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
