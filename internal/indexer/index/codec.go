package index

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/multimap"
	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
)

// Section names a block of the persistence file.
type Section string

const (
	SectionWords     Section = "words"
	SectionPeople    Section = "people"
	SectionOrgs      Section = "orgs"
	SectionDocs      Section = "docs"
	SectionWordCount Section = "wordCount"
)

// Sections lists the blocks in the order Encode writes them.
var Sections = []Section{SectionWords, SectionPeople, SectionOrgs, SectionDocs, SectionWordCount}

const (
	markerPrefix  = "//"
	keyEnd        = ':'
	docEnd        = ','
	countEnd      = ';'
	pathEnd       = '$'
	wordCountSep  = '^'
	wordCountEnd  = '#'
	writeBufBytes = 1 << 16
)

func knownSection(name string) (Section, bool) {
	for _, s := range Sections {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// DecodeReport summarizes one Decode pass.
type DecodeReport struct {
	Lines    int
	Records  map[Section]int
	Problems []*apperrors.ParseError
}

// Clean reports whether every line was understood.
func (r *DecodeReport) Clean() bool {
	return len(r.Problems) == 0
}

type decodeOptions struct {
	strict bool
	logger *slog.Logger
}

// DecodeOption configures Decode and Load.
type DecodeOption func(*decodeOptions)

// WithStrict makes the first malformed line fail the whole decode.
func WithStrict() DecodeOption {
	return func(o *decodeOptions) { o.strict = true }
}

// WithLogger sets the logger malformed lines are reported to.
func WithLogger(l *slog.Logger) DecodeOption {
	return func(o *decodeOptions) { o.logger = l }
}

// Save writes the index to path atomically: the content goes to path.tmp,
// which is synced and then renamed over path.
func (ix *InvertedIndex) Save(path string) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return apperrors.NewIOError("save", path, err)
	}
	fail := func(err error) error {
		f.Close()
		os.Remove(tmpPath)
		return apperrors.NewIOError("save", path, err)
	}
	if err := ix.Encode(f); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("syncing: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewIOError("save", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewIOError("save", path, err)
	}
	return nil
}

// Load replaces the content of the index with the file at path. A missing or
// unreadable file is an error; on any error the index keeps its previous
// content.
func (ix *InvertedIndex) Load(path string, opts ...DecodeOption) (*DecodeReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIOError("load", path, err)
	}
	defer f.Close()

	fresh := New()
	report, err := fresh.Decode(f, opts...)
	if err != nil {
		var ioErr *apperrors.IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return report, err
	}
	*ix = *fresh
	return report, nil
}

// Encode writes the five sections in fixed order. Postings within a line are
// sorted by document id so that equal indexes encode identically.
func (ix *InvertedIndex) Encode(w io.Writer) error {
	bw := bufio.NewWriterSize(w, writeBufBytes)
	enc := &encoder{w: bw}

	enc.marker(SectionWords)
	ix.words.Ascend(func(key string, p Postings) bool {
		enc.postings(key, p)
		return enc.err == nil
	})

	enc.marker(SectionPeople)
	ix.people.Range(func(key string, p Postings) bool {
		enc.postings(key, p)
		return enc.err == nil
	})

	enc.marker(SectionOrgs)
	ix.orgs.Range(func(key string, p Postings) bool {
		enc.postings(key, p)
		return enc.err == nil
	})

	enc.marker(SectionDocs)
	for _, id := range ix.registry.ids {
		enc.document(id)
	}

	enc.marker(SectionWordCount)
	for _, id := range ix.registry.wordCountIDs() {
		enc.wordCount(id, ix.registry.WordCount(id))
	}

	if enc.err != nil {
		return enc.err
	}
	return bw.Flush()
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) marker(s Section) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(markerPrefix + string(s) + "\n")
}

func (e *encoder) postings(key string, p Postings) {
	if e.err != nil {
		return
	}
	if !ValidKey(key) {
		e.err = fmt.Errorf("encoding key %q: %w", key, apperrors.ErrInvalidInput)
		return
	}
	e.w.WriteString(key)
	e.w.WriteByte(keyEnd)
	for _, doc := range multimap.SortedDocs(p) {
		if !ValidDocumentID(doc) {
			e.err = fmt.Errorf("encoding document %q under key %q: %w", doc, key, apperrors.ErrInvalidInput)
			return
		}
		e.w.WriteString(doc)
		e.w.WriteByte(docEnd)
		e.w.WriteString(strconv.Itoa(p[doc]))
		e.w.WriteByte(countEnd)
	}
	_, e.err = e.w.WriteString("\n")
}

func (e *encoder) document(id string) {
	if e.err != nil {
		return
	}
	if !ValidDocumentID(id) {
		e.err = fmt.Errorf("encoding document %q: %w", id, apperrors.ErrInvalidInput)
		return
	}
	e.w.WriteString(id)
	e.w.WriteByte(pathEnd)
	_, e.err = e.w.WriteString("\n")
}

func (e *encoder) wordCount(id string, n int) {
	if e.err != nil {
		return
	}
	if !ValidDocumentID(id) {
		e.err = fmt.Errorf("encoding word count of %q: %w", id, apperrors.ErrInvalidInput)
		return
	}
	if n < 0 {
		e.err = fmt.Errorf("encoding word count of %q: negative count %d: %w", id, n, apperrors.ErrInvalidInput)
		return
	}
	e.w.WriteString(id)
	e.w.WriteByte(wordCountSep)
	e.w.WriteString(strconv.Itoa(n))
	e.w.WriteByte(wordCountEnd)
	_, e.err = e.w.WriteString("\n")
}

// Decode resets the index and fills it from r. Section markers are accepted in
// any order. Malformed lines are skipped and collected in the report unless
// WithStrict is given, in which case the first one is returned as an error
// matching errors.ErrParseFailure.
func (ix *InvertedIndex) Decode(r io.Reader, opts ...DecodeOption) (*DecodeReport, error) {
	o := decodeOptions{logger: logger.WithComponent("index-codec")}
	for _, opt := range opts {
		opt(&o)
	}

	ix.Reset()
	report := &DecodeReport{Records: make(map[Section]int)}
	br := bufio.NewReaderSize(r, writeBufBytes)
	var section Section

	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return report, apperrors.NewIOError("read", "", readErr)
		}
		if raw != "" {
			report.Lines++
			line := strings.TrimRight(raw, "\r\n")
			reason := ix.decodeLine(line, &section, report)
			if reason != "" {
				problem := &apperrors.ParseError{Line: report.Lines, Text: line, Reason: reason}
				if o.strict {
					return report, fmt.Errorf("decoding index: %w", problem)
				}
				report.Problems = append(report.Problems, problem)
				o.logger.Warn("skipping malformed line",
					"line", problem.Line,
					"reason", problem.Reason,
				)
			}
		}
		if readErr == io.EOF {
			break
		}
	}
	return report, nil
}

// decodeLine applies one line and returns a non-empty reason when the line is
// malformed.
func (ix *InvertedIndex) decodeLine(line string, section *Section, report *DecodeReport) string {
	if line == "" {
		return ""
	}
	if name, ok := strings.CutPrefix(line, markerPrefix); ok {
		s, known := knownSection(name)
		if !known {
			*section = ""
			return "unknown section"
		}
		*section = s
		return ""
	}

	switch *section {
	case SectionWords, SectionPeople, SectionOrgs:
		key, pairs, reason := parsePostingsLine(line)
		if reason != "" {
			return reason
		}
		for _, p := range pairs {
			switch *section {
			case SectionWords:
				ix.AddWordN(key, p.doc, p.count)
			case SectionPeople:
				ix.AddPersonN(key, p.doc, p.count)
			case SectionOrgs:
				ix.AddOrganizationN(key, p.doc, p.count)
			}
		}
	case SectionDocs:
		id, ok := strings.CutSuffix(line, string(pathEnd))
		if !ok {
			return "missing document terminator"
		}
		if id == "" {
			return "empty document id"
		}
		if !ix.registry.Add(id) {
			return "duplicate document"
		}
	case SectionWordCount:
		body, ok := strings.CutSuffix(line, string(wordCountEnd))
		if !ok {
			return "missing word count terminator"
		}
		sep := strings.LastIndexByte(body, wordCountSep)
		if sep <= 0 {
			return "missing word count separator"
		}
		n, err := strconv.Atoi(body[sep+1:])
		if err != nil || n < 0 {
			return "invalid word count"
		}
		ix.registry.SetWordCount(body[:sep], n)
	default:
		return "line outside a known section"
	}
	report.Records[*section]++
	return ""
}

type posting struct {
	doc   string
	count int
}

// parsePostingsLine splits KEY:DOC,COUNT;DOC,COUNT; into its parts. The whole
// line is rejected if any pair is malformed.
func parsePostingsLine(line string) (string, []posting, string) {
	sep := strings.IndexByte(line, keyEnd)
	if sep < 0 {
		return "", nil, "missing key separator"
	}
	key, rest := line[:sep], line[sep+1:]
	if rest == "" {
		return "", nil, "no postings"
	}
	if rest[len(rest)-1] != countEnd {
		return "", nil, "unterminated posting"
	}

	fields := strings.Split(rest[:len(rest)-1], string(countEnd))
	pairs := make([]posting, 0, len(fields))
	for _, field := range fields {
		c := strings.LastIndexByte(field, docEnd)
		if c <= 0 {
			return "", nil, "missing document separator"
		}
		n, err := strconv.Atoi(field[c+1:])
		if err != nil || n <= 0 {
			return "", nil, "invalid count"
		}
		pairs = append(pairs, posting{doc: field[:c], count: n})
	}
	return key, pairs, ""
}
