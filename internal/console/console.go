// Package console is the terminal front end of the engine: one-shot build,
// query and stats output plus the interactive numbered menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/tracing"
)

// Session reads answers from in and writes everything for the user to out.
type Session struct {
	engine   *indexer.Engine
	executor *executor.Executor
	opts     executor.Options
	in       *bufio.Reader
	out      io.Writer
}

func New(engine *indexer.Engine, cfg config.SearchConfig, in io.Reader, out io.Writer) *Session {
	return &Session{
		engine:   engine,
		executor: executor.New(engine.Index()),
		opts:     executor.Options{Limit: cfg.DefaultLimit, Order: cfg.Order},
		in:       bufio.NewReader(in),
		out:      out,
	}
}

func (s *Session) Build(ctx context.Context, dir string) error {
	s.println("Reading files...")
	stats, err := s.engine.Build(ctx, dir)
	if err != nil {
		return err
	}
	s.printf("Done! Indexed %d of %d files (%d rejected) in %s.\n",
		stats.Indexed, stats.Files, stats.Rejected, stats.Duration.Round(time.Millisecond))
	return nil
}

func (s *Session) Save(ctx context.Context, path string) error {
	s.println("Writing index...")
	if err := s.engine.Save(ctx, path); err != nil {
		return err
	}
	s.println("Index written.")
	return nil
}

func (s *Session) Load(ctx context.Context, path string) error {
	s.println("Reading index...")
	report, err := s.engine.Load(ctx, path)
	if err != nil {
		return err
	}
	if n := len(report.Problems); n > 0 {
		s.printf("Index read with %d malformed lines skipped.\n", n)
		return nil
	}
	s.println("Index read.")
	return nil
}

// Query runs q and lists the ranked documents with their title, site and
// publication date.
func (s *Session) Query(ctx context.Context, q string) (*executor.SearchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "query", "")
	plan := parser.Parse(q, s.engine.Normalizer())
	result, err := s.executor.Execute(ctx, plan, s.opts)
	span.End()
	s.engine.RecordOperation(span)
	if err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		s.println("No documents matched.")
		return result, nil
	}
	s.printf("Here are the most relevant documents (%d of %d)\n", len(result.Results), result.TotalHits)
	for i, r := range result.Results {
		s.printf("%d. %s\n", i+1, s.summary(r.DocID))
	}
	return result, nil
}

func (s *Session) summary(docID string) string {
	doc, err := ingestion.ReadDocument(docID)
	if err != nil {
		return fmt.Sprintf("%s (unreadable: %v)", docID, err)
	}
	return fmt.Sprintf("Title: %s, Publication: %s, Date Published: %s",
		doc.Title, doc.Thread.Site, doc.PublishedDate())
}

// ShowDocument prints the full article behind the n-th (1-based) result.
func (s *Session) ShowDocument(result *executor.SearchResult, n int) error {
	if n < 1 || n > len(result.Results) {
		return fmt.Errorf("no result numbered %d", n)
	}
	id := result.Results[n-1].DocID
	doc, err := ingestion.ReadDocument(id)
	if err != nil {
		return err
	}
	s.printf("Title: %s\n", doc.Title)
	if names := entityNames(doc.Entities.Persons); names != "" {
		s.printf("Persons: %s\n", names)
	}
	if names := entityNames(doc.Entities.Organizations); names != "" {
		s.printf("Organizations: %s\n", names)
	}
	s.printf("Text: %s\n", doc.Text)
	return nil
}

func entityNames(es []ingestion.Entity) string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Name
	}
	return strings.Join(names, ", ")
}

// PrintStats shows the runtime of the last operation and the index sizes.
func (s *Session) PrintStats() {
	st := s.engine.Stats()
	s.println("Here are some of our runtime statistics:")
	if st.LastOperation != "" {
		s.printf("Last operation: %s, runtime: %.6f seconds.\n", st.LastOperation, st.LastDuration.Seconds())
	}
	s.printf("Total articles: %d\n", st.Documents)
	s.printf("Total number of unique words indexed: %d\n", st.DistinctWords)
	s.printf("People: %d, organizations: %d\n", st.DistinctPeople, st.DistinctOrganizations)
}

const menu = `Please enter a number 1-6 of the options below to continue
----------------------------------------------------------
1) Create an index from a directory with documents
2) Write an index to the file
3) Read an index from the file
4) Enter a query
5) See statistics
6) Quit`

// Run drives the interactive menu until the user quits, input ends or ctx is
// cancelled. Failures of a single option are reported and the menu continues.
func (s *Session) Run(ctx context.Context) error {
	s.println("Hello! Welcome to the search engine")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println(menu)
		answer, err := s.readLine()
		if err != nil {
			return eofIsQuit(err)
		}
		switch answer {
		case "1":
			s.println("Please enter a directory filepath")
			dir, err := s.readLine()
			if err != nil {
				return eofIsQuit(err)
			}
			s.report(s.Build(ctx, dir))
		case "2":
			s.report(s.Save(ctx, ""))
		case "3":
			s.report(s.Load(ctx, ""))
		case "4":
			if err := s.interactiveQuery(ctx); err != nil {
				return eofIsQuit(err)
			}
		case "5":
			s.PrintStats()
		case "6":
			s.println("Thank you for using the search engine.")
			return nil
		default:
			s.println("Error! This is an invalid answer. Please select numbers 1 through 6.")
		}
	}
}

// interactiveQuery returns only input errors; query failures are reported.
func (s *Session) interactiveQuery(ctx context.Context) error {
	s.println("Please enter a query")
	q, err := s.readLine()
	if err != nil {
		return err
	}
	result, err := s.Query(ctx, q)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(result.Results) == 0 {
		return nil
	}
	s.println("Would you like to see the contents of a file listed above? (yes/no)")
	yes, err := s.readLine()
	if err != nil {
		return err
	}
	if !strings.EqualFold(yes, "yes") && !strings.EqualFold(yes, "y") {
		return nil
	}
	s.println("Please enter in the number of the corresponding document that you would like to see.")
	raw, err := s.readLine()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.printf("Error! %q is not a number.\n", raw)
		return nil
	}
	s.report(s.ShowDocument(result, n))
	return nil
}

func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) report(err error) {
	if err != nil {
		s.printf("Error! %v\n", err)
	}
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func eofIsQuit(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
