package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/console"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/logger"
)

func main() {
	app := cli.NewApp()
	app.Name = "corpus-search"
	app.HelpName = os.Args[0]
	app.Usage = "build, persist and query an inverted index over a directory of news articles"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "path to a YAML config file"},
		cli.StringFlag{Name: "index, i", Usage: "persistence file (overrides index.persistencePath)"},
		cli.BoolFlag{Name: "strict", Usage: "fail on the first malformed persistence line"},
		cli.StringFlag{Name: "order", Usage: "result order: natural or score"},
		cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
	}
	app.Commands = []cli.Command{
		indexCommand,
		queryCommand,
		uiCommand,
		statsCommand,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command needs: the resolved config and an engine built
// from it.
type env struct {
	cfg    *config.Config
	engine *indexer.Engine
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if p := c.GlobalString("index"); p != "" {
		cfg.Index.PersistencePath = p
	}
	if c.GlobalBool("strict") {
		cfg.Index.StrictLoad = true
	}
	if o := c.GlobalString("order"); o != "" {
		cfg.Search.Order = o
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if l := c.GlobalString("log-level"); l != "" {
		cfg.Logging.Level = l
	}
	// stdout belongs to the user-facing output.
	logger.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	engine, err := indexer.NewEngine(cfg.Index, cfg.Ingest, nil)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, engine: engine}, nil
}

func (e *env) session() *console.Session {
	return console.New(e.engine, e.cfg.Search, os.Stdin, os.Stdout)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var indexCommand = cli.Command{
	Name:      "index",
	Usage:     "Index every article under a directory and write the persistence file",
	ArgsUsage: "<dir>",
	Action:    runIndex,
}

func runIndex(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("index takes exactly one directory", 2)
	}
	e, err := setup(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	s := e.session()
	if err := s.Build(ctx, c.Args().First()); err != nil {
		return err
	}
	return s.Save(ctx, "")
}

var queryCommand = cli.Command{
	Name:      "query",
	Usage:     "Read the persistence file and run one query",
	ArgsUsage: "<terms...>",
	Flags: []cli.Flag{
		cli.IntFlag{Name: "show", Usage: "also print the full text of the n-th result"},
	},
	Action: runQuery,
}

func runQuery(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.NewExitError("query needs at least one term", 2)
	}
	e, err := setup(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	s := e.session()
	if err := s.Load(ctx, ""); err != nil {
		return err
	}
	result, err := s.Query(ctx, strings.Join(c.Args(), " "))
	if err != nil {
		return err
	}
	if n := c.Int("show"); n > 0 {
		return s.ShowDocument(result, n)
	}
	return nil
}


var uiCommand = cli.Command{
	Name:   "ui",
	Usage:  "Start the interactive menu",
	Action: runUI,
}

func runUI(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return e.session().Run(ctx)
}

var statsCommand = cli.Command{
	Name:   "stats",
	Usage:  "Read the persistence file and print index statistics",
	Action: runStats,
}

func runStats(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	s := e.session()
	if err := s.Load(ctx, ""); err != nil {
		return err
	}
	s.PrintStats()
	return nil
}
