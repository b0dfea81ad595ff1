package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"schedule-scribe-go/internal/config"
	"schedule-scribe-go/internal/dataset"
	"schedule-scribe-go/internal/ics"
	"schedule-scribe-go/internal/llm"
	"schedule-scribe-go/internal/logger"
	"schedule-scribe-go/internal/pipeline"
	"schedule-scribe-go/internal/transcription"
)

var version = "(unknown)"

func main() {
	_ = godotenv.Load() // loads .env

	app := cli.App{
		Name:    "scribe",
		Usage:   "turn a natural-language schedule description into an ICS calendar",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to an optional YAML config file",
			},
		},
		Commands: []cli.Command{
			processCmd,
			batchCmd,
		},
		Action: runProcess,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

var processCmd = cli.Command{
	Name:  "process",
	Usage: "read one schedule description from stdin (or an audio file) and write an ICS file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "audio",
			Usage: "transcribe this audio recording instead of reading stdin",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output file path (overrides config)",
		},
	},
	Action: runProcess,
}

func runProcess(c *cli.Context) error {
	log := logger.New().WithField("command", "process")

	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			return errors.New("please set the OPENAI_API_KEY environment variable")
		}
		return err
	}

	proc := pipeline.New(llm.NewClient(cfg), transcription.NewClient(cfg), cfg)
	log.WithField("reference_date", proc.ReferenceDate()).Info("starting submission")

	ctx := context.Background()
	var res pipeline.Result
	if audio := c.String("audio"); audio != "" {
		res, err = proc.ProcessAudio(ctx, audio)
	} else {
		fmt.Println("Please enter your schedule description:")
		input, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return fmt.Errorf("read stdin: %w", readErr)
		}
		res, err = proc.Process(ctx, strings.TrimSpace(string(input)))
	}
	if err != nil {
		return err
	}

	outPath := cfg.OutputPath
	if o := c.String("out"); o != "" {
		outPath = o
	}
	if err := os.WriteFile(outPath, []byte(res.Document), 0o644); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}

	log.WithField("event_count", len(res.Events)).
		WithField("output", outPath).
		Info("schedule processed successfully")

	printPreview(res, cfg.PreviewDays)
	return nil
}

var batchCmd = cli.Command{
	Name:      "batch",
	Usage:     "process many schedule descriptions from a spreadsheet, one ICS file per row",
	ArgsUsage: "<spreadsheet.xlsx>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "directory for the generated ICS files",
			Value: ".",
		},
	},
	Action: runBatch,
}

func runBatch(c *cli.Context) error {
	log := logger.New().WithField("command", "batch")

	if c.NArg() != 1 {
		return errors.New("batch needs exactly one spreadsheet path")
	}
	path := c.Args().Get(0)

	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			return errors.New("please set the OPENAI_API_KEY environment variable")
		}
		return err
	}

	subs, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("load spreadsheet: %w", err)
	}
	log.WithField("submission_count", len(subs)).Info("spreadsheet loaded")

	outDir := c.String("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	proc := pipeline.New(llm.NewClient(cfg), transcription.NewClient(cfg), cfg)

	ctx := context.Background()
	failed := 0
	for _, sub := range subs {
		subLog := log.WithField("submission", sub.ID)
		res, err := proc.Process(ctx, sub.Description)
		if err != nil {
			// Each row is its own submission: a failure stays terminal
			// for that row but does not abort the rest of the batch.
			subLog.WithError(err).Warn("submission failed")
			failed++
			continue
		}
		outPath := filepath.Join(outDir, sub.ID+".ics")
		if err := os.WriteFile(outPath, []byte(res.Document), 0o644); err != nil {
			subLog.WithError(err).Warn("write failed")
			failed++
			continue
		}
		subLog.WithField("event_count", len(res.Events)).WithField("output", outPath).Info("submission processed")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", failed, len(subs))
	}
	return nil
}

func printPreview(res pipeline.Result, days int) {
	occs := ics.Preview(res.Events, time.Now().UTC(), time.Duration(days)*24*time.Hour)
	if len(occs) == 0 {
		return
	}
	fmt.Printf("Upcoming occurrences (next %d days):\n", days)
	for _, o := range occs {
		fmt.Printf("  %s  %s\n", o.Start.Format("Mon 2006-01-02 15:04"), o.Title)
	}
}
