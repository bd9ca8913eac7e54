package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/lexicon"
	"github.com/heartmarshall/wordpipe/internal/lexicon/cmu"
	"github.com/heartmarshall/wordpipe/internal/lexicon/kaikki"
)

type importSummary struct {
	Words          int    `json:"words"`
	WithSyllables  int    `json:"with_syllables"`
	Inserted       int    `json:"inserted"`
	Updated        int    `json:"updated"`
	Batches        int    `json:"batches"`
	MalformedLines int    `json:"malformed_lines"`
	SkippedEntries int    `json:"skipped_entries"`
	DryRun         bool   `json:"dry_run"`
	Duration       string `json:"duration"`
}

func newImportCmd(c *cli) *cobra.Command {
	var (
		kaikkiPath, cmuPath, listPath string
		limit, batchSize              int
		dryRun                        bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load words into the lexical store from a Kaikki JSONL dump",
		Long: "Parse a Kaikki (Wiktionary) JSONL dump and upsert its single-word English entries.\n" +
			"--cmu adds syllable counts, --words restricts the import to a CSV word list such as NGSL.\n" +
			"Existing words keep their difficulty annotations.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 || batchSize < 0 {
				return usagef("--limit and --batch-size must not be negative")
			}

			_, logger, err := c.config()
			if err != nil {
				return err
			}

			opts := kaikki.Options{Limit: limit}
			if listPath != "" {
				opts.Words, err = lexicon.ReadWordListFile(listPath)
				if err != nil {
					return err
				}
				logger.InfoContext(cmd.Context(), "word list loaded", slog.Int("words", len(opts.Words)))
			}

			words, stats, err := kaikki.ParseFile(kaikkiPath, opts)
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "kaikki parsed",
				slog.Int("lines", stats.TotalLines),
				slog.Int("malformed", stats.MalformedLines),
				slog.Int("words", stats.Words),
			)

			var syllables map[string]int
			if cmuPath != "" {
				var cs cmu.Stats
				syllables, cs, err = cmu.ParseFile(cmuPath)
				if err != nil {
					return err
				}
				logger.InfoContext(cmd.Context(), "cmu parsed", slog.Int("words", cs.UniqueWords))
			}

			a, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if batchSize == 0 {
				batchSize = a.Config.Batch.Size
			}
			imp := lexicon.NewImporter(a.Log, a.Words, lexicon.Config{BatchSize: batchSize, DryRun: dryRun})
			res, err := imp.Import(cmd.Context(), words, syllables)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), importSummary{
				Words:          res.Words,
				WithSyllables:  res.WithSyllables,
				Inserted:       res.Inserted,
				Updated:        res.Updated,
				Batches:        res.Batches,
				MalformedLines: stats.MalformedLines,
				SkippedEntries: stats.SkippedEntries,
				DryRun:         res.DryRun,
				Duration:       res.Duration.Round(time.Millisecond).String(),
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&kaikkiPath, "kaikki", "", "Kaikki JSONL dump")
	f.StringVar(&cmuPath, "cmu", "", "CMU Pronouncing Dictionary file")
	f.StringVar(&listPath, "words", "", "CSV word list restricting the import (first column, with header)")
	f.IntVar(&limit, "limit", 0, "maximum number of words (0 = no limit)")
	f.IntVar(&batchSize, "batch-size", 0, "words per upsert batch (0 uses the configured batch size)")
	f.BoolVar(&dryRun, "dry-run", false, "parse and report without writing")
	_ = cmd.MarkFlagRequired("kaikki")
	return cmd
}
