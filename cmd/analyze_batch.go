package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/shirtstats/internal/analysis"
	"github.com/KaramelBytes/shirtstats/internal/logger"
	"github.com/KaramelBytes/shirtstats/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abTarget   string
	abJobs     int
	abCombined bool
	abSave     bool
	abNoSave   bool
	abMerge    string
	abQuiet    bool
)

type batchResult struct {
	path   string
	report *analysis.Report
	err    error
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze several documents in parallel and print their reports in order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := utils.ExpandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c := currentConfig()
		opt, err := analysisOptions(abTarget, c.TargetLabel)
		if err != nil {
			return err
		}
		sopt, save, err := saveSettings(cmd, abSave, abNoSave, abMerge)
		if err != nil {
			return err
		}
		jobs := c.BatchJobs
		if cmd.Flags().Changed("jobs") && abJobs > 0 {
			jobs = abJobs
		}

		runID := uuid.New()
		ctx := logger.WithRun(cmd.Context(), runID.String())
		results := runBatch(ctx, files, opt, jobs)

		out := cmd.OutOrStdout()
		total := len(files)
		var failed []error
		var combined analysis.LabelSequence
		for i, r := range results {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] %s\n", i+1, total, filepath.Base(r.path))
			}
			if r.err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", r.err)
				failed = append(failed, r.err)
				continue
			}
			if !abQuiet {
				fmt.Fprintln(out, r.report.Text())
			}
			if !r.report.Empty {
				combined = append(combined, expand(r.report.Frequencies)...)
			}
		}

		if abCombined || save {
			rep, err := analysis.Analyze(combined, opt)
			if err != nil && !errors.Is(err, analysis.ErrEmptyDataset) {
				return err
			}
			if abCombined {
				rep.Name = fmt.Sprintf("combined (%d files)", total-len(failed))
				fmt.Fprintln(out, rep.Text())
			}
			if save && !rep.Empty {
				persist(ctx, cmd.ErrOrStderr(), rep.Frequencies, runID, sopt)
			}
		}

		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %w", len(failed), total, errors.Join(failed...))
		}
		return nil
	},
}

// runBatch analyzes files with at most jobs concurrent workers. Results keep
// the order of files; one failure does not stop the others.
func runBatch(ctx context.Context, files []string, opt analysis.Options, jobs int) []batchResult {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]batchResult, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			rep, err := analyzeFile(ctx, path, opt)
			results[i] = batchResult{path: path, report: rep, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// expand rebuilds a label sequence from counts, in first-seen order.
func expand(f analysis.FrequencyMap) analysis.LabelSequence {
	out := make(analysis.LabelSequence, 0, f.Total())
	for _, kv := range f.Entries() {
		for n := 0; n < kv.Count; n++ {
			out = append(out, kv.Value)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abTarget, "target", "t", "", "color whose probability is reported (default from config, RED)")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 0, "maximum documents analyzed concurrently (default from config)")
	analyzeBatchCmd.Flags().BoolVar(&abCombined, "combined", false, "also print one report over all documents")
	analyzeBatchCmd.Flags().BoolVar(&abSave, "save", false, "save combined frequencies to PostgreSQL (overrides save_to_db)")
	analyzeBatchCmd.Flags().BoolVar(&abNoSave, "no-save", false, "never touch the database")
	analyzeBatchCmd.Flags().StringVar(&abMerge, "merge", "", "merge policy for existing colors: overwrite|increment (overrides config)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress per-file reports")
}
