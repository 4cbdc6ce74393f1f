package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/KaramelBytes/shirtstats/internal/analysis"
	"github.com/KaramelBytes/shirtstats/internal/logger"
	"github.com/KaramelBytes/shirtstats/internal/parser"
	"github.com/KaramelBytes/shirtstats/internal/store"
	"github.com/google/uuid"
)

// analyzeFile runs extract -> analyze for one document. An empty table is not
// an error: the returned report has Empty set.
func analyzeFile(ctx context.Context, path string, opt analysis.Options) (*analysis.Report, error) {
	log := logger.C(ctx).With().Str("path", path).Logger()
	ex, err := parser.ExtractFile(path)
	if err != nil {
		log.Debug().Err(err).Msg("extract failed")
		return nil, err
	}
	if ex.Skipped > 0 {
		log.Warn().Int("skipped", ex.Skipped).Msg("rows with fewer than two cells were skipped")
	}
	rep, err := analysis.Analyze(ex.Labels, opt)
	if err != nil && !errors.Is(err, analysis.ErrEmptyDataset) {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	rep.Name, rep.Rows, rep.Skipped = ex.Source, ex.Rows, ex.Skipped
	if rep.Empty {
		log.Warn().Msg("no colors found in table")
	} else {
		log.Debug().Int("labels", rep.Total).Int("distinct", rep.Frequencies.Len()).Msg("analyzed")
	}
	return rep, nil
}

// frequencySink is the persistence seam used by the commands.
type frequencySink interface {
	Save(ctx context.Context, freq analysis.FrequencyMap, runID uuid.UUID) (int, error)
	Close()
}

// openSink connects, verifies, and migrates the database. Replaced in tests.
var openSink = func(ctx context.Context, c store.Config) (frequencySink, error) {
	s, err := store.Open(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

type saveOptions struct {
	URL     string
	Policy  store.MergePolicy
	Timeout time.Duration
}

// persist saves freq and reports the outcome on out. Failures are downgraded
// to a warning and never change the command's result.
func persist(ctx context.Context, out io.Writer, freq analysis.FrequencyMap, runID uuid.UUID, opt saveOptions) bool {
	log := logger.C(ctx).With().Str("component", "store").Logger()
	fmt.Fprintln(out, "\n--- PostgreSQL Database ---")
	if opt.URL == "" {
		fmt.Fprintln(out, "⚠ Skipping database operation: no database_url configured")
		return false
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sink, err := openSink(ctx, store.Config{URL: opt.URL, Policy: opt.Policy, Timeout: timeout})
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable")
		fmt.Fprintf(out, "⚠ Skipping database operation: %v\n", err)
		return false
	}
	defer sink.Close()

	n, err := sink.Save(ctx, freq, runID)
	if err != nil {
		log.Warn().Err(err).Msg("save frequencies failed")
		fmt.Fprintf(out, "⚠ Skipping database operation: %v\n", err)
		return false
	}
	log.Info().Int("rows", n).Str("policy", string(opt.Policy)).Msg("frequencies saved")
	fmt.Fprintf(out, "✓ Saved %d color frequencies (%s)\n", n, opt.Policy)
	return true
}
