package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/shirtstats/internal/analysis"
	"github.com/KaramelBytes/shirtstats/internal/logger"
	"github.com/KaramelBytes/shirtstats/internal/parser"
	"github.com/KaramelBytes/shirtstats/internal/store"
	"github.com/KaramelBytes/shirtstats/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	anaTarget     string
	anaOutputPath string
	anaJSON       bool
	anaSave       bool
	anaNoSave     bool
	anaMerge      string
	anaPrompt     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze the color table of an HTML/CSV/XLSX document",
	Long: `Analyze reads the first table of the document, skipping its header row, and
reports the most worn color, the median color, the variance of color
frequencies and the probability of the target color.

The file comes from the argument, from an interactive prompt (--prompt), or
from default_input in the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		path, err := resolveInput(cmd, args, c.DefaultInput)
		if err != nil {
			return err
		}
		opt, err := analysisOptions(anaTarget, c.TargetLabel)
		if err != nil {
			return err
		}
		sopt, save, err := saveSettings(cmd, anaSave, anaNoSave, anaMerge)
		if err != nil {
			return err
		}

		runID := uuid.New()
		ctx := logger.WithRun(cmd.Context(), runID.String())
		logger.C(ctx).Debug().Str("path", path).Msg("analyze start")

		rep, err := analyzeFile(ctx, path, opt)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if anaJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		} else {
			fmt.Fprint(out, rep.Text())
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(rep.Markdown())); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote analysis to %s\n", anaOutputPath)
		}
		if save && !rep.Empty {
			persist(ctx, cmd.ErrOrStderr(), rep.Frequencies, runID, sopt)
		}
		return nil
	},
}

// resolveInput picks the document path: argument, then prompt, then default.
func resolveInput(cmd *cobra.Command, args []string, def string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	if anaPrompt {
		return promptPath(cmd.InOrStdin(), cmd.ErrOrStderr(), def)
	}
	if def == "" {
		return "", fmt.Errorf("%w: no input file given and no default_input configured", parser.ErrInputNotFound)
	}
	return def, nil
}

func promptPath(in io.Reader, out io.Writer, def string) (string, error) {
	fmt.Fprintf(out, "Enter the path to the HTML file [%s]: ", def)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		if def == "" {
			return "", fmt.Errorf("%w: no input file given", parser.ErrInputNotFound)
		}
		return def, nil
	}
	return line, nil
}

func analysisOptions(flagTarget, cfgTarget string) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	t := cfgTarget
	if strings.TrimSpace(flagTarget) != "" {
		t = flagTarget
	}
	if t != "" {
		l := analysis.NormalizeLabel(t)
		if l == "" {
			return opt, fmt.Errorf("invalid --target: %q", t)
		}
		opt.Target = l
	}
	return opt, nil
}

// saveSettings merges --save/--no-save/--merge with the config.
func saveSettings(cmd *cobra.Command, flagSave, flagNoSave bool, flagMerge string) (saveOptions, bool, error) {
	c := currentConfig()
	save := c.SaveToDB
	if cmd.Flags().Changed("save") {
		save = flagSave
	}
	if flagNoSave {
		save = false
	}
	policy := c.MergePolicy
	if cmd.Flags().Changed("merge") {
		policy = flagMerge
	}
	p, err := store.ParseMergePolicy(policy)
	if err != nil {
		return saveOptions{}, false, err
	}
	return saveOptions{
		URL:     c.DatabaseURL,
		Policy:  p,
		Timeout: time.Duration(c.DBTimeoutSec) * time.Second,
	}, save, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaTarget, "target", "t", "", "color whose probability is reported (default from config, RED)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print the report as JSON")
	analyzeCmd.Flags().BoolVar(&anaSave, "save", false, "save frequencies to PostgreSQL (overrides save_to_db)")
	analyzeCmd.Flags().BoolVar(&anaNoSave, "no-save", false, "never touch the database")
	analyzeCmd.Flags().StringVar(&anaMerge, "merge", "", "merge policy for existing colors: overwrite|increment (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaPrompt, "prompt", false, "ask for the file path when no argument is given")
}
