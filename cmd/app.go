package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tayloree/cookr/internal/config"
	"github.com/tayloree/cookr/internal/display"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/logging"
	"github.com/tayloree/cookr/internal/pipeline"
	"github.com/tayloree/cookr/internal/rules"
)

// app bundles what every pipeline command needs: the resolved config and
// a logger writing to stderr.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	source rules.Source
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFoundError(err.Error(), "cookr --config ./cookr.yaml")
		}
		return nil, invalidConfigError(err)
	}

	applyFlagOverrides(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, invalidArgsError(err.Error(),
			"cookr --merge-score 30 list.txt",
			"cookr --rules-source file --rules rules.yaml list.txt",
		)
	}

	source, err := rules.Open(rules.Settings{
		Kind: cfg.Rules.Source,
		File: cfg.Rules.File,
		Contentful: rules.ContentfulOptions{
			SpaceID:     cfg.Contentful.SpaceID,
			AccessToken: cfg.Contentful.AccessToken,
			Environment: cfg.Contentful.Environment,
			Locale:      cfg.Contentful.Locale,
			ContentType: cfg.Contentful.ContentType,
			BaseURL:     cfg.Contentful.BaseURL,
			Timeout:     cfg.Contentful.Timeout,
		},
	})
	if err != nil {
		return nil, invalidArgsError(err.Error(), "cookr --rules-source file --rules rules.yaml list.txt")
	}

	return &app{
		cfg:    cfg,
		logger: logging.New(cfg.Log, cmd.ErrOrStderr()),
		source: source,
	}, nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config, so
// flags win over the file and the environment.
func applyFlagOverrides(f *pflag.FlagSet, cfg *config.Config) {
	if f.Changed("rules") {
		cfg.Rules.File = flagRulesFile
		cfg.Rules.Source = rules.KindFile
	}
	if f.Changed("rules-source") {
		cfg.Rules.Source = flagRulesSource
	}
	if f.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if f.Changed("merge") {
		cfg.Pipeline.MergeSimilar = flagMerge
	}
	if f.Changed("merge-score") {
		cfg.Pipeline.MergeMaxScore = flagMergeScore
	}
	if f.Changed("categorise") {
		cfg.Pipeline.Categorise = flagCategorise
	}
	if f.Changed("categorise-score") {
		cfg.Pipeline.CategoriseMaxScore = flagCategoriseScore
	}
	if f.Changed("show-merged") {
		cfg.Pipeline.ShowMerged = flagShowMerged
	}
	if f.Changed("unknown") {
		cfg.Pipeline.UnknownCategory = flagUnknown
	}
}

func (a *app) options() pipeline.Options {
	return optionsFromConfig(a.cfg.Pipeline)
}

func optionsFromConfig(p config.PipelineConfig) pipeline.Options {
	return pipeline.Options{
		MergeSimilar:       p.MergeSimilar,
		MergeMaxScore:      p.MergeMaxScore,
		Categorise:         p.Categorise,
		CategoriseMaxScore: p.CategoriseMaxScore,
		ShowMerged:         p.ShowMerged,
		Unknown:            p.UnknownCategory,
	}
}

// loadRules fetches the rule list once. Rules are skipped entirely when
// categorisation is off.
func (a *app) loadRules(ctx context.Context) ([]ingredient.MatchingRule, error) {
	if !a.cfg.Pipeline.Categorise {
		return nil, nil
	}
	return a.fetchRules(ctx)
}

func (a *app) fetchRules(ctx context.Context) ([]ingredient.MatchingRule, error) {
	start := time.Now()
	list, err := a.source.Load(ctx)
	if err != nil {
		a.logger.Error("loading rules failed", "source", a.source.Name(), "error", err)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, notFoundError(
				fmt.Sprintf("rules file not found (%s)", a.source.Name()),
				"cookr --rules ./rules.yaml list.txt",
				"cookr --rules-source none list.txt",
			)
		case strings.HasPrefix(a.source.Name(), rules.KindContentful):
			return nil, upstreamError("loading rules", err)
		default:
			return nil, invalidArgsError(err.Error(), "Check the rules file syntax.")
		}
	}

	a.logger.Debug("rules loaded",
		"source", a.source.Name(),
		"count", len(list),
		"duration", time.Since(start),
	)
	return list, nil
}

// readInput returns the list text from the file argument or stdin. "-"
// names stdin explicitly. When stdin is an interactive terminal and no
// file was given, an error is returned when required is set and an empty
// list is used otherwise.
func readInput(cmd *cobra.Command, args []string, required bool) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", notFoundError(
					fmt.Sprintf("input file %s not found", args[0]),
					"cookr ./list.txt",
					"cat list.txt | cookr",
				)
			}
			return "", internalError("reading input", err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if len(args) == 0 && isTerminal(in) {
		if required {
			return "", invalidArgsError(
				"no input: pass a file or pipe the list on stdin",
				"cookr list.txt",
				"pbpaste | cookr",
			)
		}
		return "", nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", internalError("reading stdin", err)
	}
	return string(data), nil
}

// writeMarkdown prints md to w, or writes it to path when one is given.
func writeMarkdown(w io.Writer, path, md string) error {
	if path != "" {
		return writeFile(path, md)
	}
	if md == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(md, "\n"))
	return err
}

func writeFile(path, content string) error {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return internalError("writing "+path, err)
	}
	return nil
}

func printRulesContext(cmd *cobra.Command, a *app, count int) {
	if flagJSON {
		return
	}
	display.PrintRulesContext(cmd.ErrOrStderr(), a.source.Name(), count)
}
