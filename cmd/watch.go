package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/tayloree/cookr/internal/debounce"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/logging"
	"github.com/tayloree/cookr/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render the checklist whenever the list file changes",
	Long: "Watches a list file and re-renders the Markdown checklist after edits.\n" +
		"Bursts of writes are collapsed: a render starts once the file has been\n" +
		"quiet for the debounce delay (watch.debounce, default 500ms).",
	Example: `  cookr watch list.txt
  cookr watch list.txt -o list.md --merge-score 30`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the Markdown to a file instead of stdout")
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	input, err := filepath.Abs(args[0])
	if err != nil {
		return internalError("resolving input path", err)
	}
	if _, err := os.Stat(input); err != nil {
		return notFoundError(fmt.Sprintf("input file %s not found", args[0]), "cookr watch ./list.txt")
	}

	output := ""
	if flagOutput != "" {
		if output, err = filepath.Abs(flagOutput); err != nil {
			return internalError("resolving output path", err)
		}
		if output == input {
			return invalidArgsError("--output must differ from the watched file", "cookr watch list.txt -o list.md")
		}
	}

	list, err := a.loadRules(cmd.Context())
	if err != nil {
		return err
	}
	printRulesContext(cmd, a, len(list))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &watchSession{
		input:  input,
		output: output,
		stdout: cmd.OutOrStdout(),
		rules:  list,
		opts:   a.options(),
		delay:  a.cfg.Watch.Debounce,
		logger: a.logger,
	}
	return s.run(ctx)
}

// watchSession re-renders one input file on change until its context ends.
type watchSession struct {
	input  string
	output string
	stdout io.Writer
	rules  []ingredient.MatchingRule
	opts   pipeline.Options
	delay  time.Duration
	logger *slog.Logger
}

func (s *watchSession) run(ctx context.Context) error {
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return internalError("starting file watcher", err)
	}
	defer fw.Close()

	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself. Watching the directory survives that.
	if err := fw.Add(filepath.Dir(s.input)); err != nil {
		return internalError("watching "+filepath.Dir(s.input), err)
	}

	sched := debounce.New(s.delay, func(trigger string) {
		if err := s.render(trigger); err != nil {
			s.logger.Warn("render failed", "file", s.input, "error", err)
		}
	})
	defer sched.Stop()

	if err := s.render("initial"); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.input {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				s.logger.Debug("change detected", "file", s.input, "op", ev.Op.String())
				sched.Trigger(ev.Op.String())
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)
		}
	}
}

func (s *watchSession) render(trigger string) error {
	runID := logging.NewRunID()
	start := time.Now()

	data, err := os.ReadFile(s.input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFoundError(fmt.Sprintf("input file %s not found", s.input))
		}
		return internalError("reading input", err)
	}

	res := pipeline.Run(string(data), s.rules, s.opts)
	if s.output != "" {
		if err := writeFile(s.output, res.Markdown); err != nil {
			return err
		}
	} else {
		if err := writeMarkdown(s.stdout, "", res.Markdown); err != nil {
			return err
		}
		fmt.Fprintln(s.stdout)
	}

	s.logger.Info("rendered list",
		"run_id", runID,
		"trigger", trigger,
		"products", len(res.Products),
		"merged", res.MergedCount,
		"duration", time.Since(start),
	)
	return nil
}
