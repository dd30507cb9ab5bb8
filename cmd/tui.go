package cmd

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tayloree/cookr/internal/debounce"
	"github.com/tayloree/cookr/internal/pipeline"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Edit a list with a live checklist preview",
	Long: "Opens a two-pane editor: the raw list on the left and the rendered\n" +
		"checklist on the right. The preview refreshes once typing pauses.\n" +
		"With a file argument, ctrl+s saves the list back to it.",
	Example: `  cookr tui
  cookr tui list.txt --rules rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`cookr tui` requires an interactive terminal",
			"Use `cookr list.txt` or `cookr watch list.txt` in pipelines.",
		)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	path := ""
	text := ""
	if len(args) > 0 {
		path = args[0]
		data, readErr := os.ReadFile(path)
		switch {
		case readErr == nil:
			text = string(data)
		case os.IsNotExist(readErr):
			// Saving creates it.
		default:
			return internalError("reading input", readErr)
		}
	}

	list, err := a.fetchRules(cmd.Context())
	if err != nil {
		return err
	}

	var prog *tea.Program
	sched := debounce.New(a.cfg.Watch.Debounce, func(req renderRequest) {
		prog.Send(req.run(list))
	})
	defer sched.Stop()

	model := newEditorModel(editorConfig{
		text:        text,
		path:        path,
		rules:       list,
		rulesSource: a.source.Name(),
		opts:        a.options(),
		schedule:    sched.Trigger,
	})

	prog = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = prog.Run()
	if err != nil && cmd.Context().Err() == nil {
		return internalError("running editor", err)
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTerminal(stdout)
}

// renderRequest is one queued pipeline pass.
type renderRequest struct {
	seq  int
	text string
	opts pipeline.Options
}
