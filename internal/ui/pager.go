package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/noborus/ov/oviewer"
)

var errNoProgram = errors.New("program not set")

// showInPager hands the terminal to ov for content and takes it back when
// the user leaves the pager
func showInPager(program *tea.Program, content string) error {
	if program == nil {
		return errNoProgram
	}

	if err := program.ReleaseTerminal(); err != nil {
		return errors.Wrap(err, "releasing terminal")
	}
	defer func() {
		// let ov finish resetting the screen before Bubble Tea redraws
		time.Sleep(100 * time.Millisecond)
		_ = program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return errors.Wrap(err, "creating pager")
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
