package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// MaybeSpinner is a spinner that can also just log text (for non-tty
// output). It doubles as the progress sink for authenticators.
type MaybeSpinner struct {
	Spin    bool
	Spinner *spinner.Spinner
}

// Start might start the spinner
func (m *MaybeSpinner) Start() {
	if m.Spin {
		m.Spinner.Start()
	}
}

// Stop will stop the spinner
func (m *MaybeSpinner) Stop() {
	if m.Spin {
		m.Spinner.Stop()
	}
}

// Update will update the spinner text
func (m *MaybeSpinner) Update(t string) {
	m.Spinner.Suffix = " " + t

	if !m.Spin {
		fmt.Println(t)
	}
}

// NewMaybeSpinner will return a new MaybeSpinner
func NewMaybeSpinner() *MaybeSpinner {
	s := &MaybeSpinner{
		Spin:    isatty.IsTerminal(os.Stdout.Fd()),
		Spinner: spinner.New(spinner.CharSets[9], 300*time.Millisecond),
	}
	s.Spinner.Prefix = " "
	return s
}
