package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"catalog/cli/internal/httperrors"
	"catalog/cli/internal/logging"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal. The spinner runs in a separate goroutine and
// can be stopped by calling the returned function, which clears the line.
//
// Nothing is drawn when w is not a terminal.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}

	cursor.Hide()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			cursor.Show()
		})
	}
}

// spin runs fn behind a spinner on stderr.
func spin(text string, fn func()) {
	stop := startInlineSpinner(os.Stderr, text, spinnerFrames, 120*time.Millisecond)
	defer stop()
	fn()
}

// printSessionExpired shows the redirect notice for a rejected token.
func printSessionExpired(w io.Writer) {
	fmt.Fprintln(w, pterm.Yellow("🔒 Session expired. Run 'catalog login'."))
}

// printNotLoggedIn shows the guard's redirect to the login view.
func printNotLoggedIn(w io.Writer) {
	fmt.Fprintln(w, "🔒 You're not logged in yet!")
	fmt.Fprintln(w, "   Run 'catalog login' to get started.")
}

// report renders err for the user and returns errReported. Transport failures
// name the configured service host.
func report(a *app, err error) error {
	logging.PresentFailure(a.out, err, httperrors.ExtractHostFromURL(a.client.BaseURL()))
	return errReported
}
