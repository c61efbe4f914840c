// Package ui renders nudi's terminal output: notifications for dispatched
// outcomes, form previews and the upload progress view.
package ui

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/nudibranch/nudi/cli/internal/ui/components"
)

// Notifier prints dispatched outcomes to a terminal. Navigation is reported
// as the absolute URL the browser would have opened.
type Notifier struct {
	mu    sync.Mutex
	out   io.Writer
	base  *url.URL
	width int
}

// NewNotifier writes to out; relative locations resolve against baseURL.
func NewNotifier(out io.Writer, baseURL string) *Notifier {
	n := &Notifier{out: out, width: 80}
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" {
		n.base = u
	}
	return n
}

// SetWidth sets the terminal width used for boxed output.
func (n *Notifier) SetWidth(width int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.width = width
}

// Notify prints a server message.
func (n *Notifier) Notify(message string) {
	text := components.CleanMessage(message)

	lines := strings.Split(text, "\n")
	var b strings.Builder
	for i, line := range lines {
		prefix := "  "
		if i == 0 {
			prefix = AccentStyle.Render("•") + " "
		}
		b.WriteString(prefix + NormalStyle.Render(line) + "\n")
	}
	n.write(b.String())
}

// Navigate reports the location the user is sent to.
func (n *Notifier) Navigate(location string) {
	target := n.resolve(components.SanitizeOneLine(location))
	n.write(SuccessStyle.Render("→") + " " + LinkStyle.Render(target) + "\n")
}

// Alert prints a failure.
func (n *Notifier) Alert(err error) {
	msg := "unknown error"
	if err != nil {
		msg = components.CleanMessage(err.Error())
	}
	n.mu.Lock()
	width := n.width
	n.mu.Unlock()
	n.write(components.ErrorBox("Error", msg, width) + "\n")
}

func (n *Notifier) resolve(location string) string {
	if n.base == nil || location == "" {
		return location
	}
	ref, err := url.Parse(location)
	if err != nil {
		return location
	}
	return n.base.ResolveReference(ref).String()
}

func (n *Notifier) write(s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprint(n.out, s)
}
