package demo

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

var (
	loopColor   = color.New(color.FgCyan, color.Bold)
	workerColor = color.New(color.FgYellow)
	readyColor  = color.New(color.FgGreen, color.Bold)
)

// Console serializes lines written by the loop and by workers.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Loop(format string, args ...any) {
	c.print(loopColor, "loop", format, args...)
}

func (c *Console) Worker(name, format string, args ...any) {
	c.print(workerColor, name, format, args...)
}

func (c *Console) Ready(format string, args ...any) {
	c.print(readyColor, "ready", format, args...)
}

func (c *Console) print(col *color.Color, who, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "%s %s\n", col.Sprintf("%-10s", who+":"), fmt.Sprintf(format, args...))
}

// Label is loop-owned text. Set must run on the loop; Text can be read from
// anywhere, e.g. by the status server.
type Label struct {
	console  *Console
	text     atomic.Pointer[string]
	onChange func(string)
}

func NewLabel(console *Console) *Label {
	l := &Label{console: console}
	empty := ""
	l.text.Store(&empty)
	return l
}

// OnChange registers fn to run, on the loop, after every Set.
func (l *Label) OnChange(fn func(string)) {
	l.onChange = fn
}

func (l *Label) Set(s string) {
	l.text.Store(&s)
	if l.console != nil {
		l.console.Loop("label = %q", s)
	}
	if l.onChange != nil {
		l.onChange(s)
	}
}

func (l *Label) Text() string {
	return *l.text.Load()
}
