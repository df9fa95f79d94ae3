package ctrl

import (
	"github.com/google/shlex"
)

// Command is one static entry of the console command table.
type Command struct {
	Name string
	Help string
	Run  func(c *Controller, args []string) error
}

// Dispatch is the outcome of a completed console line.
type Dispatch struct {
	Cmd     *Command
	Args    []string
	Unknown string // first token when no table entry matched
}

// maxLine bounds the line buffer; further characters are dropped silently.
const maxLine = 256

// Interpreter accumulates console bytes into lines and resolves them
// against the command table. Every accepted byte is echoed back.
type Interpreter struct {
	port  ConsolePort
	table []Command
	buf   []byte
}

func NewInterpreter(port ConsolePort, table []Command) *Interpreter {
	return &Interpreter{
		port:  port,
		table: table,
		buf:   make([]byte, 0, maxLine),
	}
}

// Empty reports whether the line buffer has no pending characters.
func (it *Interpreter) Empty() bool { return len(it.buf) == 0 }

// Table exposes the command table (help rendering).
func (it *Interpreter) Table() []Command { return it.table }

// Feed consumes one byte. It returns a Dispatch when a carriage return
// completed a non-blank line, else nil. Unaccepted bytes are ignored.
func (it *Interpreter) Feed(b byte) *Dispatch {
	switch {
	case b == '\r':
		it.echo('\r')
		it.echo('\n')
		line := string(it.buf)
		it.buf = it.buf[:0]
		if len(line) == 0 {
			return nil
		}
		return it.resolve(line)
	case b == '\b' || b == 0x7F:
		if len(it.buf) > 0 {
			it.buf = it.buf[:len(it.buf)-1]
			it.echo(b)
		}
		return nil
	case b >= 0x20 && b < 0x7F:
		if len(it.buf) < maxLine {
			it.buf = append(it.buf, b)
		}
		it.echo(b)
		return nil
	}
	return nil
}

func (it *Interpreter) resolve(line string) *Dispatch {
	toks, err := shlex.Split(line)
	if err != nil || len(toks) == 0 {
		if err != nil {
			return &Dispatch{Unknown: line}
		}
		return nil
	}
	for i := range it.table {
		if it.table[i].Name == toks[0] {
			return &Dispatch{Cmd: &it.table[i], Args: toks[1:]}
		}
	}
	return &Dispatch{Unknown: toks[0]}
}

func (it *Interpreter) echo(b byte) {
	_, _ = it.port.Write([]byte{b})
}
