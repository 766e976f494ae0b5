// Package format renders value-level metadata as display text.
//
// Output is plain text with **bold** as the only inline markup, so any
// renderer that understands simple emphasis can show it.
package format

import (
	"bytes"
	"strings"
)

const indentSize = 2

// Printer builds indented, block-structured text.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

func newPrinter() *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the output without trailing newlines.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n")
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// blank separates blocks with one empty line.
func (p *Printer) blank() {
	if p.output.Len() == 0 {
		return
	}
	if !p.atLineStart {
		p.writeln()
	}
	if !bytes.HasSuffix(p.output.Bytes(), []byte("\n\n")) {
		p.writeln()
	}
}

// bold writes s with emphasis markup.
func (p *Printer) bold(s string) {
	p.write("**" + s + "**")
}

// field writes "**label:** value" on its own line. Empty values are skipped.
func (p *Printer) field(label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	p.bold(label + ":")
	p.write(" " + value)
	p.writeln()
}

// text writes each line of s at the current depth.
func (p *Printer) text(s string) {
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			p.write(line)
			p.writeln()
		}
	}
}

// formatList writes count items separated by sep.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}
