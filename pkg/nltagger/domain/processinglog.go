package domain

import "strings"

// ProcessingLog an append-only list of human-readable lines describing a run. Every run starts with a new one.
type ProcessingLog struct {
	lines []string
}

func (p *ProcessingLog) Append(line string) {
	p.lines = append(p.lines, line)
}

// String renders every line terminated by a newline.
func (p *ProcessingLog) String() string {
	var buf strings.Builder
	for _, line := range p.lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}
