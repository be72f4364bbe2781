package card

import (
	"fmt"
	"strings"
)

// Program is the decoded grid of symbols, row-major. It is not modified
// after construction.
type Program struct {
	rows [][]Symbol
}

// BlankProgram returns a rows x cols program with nothing punched.
func BlankProgram(rows, cols int) *Program {
	grid := make([][]Symbol, rows)
	for i := range grid {
		grid[i] = make([]Symbol, cols)
		for j := range grid[i] {
			grid[i][j] = Unpunched
		}
	}
	return &Program{rows: grid}
}

// Assemble builds a Program from classified cells.
func Assemble(cells [][]Cell) *Program {
	grid := make([][]Symbol, len(cells))
	for i, row := range cells {
		grid[i] = make([]Symbol, len(row))
		for j, c := range row {
			grid[i][j] = c.Symbol
		}
	}
	return &Program{rows: grid}
}

// ParseProgram reads program text: one line per row, every line the same
// length, characters from {'1', '-'}. A single trailing newline is allowed.
func ParseProgram(text string) (*Program, error) {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil, fmt.Errorf("empty program")
	}

	lines := strings.Split(text, "\n")
	grid := make([][]Symbol, len(lines))
	for i, line := range lines {
		if len(line) != len(lines[0]) {
			return nil, fmt.Errorf("line %d has %d columns, want %d", i+1, len(line), len(lines[0]))
		}
		grid[i] = make([]Symbol, len(line))
		for j := 0; j < len(line); j++ {
			switch s := Symbol(line[j]); s {
			case Punched, Unpunched:
				grid[i][j] = s
			default:
				return nil, fmt.Errorf("line %d column %d: unexpected %q", i+1, j+1, line[j])
			}
		}
	}
	return &Program{rows: grid}, nil
}

// Rows returns the number of rows.
func (p *Program) Rows() int {
	return len(p.rows)
}

// Cols returns the number of columns.
func (p *Program) Cols() int {
	if len(p.rows) == 0 {
		return 0
	}
	return len(p.rows[0])
}

// At returns the symbol at row i, column j.
func (p *Program) At(i, j int) Symbol {
	return p.rows[i][j]
}

// Punched returns true if row i, column j is punched.
func (p *Program) Punched(i, j int) bool {
	return p.rows[i][j] == Punched
}

// Count returns the number of punched positions.
func (p *Program) Count() int {
	n := 0
	for _, row := range p.rows {
		for _, s := range row {
			if s == Punched {
				n++
			}
		}
	}
	return n
}

// Lines renders each row as a string.
func (p *Program) Lines() []string {
	lines := make([]string, len(p.rows))
	for i, row := range p.rows {
		b := make([]byte, len(row))
		for j, s := range row {
			b[j] = byte(s)
		}
		lines[i] = string(b)
	}
	return lines
}

// String renders the program as newline-joined rows with no trailing newline.
func (p *Program) String() string {
	return strings.Join(p.Lines(), "\n")
}

// Equal reports whether two programs have the same shape and symbols.
func (p *Program) Equal(other *Program) bool {
	if p.Rows() != other.Rows() || p.Cols() != other.Cols() {
		return false
	}
	for i := range p.rows {
		for j := range p.rows[i] {
			if p.rows[i][j] != other.rows[i][j] {
				return false
			}
		}
	}
	return true
}
