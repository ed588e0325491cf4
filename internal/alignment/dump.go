package alignment

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// DumpGlyphs are the characters written for each traceback direction.
type DumpGlyphs struct {
	Diagonal byte
	Up       byte
	Left     byte
}

// DefaultGlyphs returns '\' for Diagonal, '<' for Up and '^' for Left.
func DefaultGlyphs() DumpGlyphs {
	return DumpGlyphs{Diagonal: '\\', Up: '<', Left: '^'}
}

func (g DumpGlyphs) glyph(d Direction) string {
	switch d {
	case Diagonal:
		return string(g.Diagonal)
	case Up:
		return string(g.Up)
	case Left:
		return string(g.Left)
	default:
		return " "
	}
}

// DumpScores writes the filled matrix as CSV. The first row lists the
// target bases; each following row starts with a probe base and holds a
// (direction glyph, score) pair per target position. Only dense matrices
// can be dumped.
func (c *core) DumpScores(out io.Writer, glyphs DumpGlyphs) error {
	if c.state < aligned {
		return ErrNotAligned
	}
	if c.mat.banded {
		return &ParameterError{Name: "band", Value: *c.scores.Band, Reason: "banded matrices cannot be dumped"}
	}

	w := csv.NewWriter(out)
	header := make([]string, 1, 1+2*len(c.target))
	for _, s := range c.target {
		header = append(header, " ", s.String())
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing dump header: %w", err)
	}

	row := make([]string, 0, cap(header))
	for p, ps := range c.probe {
		row = append(row[:0], ps.String())
		for t := range c.target {
			cell, _ := c.mat.at(p, t)
			row = append(row, glyphs.glyph(cell.Dir), strconv.Itoa(int(cell.Score)))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing dump row %d: %w", p, err)
		}
	}

	w.Flush()
	return w.Error()
}

// DumpScoresFile writes the CSV dump to path.
func (c *core) DumpScoresFile(path string, glyphs DumpGlyphs) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}

	if err := c.DumpScores(f, glyphs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
