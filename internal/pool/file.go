package pool

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fdrfile"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// File is an append-only pool-file writer: header, then one
// "<ref_index>;<steps>;<state_id>;<val0>;<val1>;..." line per entry
// (SPEC_FULL.md §6).
type File struct {
	w io.Writer
}

// NewFile writes the header immediately and returns a File ready for
// Write calls.
func NewFile(w io.Writer, t *task.Task) (*File, error) {
	if err := fdrfile.WriteHeader(w, t, "pool"); err != nil {
		return nil, err
	}
	return &File{w: w}, nil
}

// Write appends one pool entry record.
func (f *File) Write(refIndex, steps int, stateID task.StateID, values []int) error {
	if _, err := fmt.Fprintf(f.w, "%d;%d;%d", refIndex, steps, stateID); err != nil {
		return err
	}
	for _, v := range values {
		if _, err := fmt.Fprintf(f.w, ";%d", v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(f.w)
	return err
}

// WriteEntry writes e given its resolved values.
func (f *File) WriteEntry(e Entry, values []int) error {
	return f.Write(e.RefIndex, e.Steps, e.State, values)
}

// LoadFile opens path and loads its pool entries, interning states into
// registry.
func LoadFile(t *task.Task, registry *task.StateRegistry, path string) (*Pool, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrap(perr.InputFormat, "opening pool file", err)
	}
	defer fh.Close()
	return Load(t, registry, fh)
}

// Load reads a full pool file (header + entries) from r.
func Load(t *task.Task, registry *task.StateRegistry, r io.Reader) (*Pool, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if err := fdrfile.ReadHeader(sc, "pool"); err != nil {
		return nil, err
	}
	return Parse(registry, sc)
}

// Parse reads pool entry records (no header) from sc.
func Parse(registry *task.StateRegistry, sc *bufio.Scanner) (*Pool, error) {
	p := New()
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields, err := fdrfile.ParseSemicolonInts(line)
		if err != nil {
			return nil, err
		}
		if len(fields) < 3 {
			return nil, perr.New(perr.InputFormat, "malformed pool entry")
		}
		ref := fields[0]
		steps := fields[1]
		values := fields[3:]
		stateID := registry.Intern(values)
		p.Add(ref, steps, stateID)
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "reading pool file", err)
	}
	return p, nil
}
