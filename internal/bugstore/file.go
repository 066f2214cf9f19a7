package bugstore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/bugvalue"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/fdrfile"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/oracle"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/policy"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// File is an append-only bug-file writer: header (shared with pool files
// via internal/fdrfile), then one three-line record per event
// (SPEC_FULL.md §6/§4.9): a "state" record the first time a StateID is
// seen (persisting its value-vector so a later replay does not need the
// original registry populated), a "result" record whenever the stored
// TestResult changes, and a "pool" record when the state is also a pool
// entry.
type File struct {
	w io.Writer
}

// NewFile writes the header immediately and returns a File ready for
// Write* calls.
func NewFile(w io.Writer, t *task.Task) (*File, error) {
	if err := fdrfile.WriteHeader(w, t, "bugs"); err != nil {
		return nil, err
	}
	return &File{w: w}, nil
}

// WriteState appends a "state" record for id, persisting its values.
func (f *File) WriteState(id task.StateID, values []int) error {
	if _, err := fmt.Fprintf(f.w, "state\n%d\n", id); err != nil {
		return err
	}
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = strconv.Itoa(v)
	}
	_, err := fmt.Fprintln(f.w, strings.Join(strs, " "))
	return err
}

// WriteResult appends a "result" record for id.
func (f *File) WriteResult(id task.StateID, r oracle.TestResult) error {
	if _, err := fmt.Fprintf(f.w, "result\n%d\n", id); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f.w, "%d %d\n", int64(r.BugValue), int64(r.UpperCostBound))
	return err
}

// WritePool appends a "pool" record for id.
func (f *File) WritePool(id task.StateID) error {
	_, err := fmt.Fprintf(f.w, "pool\n%d\n\n", id)
	return err
}

// LoadFile opens path and loads a full bug file, interning any states it
// names into registry.
func LoadFile(t *task.Task, registry *task.StateRegistry, path string) (*Store, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrap(perr.InputFormat, "opening bug file", err)
	}
	defer fh.Close()
	return Load(t, registry, fh)
}

// Load reads a full bug file (header + records) from r.
func Load(t *task.Task, registry *task.StateRegistry, r io.Reader) (*Store, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if err := fdrfile.ReadHeader(sc, "bugs"); err != nil {
		return nil, err
	}
	return Parse(registry, sc)
}

// Parse reads bug-file records (no header) from sc.
func Parse(registry *task.StateRegistry, sc *bufio.Scanner) (*Store, error) {
	s := New()
	for sc.Scan() {
		kind := strings.TrimSpace(sc.Text())
		if kind == "" {
			continue
		}
		if !sc.Scan() {
			return nil, perr.New(perr.InputFormat, "truncated bug record: missing state id")
		}
		id, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			return nil, perr.Wrap(perr.InputFormat, "malformed bug record state id", err)
		}
		stateID := task.StateID(id)

		if !sc.Scan() {
			return nil, perr.New(perr.InputFormat, "truncated bug record: missing payload")
		}
		payload := sc.Text()

		switch kind {
		case "state":
			fields := strings.Fields(payload)
			values := make([]int, len(fields))
			for i, fstr := range fields {
				v, verr := strconv.Atoi(fstr)
				if verr != nil {
					return nil, perr.Wrap(perr.InputFormat, "malformed state values", verr)
				}
				values[i] = v
			}
			interned := registry.Intern(values)
			if interned != stateID {
				return nil, perr.New(perr.InputFormat, "bug file state id does not match registry interning order")
			}
		case "result":
			fields := strings.Fields(payload)
			if len(fields) != 2 {
				return nil, perr.New(perr.InputFormat, "malformed result record")
			}
			bv, err1 := strconv.ParseInt(fields[0], 10, 64)
			ucb, err2 := strconv.ParseInt(fields[1], 10, 64)
			if err1 != nil || err2 != nil {
				return nil, perr.New(perr.InputFormat, "malformed result record values")
			}
			s.AddAdditionalBug(stateID, oracle.TestResult{
				BugValue:       bugvalue.Value(bv),
				UpperCostBound: policy.Cost(ucb),
			})
		case "pool":
			s.MarkPool(stateID)
		default:
			return nil, perr.New(perr.InputFormat, fmt.Sprintf("unknown bug record kind %q", kind))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(perr.InputFormat, "reading bug file", err)
	}
	return s, nil
}
