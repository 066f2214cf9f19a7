// Package fdrfile provides the shared "sas_variables" header reader and
// writer used by both the pool file and the bug file formats (SPEC_FULL.md
// §6), so neither format duplicates the variable/domain table parser.
//
// Grounded in original_source/src/search/policy_testing/pool.h/.cc and
// bug_store.h/.cc, which both open with the identical header shape.
package fdrfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

// WriteHeader writes the "sas_variables" block followed by marker (e.g.
// "pool" or "bugs").
func WriteHeader(w io.Writer, t *task.Task, marker string) error {
	if _, err := fmt.Fprintf(w, "sas_variables\n%d\n", t.NumVariables()); err != nil {
		return err
	}
	for v := 0; v < t.NumVariables(); v++ {
		domainSize := t.VariableDomainSize(v)
		if _, err := fmt.Fprintf(w, "%d", domainSize); err != nil {
			return err
		}
		for val := 0; val < domainSize; val++ {
			if _, err := fmt.Fprintf(w, ";%s", t.FactName(task.FactPair{Var: v, Val: val})); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, marker)
	return err
}

// ReadHeader consumes the "sas_variables" block and the trailing marker
// line, which must equal wantMarker.
func ReadHeader(r *bufio.Scanner, wantMarker string) error {
	if !r.Scan() {
		return perr.New(perr.InputFormat, "missing sas_variables header")
	}
	if r.Text() != "sas_variables" {
		return perr.New(perr.InputFormat, fmt.Sprintf("expected sas_variables header, got %q", r.Text()))
	}
	if !r.Scan() {
		return perr.New(perr.InputFormat, "missing variable count")
	}
	numVars, err := strconv.Atoi(strings.TrimSpace(r.Text()))
	if err != nil {
		return perr.Wrap(perr.InputFormat, "malformed variable count", err)
	}
	for i := 0; i < numVars; i++ {
		if !r.Scan() {
			return perr.New(perr.InputFormat, "truncated variable table")
		}
	}
	if !r.Scan() {
		return perr.New(perr.InputFormat, "missing marker line")
	}
	if r.Text() != wantMarker {
		return perr.New(perr.InputFormat, fmt.Sprintf("expected %q marker, got %q", wantMarker, r.Text()))
	}
	return nil
}

// ParseSemicolonInts splits a semicolon-delimited record into integers.
func ParseSemicolonInts(line string) ([]int, error) {
	fields := strings.Split(line, ";")
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, perr.Wrap(perr.InputFormat, "malformed integer field", err)
		}
		out[i] = v
	}
	return out, nil
}
