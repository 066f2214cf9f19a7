// Package fdr parses the finite-domain representation (FDR) text format
// described in SPEC_FULL.md §6: a variable/domain table, an initial state,
// a goal, ground operator records (begin_operator/end_operator), and axiom
// records (begin_rule/end_rule, always cost 0).
//
// The grammar is a bespoke line-oriented format pinned by the
// specification; no third-party library in the example pack parses it, so
// this is implemented directly against bufio/strconv (DESIGN.md records the
// stdlib justification).
package fdr

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/perr"
	"github.com/fai-saarland/fd-action-policy-testing-sub001/internal/task"
)

type lineScanner struct {
	sc   *bufio.Scanner
	line int
}

func newLineScanner(r io.Reader) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &lineScanner{sc: sc}
}

func (s *lineScanner) next() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", perr.Wrap(perr.InputFormat, "reading FDR input", err)
		}
		return "", perr.New(perr.InputFormat, "unexpected end of input")
	}
	s.line++
	return s.sc.Text(), nil
}

func (s *lineScanner) expect(want string) error {
	got, err := s.next()
	if err != nil {
		return err
	}
	if got != want {
		return perr.New(perr.InputFormat, fmt.Sprintf("line %d: expected %q, got %q", s.line, want, got))
	}
	return nil
}

func (s *lineScanner) nextInt() (int, error) {
	line, err := s.next()
	if err != nil {
		return 0, err
	}
	v, cerr := strconv.Atoi(strings.TrimSpace(line))
	if cerr != nil {
		return 0, perr.Wrap(perr.InputFormat, fmt.Sprintf("line %d: expected integer", s.line), cerr)
	}
	return v, nil
}

func (s *lineScanner) nextInts() ([]int, error) {
	line, err := s.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, cerr := strconv.Atoi(f)
		if cerr != nil {
			return nil, perr.Wrap(perr.InputFormat, fmt.Sprintf("line %d: expected integers", s.line), cerr)
		}
		out = append(out, v)
	}
	return out, nil
}

// Parse reads a Task from r.
func Parse(r io.Reader) (*task.Task, error) {
	s := newLineScanner(r)

	if err := s.expect("begin_version"); err != nil {
		return nil, err
	}
	if _, err := s.nextInt(); err != nil {
		return nil, err
	}
	if err := s.expect("end_version"); err != nil {
		return nil, err
	}

	if err := s.expect("begin_metric"); err != nil {
		return nil, err
	}
	if _, err := s.nextInt(); err != nil {
		return nil, err
	}
	if err := s.expect("end_metric"); err != nil {
		return nil, err
	}

	numVars, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	variables := make([]task.Variable, numVars)
	for i := 0; i < numVars; i++ {
		if err := s.expect("begin_variable"); err != nil {
			return nil, err
		}
		name, err := s.next()
		if err != nil {
			return nil, err
		}
		if _, err := s.nextInt(); err != nil { // axiom layer, unused here
			return nil, err
		}
		domainSize, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		factNames := make([]string, domainSize)
		for v := 0; v < domainSize; v++ {
			n, err := s.next()
			if err != nil {
				return nil, err
			}
			factNames[v] = n
		}
		if err := s.expect("end_variable"); err != nil {
			return nil, err
		}
		variables[i] = task.Variable{Name: name, DomainSize: domainSize, FactNames: factNames}
	}

	numMutex, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	for i := 0; i < numMutex; i++ {
		if err := s.expect("begin_mutex_group"); err != nil {
			return nil, err
		}
		n, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		for j := 0; j < n; j++ {
			if _, err := s.nextInts(); err != nil {
				return nil, err
			}
		}
		if err := s.expect("end_mutex_group"); err != nil {
			return nil, err
		}
	}

	if err := s.expect("begin_state"); err != nil {
		return nil, err
	}
	initial := make([]int, numVars)
	for i := 0; i < numVars; i++ {
		v, err := s.nextInt()
		if err != nil {
			return nil, err
		}
		initial[i] = v
	}
	if err := s.expect("end_state"); err != nil {
		return nil, err
	}

	if err := s.expect("begin_goal"); err != nil {
		return nil, err
	}
	numGoal, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	goal := make([]task.FactPair, numGoal)
	for i := 0; i < numGoal; i++ {
		pair, err := s.nextInts()
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, perr.New(perr.InputFormat, fmt.Sprintf("line %d: goal fact must be \"var val\"", s.line))
		}
		goal[i] = task.FactPair{Var: pair[0], Val: pair[1]}
	}
	if err := s.expect("end_goal"); err != nil {
		return nil, err
	}

	numOps, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	operators := make([]task.Operator, numOps)
	for i := 0; i < numOps; i++ {
		op, err := parseOperatorBody(s, i, false)
		if err != nil {
			return nil, err
		}
		operators[i] = op
	}

	numAxioms, err := s.nextInt()
	if err != nil {
		return nil, err
	}
	axioms := make([]task.Operator, numAxioms)
	for i := 0; i < numAxioms; i++ {
		ax, err := parseOperatorBody(s, i, true)
		if err != nil {
			return nil, err
		}
		axioms[i] = ax
	}

	return &task.Task{
		Variables: variables,
		Operators: operators,
		Axioms:    axioms,
		Initial:   initial,
		Goal:      goal,
	}, nil
}

// parseOperatorBody parses one begin_operator/end_operator record, or one
// begin_rule/end_rule record when axiom is true (axioms carry no name line
// and are implicitly cost 0).
func parseOperatorBody(s *lineScanner, id int, axiom bool) (task.Operator, error) {
	beginTok, endTok := "begin_operator", "end_operator"
	if axiom {
		beginTok, endTok = "begin_rule", "end_rule"
	}
	if err := s.expect(beginTok); err != nil {
		return task.Operator{}, err
	}

	name := fmt.Sprintf("axiom-%d", id)
	if !axiom {
		n, err := s.next()
		if err != nil {
			return task.Operator{}, err
		}
		name = n
	}

	numPrevail, err := s.nextInt()
	if err != nil {
		return task.Operator{}, err
	}
	prevail := make([]task.FactPair, numPrevail)
	for i := 0; i < numPrevail; i++ {
		pair, err := s.nextInts()
		if err != nil {
			return task.Operator{}, err
		}
		prevail[i] = task.FactPair{Var: pair[0], Val: pair[1]}
	}

	numEffects, err := s.nextInt()
	if err != nil {
		return task.Operator{}, err
	}
	effects := make([]task.CondEffect, numEffects)
	for i := 0; i < numEffects; i++ {
		fields, err := s.nextInts()
		if err != nil {
			return task.Operator{}, err
		}
		if len(fields) < 4 {
			return task.Operator{}, perr.New(perr.InputFormat, fmt.Sprintf("line %d: malformed effect record", s.line))
		}
		numCond := fields[0]
		if len(fields) != 1+2*numCond+3 {
			return task.Operator{}, perr.New(perr.InputFormat, fmt.Sprintf("line %d: effect condition count mismatch", s.line))
		}
		ce := task.CondEffect{}
		idx := 1
		for c := 0; c < numCond; c++ {
			ce.CondVars = append(ce.CondVars, fields[idx])
			ce.CondVals = append(ce.CondVals, fields[idx+1])
			idx += 2
		}
		ce.Var = fields[idx]
		ce.Pre = fields[idx+1]
		ce.Post = fields[idx+2]
		effects[i] = ce
	}

	cost := 0
	if !axiom {
		c, err := s.nextInt()
		if err != nil {
			return task.Operator{}, err
		}
		cost = c
	}

	if err := s.expect(endTok); err != nil {
		return task.Operator{}, err
	}

	return task.Operator{ID: id, Name: name, Cost: cost, Prevail: prevail, Effects: effects}, nil
}
