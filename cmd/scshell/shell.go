// File: shell.go
// Role: the scshell REPL core — dispatches line-oriented commands
// (spec.md §6.2) against a solver.Solver.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/circuitiso/sgiso/graph"
	"github.com/circuitiso/sgiso/solver"
)

// shell holds all REPL state across lines: the solver, an open graph
// block (if any), pending initial mappings, and the buffer of solve
// results accumulated since the last `expect`.
type shell struct {
	sv      *solver.Solver
	out     io.Writer
	errOut  io.Writer
	current *graphBlock
	initMap map[string][]string
	buffer  []solver.Result
}

func newShell(out, errOut io.Writer) *shell {
	return &shell{
		sv:      solver.New(),
		out:     out,
		errOut:  errOut,
		initMap: make(map[string][]string),
	}
}

// handleLine processes a single input line. stop is true once the shell
// should terminate (an expect mismatch); exit is the process exit code in
// that case.
func (s *shell) handleLine(line string) (exit int, stop bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return 0, false
	}
	fields := strings.Fields(trimmed)

	if s.current != nil {
		done, err := s.current.handleLine(trimmed, fields)
		if err != nil {
			s.reportErr(trimmed, err)
			return 0, false
		}
		if done {
			if err := s.sv.AddGraph(s.current.name, s.current.builder.Freeze()); err != nil {
				s.reportErr(trimmed, err)
			}
			s.current = nil
		}
		return 0, false
	}

	switch fields[0] {
	case "graph":
		return s.cmdGraph(trimmed, fields)
	case "compatible":
		return s.cmdCompatible(trimmed, fields)
	case "constcompat":
		return s.cmdConstCompat(trimmed, fields)
	case "swapgroup":
		return s.cmdSwapGroup(trimmed, fields)
	case "swapperm":
		return s.cmdSwapPerm(trimmed, fields)
	case "initmap":
		return s.cmdInitMap(trimmed, fields)
	case "solve":
		return s.cmdSolve(trimmed, fields)
	case "mine":
		return s.cmdMine(trimmed, fields)
	case "expect":
		return s.cmdExpect(trimmed, fields)
	case "clearoverlap":
		s.sv.ClearOverlapHistory()
		return 0, false
	case "clearconfig":
		s.sv.ClearConfig()
		return 0, false
	case "verbose":
		s.sv.SetVerbose(true)
		return 0, false
	default:
		s.reportErr(trimmed, &ParseErr{Line: trimmed, Reason: "unknown command " + fields[0]})
		return 0, false
	}
}

func (s *shell) reportErr(line string, err error) {
	fmt.Fprintln(s.errOut, err)
}

func (s *shell) cmdGraph(line string, fields []string) (int, bool) {
	if len(fields) != 2 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "graph requires exactly one name"})
		return 0, false
	}
	s.current = &graphBlock{name: fields[1], builder: graph.NewBuilder()}
	return 0, false
}

func (s *shell) cmdCompatible(line string, fields []string) (int, bool) {
	if len(fields) != 3 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "compatible requires needle_type and haystack_type"})
		return 0, false
	}
	s.sv.AddCompatibleTypes(fields[1], fields[2])
	return 0, false
}

func (s *shell) cmdConstCompat(line string, fields []string) (int, bool) {
	if len(fields) != 3 || len(fields[1]) != 1 || len(fields[2]) != 1 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "constcompat requires two single characters"})
		return 0, false
	}
	s.sv.AddCompatibleConstants(fields[1][0], fields[2][0])
	return 0, false
}

func (s *shell) cmdSwapGroup(line string, fields []string) (int, bool) {
	if len(fields) < 4 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "swapgroup requires a type and at least 2 ports"})
		return 0, false
	}
	if err := s.sv.AddSwappablePorts(fields[1], fields[2:]...); err != nil {
		s.reportErr(line, err)
	}
	return 0, false
}

func (s *shell) cmdSwapPerm(line string, fields []string) (int, bool) {
	colon := -1
	for i, f := range fields {
		if f == ":" {
			colon = i
			break
		}
	}
	if colon < 0 || colon < 3 || colon == len(fields)-1 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "swapperm requires <type> <ports...> : <ports...>"})
		return 0, false
	}
	typ := fields[1]
	from := fields[2:colon]
	to := fields[colon+1:]
	if err := s.sv.AddSwappablePortsPermutation(typ, from, to); err != nil {
		s.reportErr(line, err)
	}
	return 0, false
}

func (s *shell) cmdInitMap(line string, fields []string) (int, bool) {
	if len(fields) < 3 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "initmap requires a needle node and at least one haystack node"})
		return 0, false
	}
	s.initMap[fields[1]] = append(s.initMap[fields[1]], fields[2:]...)
	return 0, false
}

func (s *shell) cmdSolve(line string, fields []string) (int, bool) {
	if len(fields) < 3 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "solve requires needle and haystack names"})
		return 0, false
	}
	opts := solver.DefaultSolveOptions()
	if len(fields) >= 4 {
		allow, ok := parseBool(fields[3])
		if !ok {
			s.reportErr(line, &ParseErr{Line: line, Reason: "bad allow_overlap value " + fields[3]})
			return 0, false
		}
		opts.AllowOverlap = allow
	}
	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			s.reportErr(line, &ParseErr{Line: line, Reason: "bad max_solutions value " + fields[4]})
			return 0, false
		}
		opts.MaxSolutions = n
	}
	if len(s.initMap) > 0 {
		opts.InitialMappings = s.initMap
	}

	var results []solver.Result
	if err := s.sv.Solve(&results, fields[1], fields[2], opts); err != nil {
		s.reportErr(line, err)
		s.initMap = make(map[string][]string)
		return 0, false
	}
	s.buffer = append(s.buffer, results...)
	s.initMap = make(map[string][]string)
	return 0, false
}

func (s *shell) cmdMine(line string, fields []string) (int, bool) {
	if len(fields) < 4 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "mine requires min_nodes, max_nodes, min_matches"})
		return 0, false
	}
	minN, err1 := strconv.Atoi(fields[1])
	maxN, err2 := strconv.Atoi(fields[2])
	minM, err3 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || err3 != nil {
		s.reportErr(line, &ParseErr{Line: line, Reason: "mine arguments must be integers"})
		return 0, false
	}
	perCap := -1
	if len(fields) >= 5 {
		c, err := strconv.Atoi(fields[4])
		if err != nil {
			s.reportErr(line, &ParseErr{Line: line, Reason: "bad per_graph_cap value " + fields[4]})
			return 0, false
		}
		perCap = c
	}
	results, err := s.sv.Mine(solver.MineOptions{MinNodes: minN, MaxNodes: maxN, MinMatches: minM, PerGraphCap: perCap})
	if err != nil {
		s.reportErr(line, err)
		return 0, false
	}
	writeMineResults(s.out, results)
	return 0, false
}

func (s *shell) cmdExpect(line string, fields []string) (int, bool) {
	if len(fields) != 2 {
		s.reportErr(line, &ParseErr{Line: line, Reason: "expect requires exactly one integer"})
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		s.reportErr(line, &ParseErr{Line: line, Reason: "bad expect count " + fields[1]})
		return 0, false
	}
	for i, r := range s.buffer {
		writeMatch(s.out, i+1, r)
	}
	actual := len(s.buffer)
	s.buffer = nil
	if actual != n {
		s.reportErr(line, &ExpectMismatchErr{Expected: n, Actual: actual})
		return 1, true
	}
	return 0, false
}

func parseBool(tok string) (bool, bool) {
	switch tok {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	default:
		return false, false
	}
}
