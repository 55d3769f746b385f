// File: graphblock.go
// Role: parses the `graph <name> ... endgraph` block syntax (spec.md §6.2)
// against a graph.Builder.
package main

import (
	"strconv"
	"strings"

	"github.com/circuitiso/sgiso/graph"
)

// graphBlock accumulates a Builder while a `graph <name>` ... `endgraph`
// block is open.
type graphBlock struct {
	name    string
	builder *graph.Builder
}

// handleLine dispatches one line of a graph block. Returns (done, err):
// done is true once `endgraph` is seen.
func (g *graphBlock) handleLine(line string, fields []string) (bool, error) {
	switch fields[0] {
	case "endgraph":
		return true, nil
	case "node":
		return false, g.parseNode(line, fields)
	case "connect":
		return false, g.parseConnect(line, fields)
	case "constant":
		return false, g.parseConstant(line, fields)
	case "extern":
		return false, g.parseExtern(line, fields)
	case "allextern":
		g.builder.MarkAllExtern()
		return false, nil
	default:
		return false, &ParseErr{Line: line, Reason: "unknown graph-block command " + fields[0]}
	}
}

// parseNode handles: node <name>[:<type>] (<port> <width> [<min_width>])+
//
// <name> may carry an optional ":type" suffix; a bare name is its own
// type, matching a netlist where most instances are singly-typed. A
// trailing numeric token in a port group is greedily consumed as
// min_width; since port names are expected non-numeric, this resolves the
// otherwise-ambiguous optional-field grammar without a delimiter.
func (g *graphBlock) parseNode(line string, fields []string) error {
	if len(fields) < 2 {
		return &ParseErr{Line: line, Reason: "node requires a name"}
	}
	name, typ := fields[1], fields[1]
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name, typ = name[:i], name[i+1:]
	}
	shareable := false
	if err := g.builder.CreateNode(name, typ, nil, shareable); err != nil {
		return err
	}
	rest := fields[2:]
	for len(rest) > 0 {
		if len(rest) < 2 {
			return &ParseErr{Line: line, Reason: "incomplete port spec"}
		}
		portName := rest[0]
		width, err := strconv.Atoi(rest[1])
		if err != nil {
			return &ParseErr{Line: line, Reason: "bad port width " + rest[1]}
		}
		minWidth := width
		consumed := 2
		if len(rest) >= 3 {
			if mw, err := strconv.Atoi(rest[2]); err == nil {
				minWidth = mw
				consumed = 3
			}
		}
		if err := g.builder.CreatePortMinWidth(name, portName, width, minWidth); err != nil {
			return err
		}
		rest = rest[consumed:]
	}
	return nil
}

// parseConnect handles both connect forms:
//
//	connect <fromNode> <fromPort> <toNode> <toPort>
//	connect <fromNode> <fromPort> <fromBit> <toNode> <toPort> <toBit> [<width>]
func (g *graphBlock) parseConnect(line string, fields []string) error {
	args := fields[1:]
	switch len(args) {
	case 4:
		return g.builder.Connect(args[0], args[1], args[2], args[3])
	case 6, 7:
		fromBit, err := strconv.Atoi(args[2])
		if err != nil {
			return &ParseErr{Line: line, Reason: "bad from-bit " + args[2]}
		}
		toBit, err := strconv.Atoi(args[5])
		if err != nil {
			return &ParseErr{Line: line, Reason: "bad to-bit " + args[5]}
		}
		width := 1
		if len(args) == 7 {
			width, err = strconv.Atoi(args[6])
			if err != nil {
				return &ParseErr{Line: line, Reason: "bad width " + args[6]}
			}
		}
		return g.builder.ConnectBits(args[0], args[1], fromBit, args[3], args[4], toBit, width)
	default:
		return &ParseErr{Line: line, Reason: "connect takes 4 or 6-7 arguments"}
	}
}

// parseConstant handles: constant <node> <port> [<bit>] <value>
func (g *graphBlock) parseConstant(line string, fields []string) error {
	args := fields[1:]
	switch len(args) {
	case 3:
		return g.builder.CreateConstant(args[0], args[1], 0, args[2][0])
	case 4:
		bit, err := strconv.Atoi(args[2])
		if err != nil {
			return &ParseErr{Line: line, Reason: "bad bit " + args[2]}
		}
		return g.builder.CreateConstant(args[0], args[1], bit, args[3][0])
	default:
		return &ParseErr{Line: line, Reason: "constant takes 3 or 4 arguments"}
	}
}

// parseExtern handles: extern <node> (<port> [<bit>])+
func (g *graphBlock) parseExtern(line string, fields []string) error {
	if len(fields) < 3 {
		return &ParseErr{Line: line, Reason: "extern requires a node and at least one port"}
	}
	node := fields[1]
	rest := fields[2:]
	for len(rest) > 0 {
		port := rest[0]
		consumed := 1
		if len(rest) >= 2 {
			if bit, err := strconv.Atoi(rest[1]); err == nil {
				if err := g.builder.MarkExternBit(node, port, bit); err != nil {
					return err
				}
				rest = rest[2:]
				continue
			}
		}
		if err := g.builder.MarkExtern(node, port); err != nil {
			return err
		}
		rest = rest[consumed:]
	}
	return nil
}
