package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Faultbox/terranav/internal/navgrid"
	"github.com/Faultbox/terranav/internal/objects"
	"github.com/Faultbox/terranav/internal/terrain"
	"github.com/Faultbox/terranav/internal/world"
)

var errUsage = errors.New("usage")

func isHelp(cmd string) bool {
	return cmd == "help" || cmd == "-h" || cmd == "--help"
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `terranav - terrain navigation grid tool

Usage:
  terranav [global flags] <command> [options]

Global flags:
  -config <file>     Config file (default: ./terranav.yaml, then the user config dir)
  -debug             Enable debug logging
  -seed <n>          Terrain seed
  -width <n>         Grid width
  -height <n>        Grid height
  -heights <file>    Load heights and objects from an .hfd file
  -save-config       Write the effective config to the user config dir

Commands:
  gen -o <file.hfd>                   Write the terrain and objects to a file
  info                                Show grid statistics
  path <x1> <y1> <x2> <y2>            Find a path between two cells
  map [-path x1,y1,x2,y2]             Draw the grid, optionally with a path
  objects <minX> <minY> <maxX> <maxY> List objects inside a region
  check                               Verify graph invariants

Examples:
  terranav -seed 42 info
  terranav -seed 42 gen -o island.hfd
  terranav -heights island.hfd path 3 4 50 60
  terranav -width 40 -height 20 map -path 0,0,39,19`)
}

// run dispatches one command against a loaded world.
func run(m *world.Manager, command string, args []string, out io.Writer) error {
	var err error
	switch command {
	case "gen":
		err = cmdGen(m, args, out)
	case "info":
		err = cmdInfo(m, out)
	case "path":
		err = cmdPath(m, args, out)
	case "map":
		err = cmdMap(m, args, out)
	case "objects", "obj":
		err = cmdObjects(m, args, out)
	case "check":
		err = cmdCheck(m, out)
	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", command)
	}
	if errors.Is(err, errUsage) {
		return fmt.Errorf("%w: terranav %s", err, commandUsage[command])
	}
	return err
}

var commandUsage = map[string]string{
	"gen":     "gen -o <file.hfd>",
	"path":    "path <x1> <y1> <x2> <y2>",
	"map":     "map [-path x1,y1,x2,y2]",
	"objects": "objects <minX> <minY> <maxX> <maxY>",
	"obj":     "objects <minX> <minY> <maxX> <maxY>",
}

func cmdGen(m *world.Manager, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.String("o", "", "Output .hfd file")
	if err := fs.Parse(args); err != nil || *output == "" {
		return errUsage
	}

	if err := m.SaveFile(*output); err != nil {
		return err
	}
	cur := m.Current()
	fmt.Fprintf(out, "Wrote %s (%dx%d, %d objects)\n", *output, cur.Width(), cur.Height(), cur.Objects.Len())
	return nil
}

func cmdInfo(m *world.Manager, out io.Writer) error {
	cur := m.Current()
	s := cur.Nav.Stats()
	lo, hi := cur.Field.Range()

	fmt.Fprintf(out, "Map:        %s\n", cur.Name)
	fmt.Fprintf(out, "Size:       %dx%d\n", s.Width, s.Height)
	fmt.Fprintf(out, "Heights:    %.2f .. %.2f\n", lo, hi)
	fmt.Fprintf(out, "Walkable:   %d (%.1f%%)\n", s.Walkable, percent(s.Walkable, s.Width*s.Height))
	fmt.Fprintf(out, "Occupied:   %d\n", s.Occupied)
	fmt.Fprintf(out, "Components: %d (largest %d)\n", s.Components, s.LargestComponent)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Cells by class:")
	for _, c := range []terrain.Class{terrain.ClassLow, terrain.ClassMid, terrain.ClassHigh} {
		fmt.Fprintf(out, "  %-6s %d\n", c, s.ByClass[c])
	}

	counts := cur.Objects.CountByKind()
	kinds := make([]objects.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	fmt.Fprintln(out, "Objects by kind:")
	for _, k := range kinds {
		fmt.Fprintf(out, "  %-6s %d\n", k, counts[k])
	}
	return nil
}

func cmdPath(m *world.Manager, args []string, out io.Writer) error {
	if len(args) != 4 {
		return errUsage
	}
	nums, err := parseInts(args)
	if err != nil {
		return err
	}
	start, goal := navgrid.Pos{X: nums[0], Y: nums[1]}, navgrid.Pos{X: nums[2], Y: nums[3]}

	path := m.FindPath(start, goal)
	if len(path) == 0 {
		fmt.Fprintf(out, "No path from %v to %v (%s)\n", start, goal, explainNoPath(m.Current().Nav, start, goal))
		return nil
	}

	fmt.Fprintf(out, "Path from %v to %v:\n", start, goal)
	for i, p := range path {
		fmt.Fprintf(out, "  %3d %v\n", i+1, p)
	}
	fmt.Fprintf(out, "Steps:  %d\n", len(path))
	fmt.Fprintf(out, "Length: %.3f\n", navgrid.PathLength(start, path))
	fmt.Fprintf(out, "Cost:   %.3f\n", m.Current().Nav.PathCost(path))
	return nil
}

// explainNoPath names the first fast-reject reason that applies.
func explainNoPath(g *navgrid.Grid, start, goal navgrid.Pos) string {
	switch {
	case !g.InBounds(start.X, start.Y):
		return "start out of bounds"
	case !g.InBounds(goal.X, goal.Y):
		return "goal out of bounds"
	case !g.Walkable(start.X, start.Y):
		return "start not walkable"
	case !g.Walkable(goal.X, goal.Y):
		return "goal not walkable"
	case start == goal:
		return "start is the goal"
	case !g.Connected(start, goal):
		return fmt.Sprintf("components %d and %d", g.Component(start.X, start.Y), g.Component(goal.X, goal.Y))
	default:
		return "search failed"
	}
}

func cmdMap(m *world.Manager, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pathSpec := fs.String("path", "", "Overlay a path: x1,y1,x2,y2")
	if err := fs.Parse(args); err != nil || fs.NArg() > 0 {
		return errUsage
	}

	cur := m.Current()
	var start, goal *navgrid.Pos
	var path []navgrid.Pos
	if *pathSpec != "" {
		nums, err := parseInts(strings.Split(*pathSpec, ","))
		if err != nil || len(nums) != 4 {
			return errUsage
		}
		start, goal = &navgrid.Pos{X: nums[0], Y: nums[1]}, &navgrid.Pos{X: nums[2], Y: nums[3]}
		path = m.FindPath(*start, *goal)
	}

	fmt.Fprint(out, renderMap(cur, start, goal, path))
	if start != nil && len(path) == 0 {
		fmt.Fprintf(out, "No path from %v to %v\n", *start, *goal)
	}
	return nil
}

// Map glyphs.
const (
	glyphLow     = '.'
	glyphMid     = ':'
	glyphHigh    = '^'
	glyphBlocked = '#'
	glyphTree    = 'T'
	glyphStone   = 'o'
	glyphPath    = '*'
	glyphStart   = 'S'
	glyphGoal    = 'G'
)

// renderMap draws one character per cell, one line per row.
func renderMap(mp *world.Map, start, goal *navgrid.Pos, path []navgrid.Pos) string {
	w, h := mp.Width(), mp.Height()
	rows := make([][]byte, h)
	for y := range rows {
		rows[y] = make([]byte, w)
		for x := range rows[y] {
			rows[y][x] = cellGlyph(mp, x, y)
		}
	}

	set := func(p navgrid.Pos, g byte) {
		if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h {
			rows[p.Y][p.X] = g
		}
	}
	for _, p := range path {
		set(p, glyphPath)
	}
	if start != nil {
		set(*start, glyphStart)
	}
	if goal != nil && len(path) > 0 {
		set(*goal, glyphGoal)
	}

	var b strings.Builder
	b.Grow((w + 1) * h)
	for _, r := range rows {
		b.Write(r)
		b.WriteByte('\n')
	}
	return b.String()
}

func cellGlyph(mp *world.Map, x, y int) byte {
	if o, ok := mp.Objects.At(navgrid.Pos{X: x, Y: y}); ok {
		if o.Kind == objects.KindTree {
			return glyphTree
		}
		return glyphStone
	}
	c, _ := mp.Nav.Cell(x, y)
	if !c.Walkable {
		return glyphBlocked
	}
	switch c.Class {
	case terrain.ClassLow:
		return glyphLow
	case terrain.ClassMid:
		return glyphMid
	default:
		return glyphHigh
	}
}

func cmdObjects(m *world.Manager, args []string, out io.Writer) error {
	if len(args) != 4 {
		return errUsage
	}
	nums, err := parseInts(args)
	if err != nil {
		return err
	}

	found := m.Current().Objects.InRegion(nums[0], nums[1], nums[2], nums[3])
	for _, o := range found {
		fmt.Fprintf(out, "%-6s %v\n", o.Kind, o.Pos)
	}
	fmt.Fprintf(out, "(%d objects)\n", len(found))
	return nil
}

func cmdCheck(m *world.Manager, out io.Writer) error {
	cur := m.Current()
	if err := cur.Nav.Verify(); err != nil {
		return fmt.Errorf("map %s failed verification:\n%w", cur.Name, err)
	}
	s := cur.Nav.Stats()
	fmt.Fprintf(out, "OK: %s, %d cells, %d components\n", cur.Name, s.Width*s.Height, s.Components)
	return nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = n
	}
	return out, nil
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
