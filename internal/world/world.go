// Package world owns the current terrain and its navigation graph.
package world

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/terranav/internal/config"
	"github.com/Faultbox/terranav/internal/logger"
	"github.com/Faultbox/terranav/internal/navgrid"
	"github.com/Faultbox/terranav/internal/objects"
	"github.com/Faultbox/terranav/internal/terrain"
	"github.com/Faultbox/terranav/pkg/formats"
)

// World errors.
var (
	ErrNoMap        = errors.New("no map loaded")
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrCellOccupied = errors.New("cell already holds an object")
	ErrNoObject     = errors.New("no object at position")
	ErrUnknownKind  = errors.New("unknown object kind")
)

// Map is one fully built terrain. A Map is never modified after NewMap;
// changes produce a new Map.
type Map struct {
	Name    string
	Field   *terrain.HeightField
	Detail  *terrain.HeightField // placement noise; nil for maps loaded from disk
	Objects *objects.Index
	Nav     *navgrid.Grid
}

// NewMap builds the navigation graph for field with objs as fixed obstacles.
func NewMap(name string, field *terrain.HeightField, objs *objects.Index, th terrain.Thresholds) *Map {
	if objs == nil {
		objs = objects.NewIndex()
	}
	return &Map{
		Name:    name,
		Field:   field,
		Objects: objs,
		Nav:     navgrid.Build(field, objs.Occupied(), navgrid.Options{Thresholds: th}),
	}
}

// Width returns the map width in cells.
func (m *Map) Width() int { return m.Field.Width }

// Height returns the map height in cells.
func (m *Map) Height() int { return m.Field.Height }

// IsWalkable checks if a position is walkable.
func (m *Map) IsWalkable(x, y int) bool {
	return m.Nav.Walkable(x, y)
}

// ToFile converts the map's heights and objects to the on-disk format.
func (m *Map) ToFile() *formats.HeightFieldFile {
	f := &formats.HeightFieldFile{
		Version: formats.CurrentHFDVersion,
		Width:   uint32(m.Field.Width),
		Height:  uint32(m.Field.Height),
		Heights: m.Field.Clone().Values,
	}
	for _, o := range m.Objects.All() {
		f.Objects = append(f.Objects, formats.ObjectRecord{
			Kind: uint8(o.Kind),
			X:    uint32(o.Pos.X),
			Y:    uint32(o.Pos.Y),
		})
	}
	return f
}

// MapFromFile builds a Map from a parsed height-field file.
func MapFromFile(name string, f *formats.HeightFieldFile, th terrain.Thresholds) (*Map, error) {
	field, err := terrain.NewHeightField(int(f.Width), int(f.Height), f.Heights)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", name, err)
	}

	objs := objects.NewIndex()
	for i, rec := range f.Objects {
		kind := objects.Kind(rec.Kind)
		if kind != objects.KindTree && kind != objects.KindStone {
			return nil, fmt.Errorf("map %s: object %d: %w: %d", name, i, ErrUnknownKind, rec.Kind)
		}
		p := navgrid.Pos{X: int(rec.X), Y: int(rec.Y)}
		if !field.InBounds(p.X, p.Y) {
			return nil, fmt.Errorf("map %s: object %d at %v: %w", name, i, p, ErrOutOfBounds)
		}
		if !objs.Add(objects.Object{Kind: kind, Pos: p}) {
			return nil, fmt.Errorf("map %s: object %d at %v: %w", name, i, p, ErrCellOccupied)
		}
	}
	return NewMap(name, field, objs, th), nil
}

// Manager manages the current map and map transitions. Rebuilds take the
// write lock and swap in a finished Map; queries take the read lock.
type Manager struct {
	mu      sync.RWMutex
	cfg     *config.Config
	current *Map
	log     *zap.Logger
}

// NewManager creates a new world manager.
func NewManager(cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Manager{
		cfg: cfg,
		log: logger.Named("world"),
	}
}

// Current returns the current map, or nil before the first load.
func (m *Manager) Current() *Map {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Load generates or reads the map named by the configuration.
func (m *Manager) Load() error {
	if path := m.cfg.Terrain.HeightFile; path != "" {
		return m.LoadFile(path)
	}
	_, err := m.Generate(m.cfg.Terrain.Seed)
	return err
}

// Generate builds a new terrain from seed using the configured size and
// recipe, scatters objects over it and makes it current.
func (m *Manager) Generate(seed int64) (*Map, error) {
	if err := m.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generating map: %w", err)
	}
	t := m.cfg.Terrain

	gen := terrain.Generate(t.Width, t.Height, seed, recipe(m.cfg))
	objs := objects.Scatter(gen.Field, gen.Detail.HeightField, scatterRules(m.cfg), seed)

	next := NewMap(fmt.Sprintf("seed-%d", seed), gen.Field, objs, thresholds(m.cfg))
	next.Detail = gen.Detail.HeightField
	m.swap(next)
	return next, nil
}

// LoadFile reads a height-field file and makes it current.
func (m *Manager) LoadFile(path string) error {
	f, err := formats.ParseHeightFieldFile(path)
	if err != nil {
		return fmt.Errorf("loading map %s: %w", path, err)
	}
	lo, hi := f.HeightRange()
	m.log.Debug("map file read",
		zap.String("path", path),
		zap.Stringer("version", f.Version),
		zap.Float32("min_height", lo),
		zap.Float32("max_height", hi),
		zap.Int("objects", len(f.Objects)),
	)
	next, err := MapFromFile(path, f, thresholds(m.cfg))
	if err != nil {
		return fmt.Errorf("loading map %s: %w", path, err)
	}
	m.swap(next)
	return nil
}

// SaveFile writes the current map's heights and objects to path.
func (m *Manager) SaveFile(path string) error {
	cur := m.Current()
	if cur == nil {
		return ErrNoMap
	}
	if err := formats.WriteHeightFieldFile(path, cur.ToFile()); err != nil {
		return fmt.Errorf("saving map %s: %w", cur.Name, err)
	}
	m.log.Info("map saved", zap.String("map", cur.Name), zap.String("path", path))
	return nil
}

// AddObject places an object and rebuilds the navigation graph.
func (m *Manager) AddObject(o objects.Object) error {
	return m.rebuild(func(cur *Map, objs *objects.Index) error {
		if !cur.Field.InBounds(o.Pos.X, o.Pos.Y) {
			return fmt.Errorf("adding %v at %v: %w", o.Kind, o.Pos, ErrOutOfBounds)
		}
		if !objs.Add(o) {
			return fmt.Errorf("adding %v at %v: %w", o.Kind, o.Pos, ErrCellOccupied)
		}
		return nil
	})
}

// RemoveObject clears the object at p and rebuilds the navigation graph.
func (m *Manager) RemoveObject(p navgrid.Pos) error {
	return m.rebuild(func(_ *Map, objs *objects.Index) error {
		if !objs.Remove(p) {
			return fmt.Errorf("removing object at %v: %w", p, ErrNoObject)
		}
		return nil
	})
}

// rebuild copies the current objects, applies edit to the copy and swaps in
// a freshly built map. The old Map stays valid for readers holding it.
func (m *Manager) rebuild(edit func(cur *Map, objs *objects.Index) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.current
	if cur == nil {
		return ErrNoMap
	}

	objs := objects.NewIndex()
	for _, o := range cur.Objects.All() {
		objs.Add(o)
	}
	if err := edit(cur, objs); err != nil {
		return err
	}

	next := NewMap(cur.Name, cur.Field, objs, thresholds(m.cfg))
	next.Detail = cur.Detail
	m.current = next
	m.logBuilt(next)
	return nil
}

func (m *Manager) swap(next *Map) {
	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
	m.logBuilt(next)
}

func (m *Manager) logBuilt(mp *Map) {
	s := mp.Nav.Stats()
	m.log.Info("map built",
		zap.String("map", mp.Name),
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Int("walkable", s.Walkable),
		zap.Int("objects", mp.Objects.Len()),
		zap.Int("components", s.Components),
		zap.Int("largest_component", s.LargestComponent),
	)
}

// FindPath answers a path query against the current map. It returns nil when
// no map is loaded or no route exists.
func (m *Manager) FindPath(start, goal navgrid.Pos) []navgrid.Pos {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()
	if cur == nil {
		return nil
	}

	path := cur.Nav.FindPath(start, goal)
	m.log.Debug("path query",
		zap.Stringer("start", start),
		zap.Stringer("goal", goal),
		zap.Int("steps", len(path)),
	)
	return path
}

// IsWalkable checks if a position on the current map is walkable.
func (m *Manager) IsWalkable(x, y int) bool {
	cur := m.Current()
	return cur != nil && cur.IsWalkable(x, y)
}

// Snapshot returns the current map's cells, or nil before the first load.
func (m *Manager) Snapshot() []navgrid.Cell {
	cur := m.Current()
	if cur == nil {
		return nil
	}
	return cur.Nav.Snapshot()
}

func thresholds(cfg *config.Config) terrain.Thresholds {
	return terrain.Thresholds{Low: cfg.Terrain.LowThreshold, Mid: cfg.Terrain.MidThreshold}
}

func recipe(cfg *config.Config) terrain.Recipe {
	g := cfg.Generation
	return terrain.Recipe{
		Base:    noiseParams(g.Base),
		Mask:    noiseParams(g.Mask),
		Detail:  noiseParams(g.Detail),
		MaskCap: g.MaskCap,
	}
}

func noiseParams(l config.NoiseLayer) terrain.NoiseParams {
	return terrain.NoiseParams{
		MaxHeight:   l.MaxHeight,
		NoiseSize:   l.NoiseSize,
		Persistence: l.Persistence,
		Octaves:     l.Octaves,
	}
}

func scatterRules(cfg *config.Config) objects.ScatterRules {
	o := cfg.Objects
	return objects.ScatterRules{
		TreeChance:     o.TreeChance,
		StoneChance:    o.StoneChance,
		TreeDetail:     o.TreeDetail,
		StoneDetail:    o.StoneDetail,
		StoneMinHeight: o.StoneMinHeight,
	}
}
