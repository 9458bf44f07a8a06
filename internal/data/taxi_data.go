package data

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/model"
)

//go:embed taxi_default.yaml
var defaultTaxiYAML []byte

// DispatcherDef: NPC-диспетчер полётов из статических данных.
type DispatcherDef struct {
	Entry     uint32
	Name      string
	MapID     uint32
	X, Y, Z   float32
	FactionID uint32
	// GrantsAllDestinations: меню этого NPC показывает все точки (Grimwing).
	GrantsAllDestinations bool
}

// FactionDef: реакция фракции на каждую сторону.
type FactionDef struct {
	ID      uint32
	Name    string
	Default [2]taxi.Reaction // indexed by taxi.Team
}

// TaxiData is the loaded travel graph plus the NPCs and factions serving it.
type TaxiData struct {
	Graph       *taxi.Graph
	Dispatchers []DispatcherDef
	Factions    []FactionDef
}

type pointYAML struct {
	Map uint32  `yaml:"map"`
	X   float32 `yaml:"x"`
	Y   float32 `yaml:"y"`
	Z   float32 `yaml:"z"`
}

type taxiFileYAML struct {
	Nodes []struct {
		ID     uint32            `yaml:"id"`
		Name   string            `yaml:"name"`
		Map    uint32            `yaml:"map"`
		X      float32           `yaml:"x"`
		Y      float32           `yaml:"y"`
		Z      float32           `yaml:"z"`
		Teams  []string          `yaml:"teams"`
		Mounts map[string]uint32 `yaml:"mounts"`
	} `yaml:"nodes"`
	Paths []struct {
		ID        uint32      `yaml:"id"`
		From      uint32      `yaml:"from"`
		To        uint32      `yaml:"to"`
		Cost      uint32      `yaml:"cost"`
		Mount     uint32      `yaml:"mount"`
		Waypoints []pointYAML `yaml:"waypoints"`
	} `yaml:"paths"`
	Dispatchers []struct {
		Entry     uint32  `yaml:"entry"`
		Name      string  `yaml:"name"`
		Map       uint32  `yaml:"map"`
		X         float32 `yaml:"x"`
		Y         float32 `yaml:"y"`
		Z         float32 `yaml:"z"`
		Faction   uint32  `yaml:"faction"`
		GrantsAll bool    `yaml:"grants_all_destinations"`
	} `yaml:"dispatchers"`
	Factions []struct {
		ID      uint32            `yaml:"id"`
		Name    string            `yaml:"name"`
		Default map[string]string `yaml:"default"`
	} `yaml:"factions"`
}

// LoadTaxiData reads the travel graph from path. An empty path loads the
// built-in data set. radius bounds the nearest-station search.
func LoadTaxiData(path string, radius float64) (*TaxiData, error) {
	raw := defaultTaxiYAML
	source := "builtin"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("taxi data file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("reading taxi data %s: %w", path, err)
		}
		raw = b
		source = path
	}

	td, err := ParseTaxiData(raw, radius)
	if err != nil {
		return nil, fmt.Errorf("loading taxi data from %s: %w", source, err)
	}

	slog.Info("loaded taxi data",
		"source", source,
		"nodes", td.Graph.NodeCount(),
		"paths", td.Graph.PathCount(),
		"dispatchers", len(td.Dispatchers),
		"factions", len(td.Factions))
	return td, nil
}

// ParseTaxiData builds TaxiData from YAML.
func ParseTaxiData(raw []byte, radius float64) (*TaxiData, error) {
	var f taxiFileYAML
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing taxi yaml: %w", err)
	}

	nodes := make([]taxi.Node, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		node := taxi.Node{
			ID:       taxi.DestinationID(n.ID),
			Name:     n.Name,
			Position: taxi.Point{MapID: n.Map, X: n.X, Y: n.Y, Z: n.Z},
		}
		for _, name := range n.Teams {
			team, err := ParseTeam(name)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", n.ID, err)
			}
			node.Teams[team] = true
		}
		for name, mount := range n.Mounts {
			team, err := ParseTeam(name)
			if err != nil {
				return nil, fmt.Errorf("node %d mounts: %w", n.ID, err)
			}
			node.Mounts[team] = mount
		}
		nodes = append(nodes, node)
	}

	paths := make([]taxi.Path, 0, len(f.Paths))
	for _, p := range f.Paths {
		if len(p.Waypoints) < 2 {
			return nil, fmt.Errorf("path %d: need at least 2 waypoints, got %d", p.ID, len(p.Waypoints))
		}
		wps := make([]taxi.Point, len(p.Waypoints))
		for i, w := range p.Waypoints {
			wps[i] = taxi.Point{MapID: w.Map, X: w.X, Y: w.Y, Z: w.Z}
		}
		paths = append(paths, taxi.Path{
			ID:        p.ID,
			From:      taxi.DestinationID(p.From),
			To:        taxi.DestinationID(p.To),
			Cost:      p.Cost,
			Mount:     p.Mount,
			Waypoints: wps,
		})
	}

	graph, err := taxi.NewGraph(nodes, paths, radius)
	if err != nil {
		return nil, fmt.Errorf("building travel graph: %w", err)
	}

	td := &TaxiData{Graph: graph}
	for _, d := range f.Dispatchers {
		if d.Entry == 0 {
			return nil, fmt.Errorf("dispatcher %q: zero entry", d.Name)
		}
		td.Dispatchers = append(td.Dispatchers, DispatcherDef{
			Entry:                 d.Entry,
			Name:                  d.Name,
			MapID:                 d.Map,
			X:                     d.X,
			Y:                     d.Y,
			Z:                     d.Z,
			FactionID:             d.Faction,
			GrantsAllDestinations: d.GrantsAll,
		})
	}

	for _, fc := range f.Factions {
		def := FactionDef{ID: fc.ID, Name: fc.Name}
		def.Default[taxi.TeamAlliance] = taxi.ReactionNeutral
		def.Default[taxi.TeamHorde] = taxi.ReactionNeutral
		for teamName, reactionName := range fc.Default {
			team, err := ParseTeam(teamName)
			if err != nil {
				return nil, fmt.Errorf("faction %d: %w", fc.ID, err)
			}
			rc, err := ParseReaction(reactionName)
			if err != nil {
				return nil, fmt.Errorf("faction %d: %w", fc.ID, err)
			}
			def.Default[team] = rc
		}
		td.Factions = append(td.Factions, def)
	}

	return td, nil
}

// ParseTeam parses "alliance" or "horde".
func ParseTeam(s string) (taxi.Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alliance":
		return taxi.TeamAlliance, nil
	case "horde":
		return taxi.TeamHorde, nil
	default:
		return 0, fmt.Errorf("unknown team %q", s)
	}
}

var reactionNames = map[string]taxi.Reaction{
	"hated":      taxi.ReactionHated,
	"hostile":    taxi.ReactionHostile,
	"unfriendly": taxi.ReactionUnfriendly,
	"neutral":    taxi.ReactionNeutral,
	"friendly":   taxi.ReactionFriendly,
	"honored":    taxi.ReactionHonored,
	"revered":    taxi.ReactionRevered,
	"exalted":    taxi.ReactionExalted,
}

// ParseReaction parses a reputation rank name.
func ParseReaction(s string) (taxi.Reaction, error) {
	rc, ok := reactionNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown reaction %q", s)
	}
	return rc, nil
}

// FactionTable converts the loaded factions into the lookup table used by reputation.
func (td *TaxiData) FactionTable() model.FactionTable {
	table := make(model.FactionTable, len(td.Factions))
	for _, f := range td.Factions {
		table[f.ID] = model.FactionTemplate{ID: f.ID, Name: f.Name, Default: f.Default}
	}
	return table
}
