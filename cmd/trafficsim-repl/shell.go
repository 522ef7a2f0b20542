package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/trafficgrid/sim/internal/command"
	"github.com/trafficgrid/sim/internal/config"
	"github.com/trafficgrid/sim/internal/geom"
	"github.com/trafficgrid/sim/pkg/trafficcore"
)

const resultQuit = "quit"

// Shell is a headless command processor wrapping one Core, mirroring
// this codebase's own CLI type: a readline instance plus an
// ExecuteCommand dispatch switch.
type Shell struct {
	cfg      *config.Config
	core     *trafficcore.Core
	readline *readline.Instance
}

// NewShell loads cfg and the Core it names (or a fresh starter level),
// and configures a readline instance with command history and a
// prefix-completer over the known verbs.
func NewShell(cfgFile string, levelNum int, seed int64) (*Shell, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var core *trafficcore.Core
	if data, err := os.ReadFile(cfg.SavePath); err == nil {
		core = trafficcore.NewBlank(1, 1, seed)
		if err := core.Load(data); err != nil {
			return nil, fmt.Errorf("load save: %w", err)
		}
	} else {
		core = trafficcore.NewLevel(levelNum, seed)
	}

	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".trafficsim_repl_history")

	completer := readline.NewPrefixCompleter(
		readline.PcItem("tick"),
		readline.PcItem("build", readline.PcItem("road")),
		readline.PcItem("spawn"),
		readline.PcItem("status"),
		readline.PcItem("undo"),
		readline.PcItem("redo"),
		readline.PcItem("save"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "trafficsim> ",
		HistoryFile:  historyFile,
		AutoComplete: completer,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}

	return &Shell{cfg: cfg, core: core, readline: rl}, nil
}

// Close releases the readline instance's resources.
func (s *Shell) Close() error {
	if s.readline != nil {
		return s.readline.Close()
	}
	return nil
}

// Execute parses and runs one command line, returning the text to print.
func (s *Shell) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "tick":
		return s.cmdTick()
	case "build":
		return s.cmdBuild(args)
	case "spawn":
		return s.cmdSpawn(args)
	case "status":
		return s.cmdStatus()
	case "undo":
		return s.cmdUndo()
	case "redo":
		return s.cmdRedo()
	case "save":
		return s.cmdSave(args)
	case "help":
		return helpText
	case "quit", "exit":
		return resultQuit
	default:
		return fmt.Sprintf("unknown command %q — type 'help' for the command list", verb)
	}
}

const helpText = `commands:
  tick                          advance the simulation one quantum
  build road <x> <y> <dir>      lay a road tile (dir: right, left, up, down)
  spawn <from-id> <to-id>       start a trip between two buildings
  status                        show rating, tick count, active vehicles
  undo / redo                   revert or replay the last build
  save <path>                   write the world to path
  quit                          exit the shell`

func (s *Shell) cmdTick() string {
	sample := s.core.Tick(context.Background())
	return color.GreenString("tick %d — rating %.3f, %d active vehicles",
		sample.Tick, sample.Rating, sample.ActiveVehicles)
}

func (s *Shell) cmdBuild(args []string) string {
	if len(args) != 4 || args[0] != "road" {
		return "usage: build road <x> <y> <dir>"
	}
	x, err1 := strconv.ParseInt(args[1], 10, 16)
	y, err2 := strconv.ParseInt(args[2], 10, 16)
	if err1 != nil || err2 != nil {
		return "x and y must be integers"
	}
	dir, err := parseDirection(args[3])
	if err != nil {
		return err.Error()
	}

	action := &command.BuildRoadAction{Pos: geom.New(int16(x), int16(y)), Dir: dir}
	if err := s.core.Build(context.Background(), action); err != nil {
		return color.RedString(err.Error())
	}
	return color.GreenString(action.Description())
}

func parseDirection(s string) (geom.Direction, error) {
	switch s {
	case "right":
		return geom.Right, nil
	case "left":
		return geom.Left, nil
	case "up":
		return geom.Up, nil
	case "down":
		return geom.Down, nil
	default:
		return geom.Direction{}, fmt.Errorf("unknown direction %q (want right, left, up, or down)", s)
	}
}

func (s *Shell) cmdSpawn(args []string) string {
	if len(args) != 2 {
		return "usage: spawn <from-building-id> <to-building-id>"
	}
	fromID, err1 := strconv.ParseUint(args[0], 10, 64)
	toID, err2 := strconv.ParseUint(args[1], 10, 64)
	if err1 != nil || err2 != nil {
		return "building ids must be integers"
	}
	vid, err := s.core.SpawnVehicle(fromID, toID)
	if err != nil {
		return color.RedString(err.Error())
	}
	return color.GreenString("spawned vehicle %d", vid)
}

func (s *Shell) cmdStatus() string {
	return fmt.Sprintf("tick: %d\nrating: %.3f\nactive vehicles: %d",
		s.core.World.Map.TickNum, s.core.Rating(), len(s.core.World.Vehicles))
}

func (s *Shell) cmdUndo() string {
	if err := s.core.Undo(); err != nil {
		return color.RedString(err.Error())
	}
	return "undone"
}

func (s *Shell) cmdRedo() string {
	if err := s.core.Redo(); err != nil {
		return color.RedString(err.Error())
	}
	return "redone"
}

func (s *Shell) cmdSave(args []string) string {
	path := s.cfg.SavePath
	if len(args) > 0 {
		path = args[0]
	}
	data, err := s.core.Save()
	if err != nil {
		return color.RedString(err.Error())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return color.RedString(err.Error())
	}
	return color.GreenString("saved to %s", path)
}
