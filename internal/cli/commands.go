package cli

import (
	"fmt"
	"strings"

	"github.com/galaxysim/orbitron/internal/game"
)

// CommandKind identifies a console command.
type CommandKind string

const (
	CmdHelp      CommandKind = "help"
	CmdSunray    CommandKind = "sunray"
	CmdAsteroid  CommandKind = "asteroid"
	CmdStart     CommandKind = "start"
	CmdStop      CommandKind = "stop"
	CmdState     CommandKind = "state"
	CmdStatus    CommandKind = "status"
	CmdCells     CommandKind = "cells"
	CmdRecipes   CommandKind = "recipes"
	CmdGenerate  CommandKind = "generate"
	CmdCombine   CommandKind = "combine"
	CmdInventory CommandKind = "inventory"
	CmdArrive    CommandKind = "arrive"
	CmdDepart    CommandKind = "depart"
	CmdLog       CommandKind = "log"
	CmdWatch     CommandKind = "watch"
	CmdExit      CommandKind = "exit"
)

// Command is one parsed console line.
type Command struct {
	Kind CommandKind

	// generate
	Resource game.BasicType

	// combine
	Product  game.ComplexType
	InputIDs [2]string

	// log
	Tail int
}

// ParseCommand parses one console line. Slash prefixes are accepted for the
// meta commands (/help, /exit) to match the usual REPL muscle memory.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	name := strings.TrimPrefix(strings.ToLower(fields[0]), "/")
	args := fields[1:]

	switch name {
	case "help", "?":
		return noArgs(CmdHelp, args)
	case "sunray", "sun":
		return noArgs(CmdSunray, args)
	case "asteroid":
		return noArgs(CmdAsteroid, args)
	case "start":
		return noArgs(CmdStart, args)
	case "stop":
		return noArgs(CmdStop, args)
	case "state":
		return noArgs(CmdState, args)
	case "status":
		return noArgs(CmdStatus, args)
	case "cells":
		return noArgs(CmdCells, args)
	case "recipes":
		return noArgs(CmdRecipes, args)
	case "inventory", "inv":
		return noArgs(CmdInventory, args)
	case "arrive":
		return noArgs(CmdArrive, args)
	case "depart":
		return noArgs(CmdDepart, args)
	case "watch":
		return noArgs(CmdWatch, args)
	case "exit", "quit":
		return noArgs(CmdExit, args)

	case "generate", "gen":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: generate <resource>")
		}
		rt, err := game.ParseBasicType(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdGenerate, Resource: rt}, nil

	case "combine":
		if len(args) != 3 {
			return Command{}, fmt.Errorf("usage: combine <product> <id> <id>")
		}
		ct, err := game.ParseComplexType(args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdCombine, Product: ct, InputIDs: [2]string{args[1], args[2]}}, nil

	case "log":
		cmd := Command{Kind: CmdLog, Tail: 20}
		if len(args) > 1 {
			return Command{}, fmt.Errorf("usage: log [n]")
		}
		if len(args) == 1 {
			var n int
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n <= 0 {
				return Command{}, fmt.Errorf("usage: log [n]")
			}
			cmd.Tail = n
		}
		return cmd, nil

	default:
		return Command{}, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

func noArgs(kind CommandKind, args []string) (Command, error) {
	if len(args) != 0 {
		return Command{}, fmt.Errorf("%s takes no arguments", kind)
	}
	return Command{Kind: kind}, nil
}

const helpText = `# Orbitron console

Orchestrator commands:

| Command | Effect |
|---|---|
| ` + "`sunray`" + ` | Send a sunray; the planet charges a cell if one has room |
| ` + "`asteroid`" + ` | Send an asteroid; the planet must launch a rocket or die |
| ` + "`start`" + ` / ` + "`stop`" + ` | Start or stop the planet AI |
| ` + "`state`" + ` | Request a state report (logged by the planet) |
| ` + "`status`" + ` | Show workflow phase and lifetime stats |

Explorer commands (the console is also an explorer):

| Command | Effect |
|---|---|
| ` + "`arrive`" + ` / ` + "`depart`" + ` | Land on or leave the planet |
| ` + "`recipes`" + ` | List supported resources and combinations |
| ` + "`cells`" + ` | Ask how many charged cells are available |
| ` + "`generate <resource>`" + ` | Ask the planet to generate a basic resource |
| ` + "`combine <product> <id> <id>`" + ` | Combine two inventory resources |
| ` + "`inventory`" + ` | List resources you are carrying |

Other: ` + "`log [n]`" + ` shows the last n game events, ` + "`watch`" + ` streams
them live until you press enter, ` + "`exit`" + ` shuts the planet down.
`
