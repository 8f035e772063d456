package main

import (
	"fmt"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/davinderatgithub/median-aggregate/internal/codec"
	engpkg "github.com/davinderatgithub/median-aggregate/internal/engine"
	"github.com/davinderatgithub/median-aggregate/internal/typereg"
	"github.com/davinderatgithub/median-aggregate/internal/value"
)

// replSession holds the engine being driven interactively.
type replSession struct {
	reg    *typereg.Registry
	typeID value.TypeID
	eng    *engpkg.Engine
}

// runREPL starts the interactive shell. The engine is created lazily on the
// first add, so "type" and "load" can still change the value type before
// anything is accumulated.
func runREPL(typeName string) {
	t := value.TypeFloat64
	if typeName != "" {
		parsed, err := value.ParseTypeID(typeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		t = parsed
	}

	s := &replSession{reg: typereg.Builtin(), typeID: t}

	fmt.Printf("medstat %s repl, %s values\n", Version, t)
	fmt.Println("commands: add <v>, remove <v>, median, count, type <t>, save <file>, load <file>, reset, exit")

	p := prompt.New(
		s.execute,
		s.complete,
		prompt.OptionPrefix("medstat> "),
		prompt.OptionTitle("medstat"),
	)
	p.Run()
}

func (s *replSession) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "add":
		s.add(fields[1:])
	case "remove":
		s.remove(fields[1:])
	case "median":
		s.median()
	case "count":
		if s.eng == nil {
			fmt.Println("0")
		} else {
			fmt.Println(s.eng.Count())
		}
	case "type":
		s.setType(fields[1:])
	case "save":
		s.save(fields[1:])
	case "load":
		s.load(fields[1:])
	case "reset":
		s.eng = nil
	case "exit", "quit":
		os.Exit(0)
	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
}

func (s *replSession) add(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: add <value>")
		return
	}
	d, err := value.Parse(s.typeID, args[0])
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	eng, err := engpkg.Add(s.eng, s.reg, s.typeID, d)
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	s.eng = eng
}

func (s *replSession) remove(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: remove <value>")
		return
	}
	d, err := value.Parse(s.typeID, args[0])
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	if _, err := engpkg.Remove(s.eng, d); err != nil {
		fmt.Printf("%v\n", err)
	}
}

func (s *replSession) median() {
	med, ok, err := engpkg.Finalize(s.eng)
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	if !ok {
		fmt.Println("no values")
		return
	}
	fmt.Println(value.Format(s.typeID, med))
}

func (s *replSession) setType(args []string) {
	if len(args) != 1 {
		fmt.Printf("current type: %s\n", s.typeID)
		return
	}
	if s.eng != nil && s.eng.Count() > 0 {
		fmt.Println("cannot change type with accumulated values; reset first")
		return
	}
	t, err := value.ParseTypeID(args[0])
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	s.typeID = t
	s.eng = nil
}

func (s *replSession) save(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: save <file>")
		return
	}
	state, err := codec.Encode(s.eng)
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	if err := os.WriteFile(args[0], state, 0644); err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	fmt.Printf("saved %d values (%d bytes)\n", s.eng.Count(), len(state))
}

func (s *replSession) load(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: load <file>")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	eng, err := codec.Decode(s.reg, data)
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	// A loaded state replays into the current one if types line up,
	// otherwise it replaces the session.
	if s.eng != nil && s.eng.TypeID() == eng.TypeID() {
		merged, err := engpkg.Merge(s.eng, eng)
		if err != nil {
			fmt.Printf("%v\n", err)
			return
		}
		s.eng = merged
	} else {
		s.eng = eng
		s.typeID = eng.TypeID()
	}
	fmt.Printf("loaded %d values, %d total\n", eng.Count(), s.eng.Count())
}

func (s *replSession) complete(d prompt.Document) []prompt.Suggest {
	suggestions := []prompt.Suggest{
		{Text: "add", Description: "add a value"},
		{Text: "remove", Description: "retract a previously added value"},
		{Text: "median", Description: "median of accumulated values"},
		{Text: "count", Description: "number of accumulated values"},
		{Text: "type", Description: "show or change the value type"},
		{Text: "save", Description: "serialize state to a file"},
		{Text: "load", Description: "merge serialized state from a file"},
		{Text: "reset", Description: "discard accumulated state"},
		{Text: "exit", Description: "leave the repl"},
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}
