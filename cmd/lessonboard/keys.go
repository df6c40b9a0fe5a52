package main

import (
	"flag"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/example/lessonboard/internal/ui"
)

// keysCmd lists the window shortcuts.
type keysCmd struct {
	*root
}

func (k *keysCmd) Program() string        { return k.root.subProgram("keys") }
func (k *keysCmd) FlagSet() *flag.FlagSet { return nil }

func (k *keysCmd) Run() error {
	bindings := ui.DefaultKeymap().Bindings()
	actions := make([]string, 0, len(bindings))
	for a := range bindings {
		actions = append(actions, string(a))
	}
	sort.Strings(actions)
	for _, a := range actions {
		var keys []string
		for _, ks := range bindings[ui.Action(a)] {
			name := ks.String()
			if !slices.Contains(keys, name) {
				keys = append(keys, name)
			}
		}
		fmt.Fprintf(k.stdout, "%-14s %s\n", a, strings.Join(keys, ", "))
	}
	return nil
}

