// scriptlint validates every script in a world file and prints a report.
// Exit status is non-zero when any script has errors, so it slots into CI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fableforge/fableengine/internal/catalog"
	"github.com/fableforge/fableengine/internal/script"
	"github.com/fableforge/fableengine/internal/world"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <world.json>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	w, err := world.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "scriptlint: %v\n", err)
		os.Exit(2)
	}

	cat := catalog.New()
	failed := 0
	for _, g := range w.Scripts {
		report := script.Validate(g, cat)
		if report.IsValid() {
			fmt.Printf("ok   %s (%s)\n", g.ID, g.Name)
			continue
		}
		if report.HasErrors() {
			failed++
		}
		fmt.Printf("FAIL %s (%s)\n", g.ID, g.Name)
		if !report.HasEvent {
			fmt.Println("  error: no event entry point")
		}
		if !report.HasAction {
			fmt.Println("  error: no action node")
		}
		if !report.Connected {
			fmt.Println("  warning: no event reaches an action")
		}
		for _, inc := range report.Incomplete {
			if inc.Unknown {
				fmt.Printf("  warning: node %s has unknown type %s\n", inc.NodeID, inc.TypeID)
				continue
			}
			fmt.Printf("  warning: node %s (%s) missing %v\n", inc.NodeID, inc.Display, inc.Missing)
		}
	}

	fmt.Printf("%d scripts, %d with errors\n", len(w.Scripts), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
