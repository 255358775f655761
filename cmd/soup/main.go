package main

import (
	"fmt"
	"io"
	"os"
	"sort"
)

func main() {
	if len(os.Args) < 2 {
		Usage(os.Stdout)
		os.Exit(1)
	}

	mod, have := Mods[os.Args[1]]
	if !have {
		fmt.Printf("Unknown subcommand \"%s\"\n", os.Args[1])
		Usage(os.Stdout)
		os.Exit(1)
	}

	if err := mod.Flags().Parse(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := mod.F(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func Usage(w io.Writer) {
	names := make([]string, 0, len(Mods))
	for name := range Mods {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "Subcommands:\n\n")
	for _, name := range names {
		mod := Mods[name]
		fs := mod.Flags()
		fs.SetOutput(w)
		fmt.Fprintf(w, "%s: %s\n", name, mod.Doc())
		fs.PrintDefaults()
		fmt.Fprintln(w)
	}
}
