package main

import (
	"fmt"
	"os"

	"github.com/shariahscreen/shariahscreen/scripts/internal"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "import-snapshots":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: scripts import-snapshots <csv-file>")
			os.Exit(1)
		}
		err = internal.ImportSnapshots(os.Args[2])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "script failed: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: scripts <command>")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  import-snapshots <csv-file>   import ratio snapshots from CSV")
}
