package builtins

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pborman/getopt/v2"

	"github.com/adriant/poshell/core/shellerr"
)

// historyBuiltin implements `history [N] | -a FILE | -r FILE | -w FILE`.
// See spec.md §4.4.3, §4.6.
func historyBuiltin(r *Registry, argv []string, stdout, stderr io.Writer) (int, error) {
	set := getopt.New()
	appendFile := set.StringLong("append", 'a', "", "append new entries to FILE")
	readFile := set.StringLong("read", 'r', "", "read FILE into history")
	writeFile := set.StringLong("write", 'w', "", "write history to FILE")

	if err := set.Getopt(argv, nil); err != nil {
		fmt.Fprintf(stderr, "history: %s\n", err)
		return 2, nil
	}

	switch {
	case *appendFile != "":
		if err := r.history.AppendToFile(r.fs, *appendFile); err != nil {
			fmt.Fprintf(stderr, "history: %s: %s\n", *appendFile, shellerr.Message(err))
			return 1, nil
		}
		return 0, nil

	case *readFile != "":
		if err := r.history.ReadFromFileIntoHistory(r.fs, *readFile); err != nil {
			fmt.Fprintf(stderr, "history: %s: %s\n", *readFile, shellerr.Message(err))
			return 1, nil
		}
		return 0, nil

	case *writeFile != "":
		if err := r.history.WriteToFile(r.fs, *writeFile); err != nil {
			fmt.Fprintf(stderr, "history: %s: %s\n", *writeFile, shellerr.Message(err))
			return 1, nil
		}
		return 0, nil
	}

	entries := r.history.Entries()
	start := 0

	if args := set.Args(); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "history: %s: numeric argument required\n", args[0])
			return 2, nil
		}
		if n < len(entries) {
			start = len(entries) - n
		}
	}

	for i := start; i < len(entries); i++ {
		fmt.Fprintf(stdout, "    %d  %s\n", i+1, entries[i])
	}
	return 0, nil
}
