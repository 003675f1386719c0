package builtins

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adriant/poshell/core/shellerr"
)

// cdBuiltin changes the process's working directory. With no argument, or
// with exactly "~", it goes to $HOME; "~/rest" expands the leading "~" to
// $HOME and keeps the rest ("~user" is not supported).
func cdBuiltin(r *Registry, argv []string, stdout, stderr io.Writer) (int, error) {
	target := r.cfg.Home
	if len(argv) > 1 {
		target = argv[1]
		if target == "~" {
			target = r.cfg.Home
		} else if strings.HasPrefix(target, "~/") {
			target = r.cfg.Home + target[1:]
		}
	}

	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(stderr, "cd: %s: %s\n", target, shellerr.Message(err))
		return 1, nil
	}
	return 0, nil
}
