package builtins

import (
	"fmt"
	"io"
	"strconv"
)

// exitBuiltin signals REPL termination via ExitRequest rather than an
// ordinary exit code, since "exit" must stop the whole loop, not just
// report a status for this one command.
func exitBuiltin(r *Registry, argv []string, stdout, stderr io.Writer) (int, error) {
	code := r.lastStatus
	if len(argv) > 1 {
		n, err := strconv.Atoi(argv[1])
		if err != nil {
			fmt.Fprintf(stderr, "exit: %s: numeric argument required\n", argv[1])
			return 2, &ExitRequest{Code: 2}
		}
		code = n
	}
	return code, &ExitRequest{Code: code}
}
