package builtins

import (
	"fmt"
	"io"
	"os"
)

func pwdBuiltin(r *Registry, argv []string, stdout, stderr io.Writer) (int, error) {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "pwd: %s\n", err)
		return 1, nil
	}
	fmt.Fprintln(stdout, wd)
	return 0, nil
}
