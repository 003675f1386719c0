package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/pborman/getopt/v2"
)

func echoBuiltin(r *Registry, argv []string, stdout, stderr io.Writer) (int, error) {
	set := getopt.New()
	escapes := set.BoolLong("escapes", 'e', "interpret backslash escapes")
	noNewline := set.BoolLong("no-newline", 'n', "suppress the trailing newline")

	if err := set.Getopt(argv, nil); err != nil {
		fmt.Fprintf(stderr, "echo: %s\n", err)
		return 2, nil
	}

	text := strings.Join(set.Args(), " ")
	if *escapes {
		text = interpretEchoEscapes(text)
	}

	fmt.Fprint(stdout, text)
	if !*noNewline {
		fmt.Fprint(stdout, "\n")
	}
	return 0, nil
}

func interpretEchoEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
