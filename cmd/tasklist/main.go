package main

import (
	"os"
	"strings"

	"tasklist-cli/internal/cli"

	"github.com/joho/godotenv"
)

func isQuickAdd(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "+")
}

func rewriteQuickAddArgs(argv []string) []string {
	// Convenience: `tasklist +Buy milk` works like `tasklist add Buy milk`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is
	// rewritten before parsing. Persistent flags may come first
	// (`tasklist --db x.sqlite +milk`), so look for the first positional token.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--db":        true,
		"--log-file":  true,
		"--log-level": true,
		"--format":    true,
	}

	// rewrite turns argv[i] into `add <text>`. With a "--" at dashDash, the
	// terminator moves after `add`: cobra stops looking for subcommands at
	// "--", but the add command still treats what follows as plain text.
	rewrite := func(i, dashDash int) []string {
		first := strings.TrimPrefix(strings.TrimSpace(argv[i]), "+")
		out := make([]string, 0, len(argv)+1)
		if dashDash >= 0 {
			out = append(out, argv[:dashDash]...)
			out = append(out, "add", "--")
		} else {
			out = append(out, argv[:i]...)
			out = append(out, "add")
		}
		if first != "" {
			out = append(out, first)
		}
		return append(out, argv[i+1:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isQuickAdd(argv[i+1]) {
				return rewrite(i+1, i)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isQuickAdd(a) {
			return rewrite(i, -1)
		}
		return argv
	}
	return argv
}

func main() {
	// A .env next to the working directory is optional.
	_ = godotenv.Load()

	os.Args = rewriteQuickAddArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
