// Package flagx contains helpers that let several config loaders share one
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the arguments that belong to allowed flags, in
// their original order. Both "-c value" and "-c=value" are recognised; a
// following argument counts as the value unless it starts with '-'.
// The result is never nil.
//
//	FilterArgs([]string{"-c", "a.json", "-x", "1"}, []string{"-c"}) // ["-c" "a.json"]
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		known[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if known[name] {
				out = append(out, arg)
			}
			continue
		}

		if !known[arg] {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

// ConfigFile extracts the JSON config path passed via -c or -config from
// args (usually os.Args[1:]). Other arguments are ignored so each config
// loader can parse its own flags afterwards. The last occurrence wins; an
// empty string means no file was requested.
func ConfigFile(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}
