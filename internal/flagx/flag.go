// Package flagx lets several flag sets share one command line. Each
// consumer picks the flags it owns and leaves the rest alone, so the server
// config and a tool's own flags never trip over each other's names.
package flagx

import (
	"flag"
	"strings"
)

// SplitArgs partitions args into the flags named in owned (with their
// values) and everything else, keeping the original order in both.
//
// Recognized forms are "-f value", "-f=value", "--f value" and "--f=value";
// owned lists bare names without dashes. A value is only consumed from the
// next argument when it does not itself start with "-".
func SplitArgs(args []string, owned []string) (matched, rest []string) {
	set := make(map[string]struct{}, len(owned))
	for _, name := range owned {
		set[strings.TrimLeft(name, "-")] = struct{}{}
	}

	matched = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
			rest = append(rest, arg)
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if _, ok := set[name]; !ok {
			rest = append(rest, arg)
			continue
		}

		matched = append(matched, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			matched = append(matched, args[i+1])
			i++
		}
	}
	return matched, rest
}

// FilterArgs returns only the owned flags from args.
func FilterArgs(args []string, owned []string) []string {
	matched, _ := SplitArgs(args, owned)
	return matched
}

// ConfigFileFlag extracts the JSON config path given via -c or -config.
// It returns "" when neither is present.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
