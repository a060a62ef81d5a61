package cli

import (
	"flag"
	"strconv"
)

const (
	defaultHelpDesc    = "Show help"
	defaultVersionDesc = "Print version and exit"
)

type HelpVersionFlags struct {
	Help    bool
	Version bool
}

func AddHelpVersionFlags(fs *flag.FlagSet, helpDesc, versionDesc string) *HelpVersionFlags {
	if fs == nil {
		return &HelpVersionFlags{}
	}
	if helpDesc == "" {
		helpDesc = defaultHelpDesc
	}
	if versionDesc == "" {
		versionDesc = defaultVersionDesc
	}
	flags := &HelpVersionFlags{}
	BoolVarAliased(fs, &flags.Help, false, helpDesc, "help", "h")
	BoolVarAliased(fs, &flags.Version, false, versionDesc, "version", "v")
	return flags
}

// IntVarAliased registers one int destination under several names, so that
// "-p 3000" and "--port 3000" set the same value.
func IntVarAliased(fs *flag.FlagSet, target *int, value int, usage string, names ...string) {
	for _, name := range names {
		fs.IntVar(target, name, value, usage)
	}
}

func StringVarAliased(fs *flag.FlagSet, target *string, value string, usage string, names ...string) {
	for _, name := range names {
		fs.StringVar(target, name, value, usage)
	}
}

func BoolVarAliased(fs *flag.FlagSet, target *bool, value bool, usage string, names ...string) {
	for _, name := range names {
		fs.BoolVar(target, name, value, usage)
	}
}

// VisitedAny reports whether any of names was set on the command line.
func VisitedAny(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// ParseBoolEnv parses a boolean environment value, reporting ok=false for
// empty or malformed input.
func ParseBoolEnv(raw string) (bool, bool) {
	if raw == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}
