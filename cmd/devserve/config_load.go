package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"devserve/internal/cli"
	"devserve/internal/config"
	"devserve/internal/logging"
	"devserve/internal/version"

	"github.com/samber/lo"
)

type Config struct {
	Host        string
	Port        int
	Dir         string
	ConfigPath  string
	Watch       bool
	OpenBrowser bool
	LogLevel    logging.Level
	Verbose     bool
	Quiet       bool
	ShowVersion bool
	UnknownKeys []string
	Sources     map[string]configSource
}

type configSource string

const (
	sourceDefault configSource = "default"
	sourceFile    configSource = "file"
	sourceEnv     configSource = "env"
	sourceFlag    configSource = "flag"
)

type configDefaults struct {
	Host        string
	Port        int
	Dir         string
	Watch       bool
	OpenBrowser bool
	LogLevel    logging.Level
}

type flagValues struct {
	Host       string
	Port       int
	Dir        string
	ConfigPath string
	NoBrowser  bool
	NoWatch    bool
	Verbose    bool
	Quiet      bool
	Help       bool
	Version    bool
	Set        map[string]bool
}

type helpOption struct {
	Name string
	Desc string
}

func defaultConfigValues() configDefaults {
	return configDefaults{
		Host:        "127.0.0.1",
		Port:        8000,
		Dir:         ".",
		Watch:       true,
		OpenBrowser: true,
		LogLevel:    logging.LevelInfo,
	}
}

// loadConfig resolves the server configuration. Precedence, lowest first:
// defaults, config file, environment, flags.
func loadConfig(args []string, helpOut io.Writer) (Config, error) {
	defaults := defaultConfigValues()
	flags, err := parseFlags(args, defaults, helpOut)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Dir:         flags.Dir,
		Verbose:     flags.Verbose,
		Quiet:       flags.Quiet,
		ShowVersion: flags.Version,
		Sources:     make(map[string]configSource),
	}
	if flags.Version {
		return cfg, nil
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, fmt.Errorf("invalid --dir: value cannot be empty")
	}

	configPath := filepath.Join(cfg.Dir, config.DefaultFileName)
	configRequired := false
	if flags.Set["config"] {
		configPath = flags.ConfigPath
		configRequired = true
	}
	file, err := config.Load(configPath, configRequired)
	if err != nil {
		return Config{}, err
	}
	cfg.ConfigPath = file.Path
	cfg.UnknownKeys = file.Unknown

	host := defaults.Host
	hostSource := sourceDefault
	if file.Host != nil {
		host = strings.TrimSpace(*file.Host)
		hostSource = sourceFile
	}
	if rawHost := strings.TrimSpace(os.Getenv("DEVSERVE_HOST")); rawHost != "" {
		host = rawHost
		hostSource = sourceEnv
	}
	if flags.Set["host"] {
		trimmed := strings.TrimSpace(flags.Host)
		if trimmed == "" {
			return Config{}, fmt.Errorf("invalid --host: value cannot be empty")
		}
		host = trimmed
		hostSource = sourceFlag
	}
	cfg.Host = host
	cfg.Sources["host"] = hostSource

	port := defaults.Port
	portSource := sourceDefault
	if file.Port != nil {
		port = *file.Port
		portSource = sourceFile
	}
	if rawPort := os.Getenv("DEVSERVE_PORT"); rawPort != "" {
		if parsed, err := strconv.Atoi(rawPort); err == nil && validPort(parsed) {
			port = parsed
			portSource = sourceEnv
		}
	}
	if flags.Set["port"] {
		if !validPort(flags.Port) {
			return Config{}, fmt.Errorf("invalid --port: must be between 0 and 65535")
		}
		port = flags.Port
		portSource = sourceFlag
	}
	cfg.Port = port
	cfg.Sources["port"] = portSource

	watch := defaults.Watch
	watchSource := sourceDefault
	if file.Watch != nil {
		watch = *file.Watch
		watchSource = sourceFile
	}
	if noWatch, ok := cli.ParseBoolEnv(os.Getenv("DEVSERVE_NO_WATCH")); ok {
		watch = !noWatch
		watchSource = sourceEnv
	}
	if flags.Set["no-watch"] {
		watch = !flags.NoWatch
		watchSource = sourceFlag
	}
	cfg.Watch = watch
	cfg.Sources["watch"] = watchSource

	openBrowser := defaults.OpenBrowser
	browserSource := sourceDefault
	if file.OpenBrowser != nil {
		openBrowser = *file.OpenBrowser
		browserSource = sourceFile
	}
	if noBrowser, ok := cli.ParseBoolEnv(os.Getenv("DEVSERVE_NO_BROWSER")); ok {
		openBrowser = !noBrowser
		browserSource = sourceEnv
	}
	if flags.Set["no-browser"] {
		openBrowser = !flags.NoBrowser
		browserSource = sourceFlag
	}
	cfg.OpenBrowser = openBrowser
	cfg.Sources["open-browser"] = browserSource

	logLevel := defaults.LogLevel
	if file.LogLevel != nil {
		parsed, ok := logging.ParseLevel(*file.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("config %s: invalid log-level %q", file.Path, *file.LogLevel)
		}
		logLevel = parsed
	}
	if cfg.Verbose {
		logLevel = logging.LevelDebug
	} else if cfg.Quiet {
		logLevel = logging.LevelWarning
	}
	cfg.LogLevel = logLevel

	return cfg, nil
}

func validPort(port int) bool {
	return port >= 0 && port <= 65535
}

func parseFlags(args []string, defaults configDefaults, helpOut io.Writer) (flagValues, error) {
	if args == nil {
		args = []string{}
	}
	fs := flag.NewFlagSet("devserve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	flags := flagValues{}
	cli.IntVarAliased(fs, &flags.Port, defaults.Port, "Port to serve on", "port", "p")
	cli.StringVarAliased(fs, &flags.Host, defaults.Host, "Host to bind to", "host")
	cli.StringVarAliased(fs, &flags.Dir, defaults.Dir, "Directory to serve", "dir")
	cli.StringVarAliased(fs, &flags.ConfigPath, "", "Config file path", "config")
	cli.BoolVarAliased(fs, &flags.NoBrowser, false, "Don't open a browser", "no-browser")
	cli.BoolVarAliased(fs, &flags.NoWatch, false, "Don't watch files for changes", "no-watch")
	cli.BoolVarAliased(fs, &flags.Verbose, false, "Enable verbose logging", "verbose")
	cli.BoolVarAliased(fs, &flags.Quiet, false, "Reduce logging to warnings, hiding request logs", "quiet")
	helpVersion := cli.AddHelpVersionFlags(fs, "Show help", "Print version and exit")

	fs.Usage = func() {
		printHelp(fs.Output(), defaults)
	}

	if err := fs.Parse(args); err != nil {
		return flagValues{}, err
	}
	if fs.NArg() > 0 {
		return flagValues{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	// Aliases share a destination, so record them under their long name.
	set["port"] = cli.VisitedAny(fs, "port", "p")

	flags.Help = helpVersion.Help
	flags.Version = helpVersion.Version
	flags.Set = set

	if flags.Help {
		if helpOut == nil {
			helpOut = os.Stdout
		}
		fs.SetOutput(helpOut)
		fs.Usage()
		return flags, flag.ErrHelp
	}

	return flags, nil
}

func printHelp(out io.Writer, defaults configDefaults) {
	fmt.Fprintln(out, "Usage: devserve [options]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Local development server for single-page apps, with CORS and change detection")

	writeOptionGroup(out, "Server", []helpOption{
		{
			Name: "--port, -p PORT",
			Desc: fmt.Sprintf("Port to serve on (env: DEVSERVE_PORT, default: %d)", defaults.Port),
		},
		{
			Name: "--host HOST",
			Desc: fmt.Sprintf("Host to bind to, 0.0.0.0 for all interfaces (env: DEVSERVE_HOST, default: %s)", defaults.Host),
		},
		{
			Name: "--dir DIR",
			Desc: fmt.Sprintf("Directory to serve (default: %s)", defaults.Dir),
		},
		{
			Name: "--no-browser",
			Desc: "Don't open a browser (env: DEVSERVE_NO_BROWSER)",
		},
		{
			Name: "--no-watch",
			Desc: "Don't watch files for changes (env: DEVSERVE_NO_WATCH)",
		},
	})

	writeOptionGroup(out, "Config", []helpOption{
		{
			Name: "--config PATH",
			Desc: fmt.Sprintf("TOML config file (default: DIR/%s when present)", config.DefaultFileName),
		},
	})

	writeOptionGroup(out, "Logging", []helpOption{
		{
			Name: "--verbose",
			Desc: "Enable verbose logging",
		},
		{
			Name: "--quiet",
			Desc: "Reduce logging to warnings (hides request logs)",
		},
	})

	writeOptionGroup(out, "Other", []helpOption{
		{
			Name: "--help, -h",
			Desc: "Show help and exit",
		},
		{
			Name: "--version, -v",
			Desc: "Print version and exit",
		},
	})

	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  devserve                  Start server on default port 8000")
	fmt.Fprintln(out, "  devserve -p 3000          Start server on port 3000")
	fmt.Fprintln(out, "  devserve --no-browser     Start server without opening browser")
	fmt.Fprintln(out, "  devserve --no-watch       Start server without file watching")
}

func writeOptionGroup(out io.Writer, title string, options []helpOption) {
	if len(options) == 0 {
		return
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, title+":")
	for _, option := range options {
		fmt.Fprintf(out, "  %-24s %s\n", option.Name, option.Desc)
	}
}

func logStartupFlags(logger *logging.Logger, cfg Config) {
	if logger == nil {
		return
	}
	flags := []string{}
	if cfg.Sources["host"] == sourceFlag {
		flags = append(flags, formatStringFlag("--host", cfg.Host))
	}
	if cfg.Sources["port"] == sourceFlag {
		flags = append(flags, formatStringFlag("--port", strconv.Itoa(cfg.Port)))
	}
	if cfg.Sources["watch"] == sourceFlag {
		flags = append(flags, formatBoolFlag("--no-watch", !cfg.Watch))
	}
	if cfg.Sources["open-browser"] == sourceFlag {
		flags = append(flags, formatBoolFlag("--no-browser", !cfg.OpenBrowser))
	}
	if cfg.ConfigPath != "" {
		flags = append(flags, formatStringFlag("--config", cfg.ConfigPath))
	}
	flags = lo.Compact(flags)
	if len(flags) > 0 {
		logger.Debug("startup flags", map[string]string{
			"flags": strings.Join(flags, " "),
		})
	}
	keys := lo.Keys(cfg.Sources)
	sort.Strings(keys)
	for _, key := range keys {
		logger.Debug("config value", map[string]string{
			"key":    key,
			"source": string(cfg.Sources[key]),
		})
	}
}

func formatBoolFlag(name string, value bool) string {
	if value {
		return name
	}
	return ""
}

func formatStringFlag(name, value string) string {
	if value == "" {
		return ""
	}
	return name + " " + value
}

func logVersionInfo(logger *logging.Logger) {
	if logger == nil {
		return
	}
	logger.Debug(fmt.Sprintf("devserve version %s", version.Label()), map[string]string{
		"version": version.Label(),
	})
}
