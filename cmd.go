package main

import (
	"errors"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/novakit/novakit/driver"
	"github.com/novakit/novakit/openstack"
	"github.com/novakit/novakit/sshexec"
)

var (
	configPath string
	statePath  string

	defaultLogFormatter = &log.TextFormatter{}
)

// infoFormatter overrides the default format for Info() log events to
// provide an easier to read output
type infoFormatter struct {
}

func (f *infoFormatter) Format(entry *log.Entry) ([]byte, error) {
	if entry.Level == log.InfoLevel {
		return append([]byte(entry.Message), '\n'), nil
	}
	return defaultLogFormatter.Format(entry)
}

func setupLogging(quiet bool, verbose int, verboseSet bool) error {
	log.SetFormatter(new(infoFormatter))
	log.SetLevel(log.InfoLevel)
	if quiet && verboseSet && verbose > 0 {
		return errors.New("can't set quiet and verbose flag at the same time")
	}
	switch {
	case quiet, verbose == 0:
		log.SetLevel(log.ErrorLevel)
	case verbose == 1:
		if verboseSet {
			// Switch back to the standard formatter
			log.SetFormatter(defaultLogFormatter)
		}
		log.SetLevel(log.InfoLevel)
	case verbose == 2:
		// Switch back to the standard formatter
		log.SetFormatter(defaultLogFormatter)
		log.SetLevel(log.DebugLevel)
	case verbose == 3:
		// Switch back to the standard formatter
		log.SetFormatter(defaultLogFormatter)
		log.SetLevel(log.TraceLevel)
	default:
		return errors.New("verbose flag can only be set to 0, 1, 2 or 3")
	}
	return nil
}

func newCmd() *cobra.Command {
	var (
		flagQuiet       bool
		flagVerbose     int
		flagVerboseName = "verbose"
	)
	cmd := &cobra.Command{
		Use:               "novakit",
		Short:             "create and destroy disposable cloud instances",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Set up logging
			return setupLogging(flagQuiet, flagVerbose, cmd.Flag(flagVerboseName).Changed)
		},
	}

	cmd.AddCommand(createCmd())
	cmd.AddCommand(destroyCmd())
	cmd.AddCommand(versionCmd())

	cmd.PersistentFlags().StringVar(&configPath, "config", "novakit.yml", "Path to the instance configuration file")
	cmd.PersistentFlags().StringVar(&statePath, "state", "", "Path to the state file. Defaults to the config path with a .state.yml extension")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet execution")
	cmd.PersistentFlags().IntVarP(&flagVerbose, flagVerboseName, "v", 1, "Verbosity of logging: 0 = quiet, 1 = info, 2 = debug, 3 = trace. Default is info. Setting it explicitly will create structured logging lines.")

	return cmd
}

// newDriver assembles a driver from the configuration file, the state
// file next to it, and the real provider and shell implementations.
func newDriver() (*driver.Driver, error) {
	cfg, err := driver.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	path := statePath
	if path == "" {
		path = strings.TrimSuffix(configPath, filepath.Ext(configPath)) + ".state.yml"
	}
	return &driver.Driver{
		Config: cfg,
		Cloud:  openstack.FromConfig(cfg),
		Store:  &driver.FileStore{Path: path},
		Env:    driver.OSEnviron(),
		Shell: func(opts driver.ShellOpts) driver.Shell {
			return &sshexec.Client{
				Host:     opts.Host,
				Port:     opts.Port,
				User:     opts.User,
				Password: opts.Password,
				KeyPath:  opts.KeyPath,
			}
		},
	}, nil
}
