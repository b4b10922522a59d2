/*
flag Package set up cli flags shared across commands

Usage:

	Flags listed in this package are shared by every tunemux command and are
	service-agnostic. Command specific flags are defined next to the command in
	cmd/.
*/

package flag

import (
	"github.com/urfave/cli/v3"
)

const (
	DefaultServiceName = "tunemux_api"

	ConfigFlagName  = "config"
	ServiceFlagName = "service"
)

// Shared returns fresh instances of the shared flags, a cli.Flag must not be
// attached to two commands.
func Shared() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlagName,
			Aliases: []string{"c"},
			Usage:   "path to a .yaml or .toml config file",
			Sources: cli.EnvVars("TUNEMUX_CONFIG"),
		},
		&cli.StringFlag{
			Name:  ServiceFlagName,
			Value: DefaultServiceName,
			Usage: "service name attached to logs, traces and metrics",
		},
	}
}
