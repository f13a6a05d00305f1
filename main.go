package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Pitastic/zabbix-tplink-crawler/pkg/tplink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

type credentials struct {
	username string
	password string
}

// passwordPrompt asks for the password of target. An empty result means no
// password could be read.
type passwordPrompt func(target string) (string, error)

func main() {
	if err := newRootCommand(terminalPrompt).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(prompt passwordPrompt) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "zabbix-tplink-crawler [flags] TPhost",
		Short:         "TP-Link Easy Smart Switch port statistics",
		Long:          "Logs into a TP-Link Easy Smart switch and prints its per-port packet statistics.\nTPhost is the IP address or hostname of the switch.",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, v, args[0], prompt)
		},
	}

	flags := cmd.Flags()
	flags.BoolP("1line", "1", false, "output in a single line")
	flags.BoolP("debug", "d", false, "activate debugging output")
	flags.BoolP("json", "j", false, "output in JSON format")
	flags.StringP("password", "p", "", "password for switch access")
	flags.BoolP("statsonly", "s", false, "output port statistics only")
	flags.StringP("username", "u", "admin", "username for switch access")
	flags.BoolP("discover", "c", false, "Zabbix Discovery mode outputs a list of ports only")
	flags.Duration("login-timeout", tplink.DefaultLoginTimeout, "timeout for the login request")
	flags.Duration("fetch-timeout", tplink.DefaultFetchTimeout, "timeout for the statistics request")
	flags.StringVar(&configFile, "config", "", "config file (default $HOME/.config/zabbix-tplink-crawler/config.yaml)")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, v *viper.Viper, target string, prompt passwordPrompt) error {
	log := newLogger(v.GetBool("debug"), cmd.ErrOrStderr())

	creds, err := resolveCredentials(cmd.Flags(), v, target, tplink.NewEnvironmentPasswordManager(log), prompt)
	if err != nil {
		return err
	}

	client, err := tplink.NewClient(target,
		tplink.WithLogger(log),
		tplink.WithLoginTimeout(v.GetDuration("login-timeout")),
		tplink.WithFetchTimeout(v.GetDuration("fetch-timeout")))
	if err != nil {
		return err
	}

	if err := client.Login(ctx, creds.username, creds.password); err != nil {
		return err
	}

	snapshot, err := client.Statistics(ctx)
	if err != nil {
		return err
	}

	format := selectFormat(v.GetBool("1line"), v.GetBool("json"), v.GetBool("statsonly"), v.GetBool("discover"))
	log.WithFields(logrus.Fields{
		"format": format,
		"ports":  len(snapshot.Ports),
	}).Debug("printing statistics")

	return printStats(cmd.OutOrStdout(), snapshot, format, time.Now())
}

// resolveCredentials picks the password from, in order: the -p flag, the
// host-specific environment, TPLINK_PASSWORD or the config file, and the
// interactive prompt.
func resolveCredentials(flags *pflag.FlagSet, v *viper.Viper, target string, passwords tplink.PasswordManager, prompt passwordPrompt) (credentials, error) {
	creds := credentials{
		username: v.GetString("username"),
		password: v.GetString("password"),
	}

	if flags.Changed("password") {
		return creds, nil
	}

	if config, found := passwords.GetSwitchConfig(target); found {
		creds.password = config.Password
		if config.Username != "" && !flags.Changed("username") {
			creds.username = config.Username
		}
		return creds, nil
	}

	if creds.password == "" && prompt != nil {
		password, err := prompt(target)
		if err != nil {
			return creds, tplink.NewConfigError("failed to read password", err)
		}
		creds.password = password
	}

	if creds.password == "" {
		return creds, tplink.ErrPasswordRequired
	}
	return creds, nil
}

func terminalPrompt(target string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", target)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func newLogger(debug bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
