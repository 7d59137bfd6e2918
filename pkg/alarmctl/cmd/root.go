package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/telekom/alarm-trials/pkg/config"
	"github.com/telekom/alarm-trials/pkg/output"
	"github.com/telekom/alarm-trials/pkg/system"
)

type Config struct {
	ConfigPath   string
	EnvFile      string
	OutputWriter io.Writer
	// Context is the base context of every command, e.g. one cancelled on SIGINT.
	Context context.Context
	// LookupEnv resolves credentials; defaults to os.LookupEnv.
	LookupEnv config.LookupFunc
	// Logger replaces the console logger built from --debug.
	Logger *zap.SugaredLogger
}

type runtimeState struct {
	configPath   string
	envFile      string
	debug        bool
	outputFormat string

	host        string
	port        int
	username    string
	security    string
	insecure    bool
	pushGateway string

	lookup config.LookupFunc
	cfg    *config.Config
	log    *zap.SugaredLogger
	writer io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		EnvFile:      config.DefaultEnvFile,
		OutputWriter: os.Stdout,
		Context:      context.Background(),
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{
		configPath: cfg.ConfigPath,
		envFile:    cfg.EnvFile,
		writer:     cfg.OutputWriter,
		lookup:     cfg.LookupEnv,
		log:        cfg.Logger,
	}

	root := &cobra.Command{
		Use:   "alarmctl",
		Short: "Send alarm trial messages through an SMTP submission server",
		Long: `alarmctl sends pre-written alarm messages to a mail server to verify that
alarm notifications are delivered downstream.

  burst   two alarms drawn from a candidate list, implicit TLS on port 465
  single  one fixed alarm, STARTTLS on port 587`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.lookup == nil {
				rt.lookup = os.LookupEnv
			}
			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			loaded, err := config.LoadEnvFile(rt.envFile)
			if err != nil {
				return err
			}
			if !rt.debug {
				rt.debug = config.GetEnvBool("ALARMCTL_DEBUG", false)
			}
			if rt.log == nil {
				log, err := system.NewLogger(rt.debug)
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				rt.log = log
			}
			if loaded {
				rt.log.Debugw("Loaded environment file", "path", rt.envFile)
			}
			if _, err := output.ParseFormat(rt.outputFormat); err != nil {
				return err
			}

			// an explicitly named config file must exist
			load := config.LoadIfExists
			if cmd.Flags().Changed("config") {
				load = config.Load
			}
			c, err := load(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = c
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.configPath, "config", rt.configPath, "Path to config file (env ALARMCTL_CONFIG)")
	flags.StringVar(&rt.envFile, "env-file", rt.envFile, "Dotenv file exported before reading credentials")
	flags.BoolVar(&rt.debug, "debug", false, "Enable debug logging (env ALARMCTL_DEBUG)")
	flags.StringVarP(&rt.outputFormat, "output", "o", "", "Output format: text, wide, json, yaml")
	flags.StringVar(&rt.host, "host", "", "Mail server host")
	flags.IntVar(&rt.port, "port", 0, "Mail server port")
	flags.StringVar(&rt.username, "username", "", "Login name; also the default sender and recipient")
	flags.StringVar(&rt.security, "security", "", "Transport security: tls, starttls, opportunistic")
	flags.BoolVar(&rt.insecure, "insecure-skip-verify", false, "Skip TLS certificate verification")
	flags.StringVar(&rt.pushGateway, "pushgateway", "", "Prometheus Pushgateway URL to push run metrics to")
	_ = root.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(completionValues(output.Formats), cobra.ShellCompDirectiveNoFileComp))
	_ = root.RegisterFlagCompletionFunc("security", cobra.FixedCompletions(completionValues(config.Securities), cobra.ShellCompDirectiveNoFileComp))

	base := cfg.Context
	if base == nil {
		base = context.Background()
	}
	root.SetContext(context.WithValue(base, runtimeKey{}, rt))

	root.AddCommand(
		NewBurstCommand(),
		NewSingleCommand(),
		NewPreviewCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) Logger() *zap.SugaredLogger {
	if rt.log != nil {
		return rt.log
	}
	return zap.NewNop().Sugar()
}

func (rt *runtimeState) OutputFormat() output.Format {
	f, err := output.ParseFormat(rt.outputFormat)
	if err != nil {
		return output.FormatText
	}
	return f
}

// resolve returns the effective config for a flow. Flags win over the config
// file, the file wins over the environment, and the profile fills the rest.
// Flow specific overrides run before the profile is applied.
func (rt *runtimeState) resolve(cmd *cobra.Command, p config.Profile, overrides ...func(*config.Config)) (*config.Config, error) {
	if rt.cfg == nil {
		return nil, errors.New("config not loaded")
	}
	c := *rt.cfg
	c.Message.To = append([]string(nil), rt.cfg.Message.To...)
	c.Burst.Candidates = append([]string(nil), rt.cfg.Burst.Candidates...)

	flags := cmd.Flags()
	if flags.Changed("host") {
		c.Server.Host = rt.host
	}
	if flags.Changed("port") {
		c.Server.Port = rt.port
	}
	if flags.Changed("username") {
		c.Account.Username = rt.username
	}
	if flags.Changed("security") {
		c.Server.Security = config.Security(rt.security)
	}
	if flags.Changed("insecure-skip-verify") {
		skip := rt.insecure
		c.Server.InsecureSkipVerify = &skip
	}
	if flags.Changed("pushgateway") {
		c.Metrics.PushGateway = rt.pushGateway
	}
	for _, o := range overrides {
		o(&c)
	}

	c.Apply(p, rt.lookup)
	if err := c.ResolvePassword(nil); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rt.Logger().Debugw("Resolved configuration", append(
		system.HostFields(c.Server.Host, c.Server.Port, c.Account.Username),
		"flow", p.Name, "security", c.Server.Security, "insecureSkipVerify", c.Server.SkipVerify())...)
	return &c, nil
}
