package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind            string
	port            int
	prefix          string
	profile         bool
	tlsCert         string
	tlsKey          string
	verbose         bool
	version         bool
	notifyURL       string
	notifyToken     string
	sequencePlayers int
	triviaPlayers   int
	streakTarget    int
	questionTimer   time.Duration
	revealDelay     time.Duration
	resetDelay      time.Duration
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.sequencePlayers < 1 || c.sequencePlayers > 5 {
		return fmt.Errorf("invalid --sequence-players (must be between 1-5 inclusive): %d", c.sequencePlayers)
	}
	if c.triviaPlayers < 1 {
		return fmt.Errorf("invalid --trivia-players (must be positive): %d", c.triviaPlayers)
	}
	if c.streakTarget < 1 {
		return fmt.Errorf("invalid --streak-target (must be positive): %d", c.streakTarget)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HUNTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "hunthub",
		Short:         "A realtime event hub for multiplayer scavenger hunt challenges.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HUNTHUB_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: HUNTHUB_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HUNTHUB_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: HUNTHUB_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: HUNTHUB_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: HUNTHUB_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: HUNTHUB_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: HUNTHUB_VERSION)")
	fs.StringVar(&cfg.notifyURL, "notify-url", "", "URL to POST challenge completions to (env: HUNTHUB_NOTIFY_URL)")
	fs.StringVar(&cfg.notifyToken, "notify-token", "", "shared secret for the /notify endpoint (env: HUNTHUB_NOTIFY_TOKEN)")
	fs.IntVar(&cfg.sequencePlayers, "sequence-players", 5, "players required to start the shared maze (env: HUNTHUB_SEQUENCE_PLAYERS)")
	fs.IntVar(&cfg.triviaPlayers, "trivia-players", 4, "players required to start shared trivia (env: HUNTHUB_TRIVIA_PLAYERS)")
	fs.IntVar(&cfg.streakTarget, "streak-target", 7, "consecutive correct answers needed to win shared trivia (env: HUNTHUB_STREAK_TARGET)")
	fs.DurationVar(&cfg.questionTimer, "question-timer", 20*time.Second, "per-question countdown for timed quizzes (env: HUNTHUB_QUESTION_TIMER)")
	fs.DurationVar(&cfg.revealDelay, "reveal-delay", 3*time.Second, "pause between answer reveal and next question (env: HUNTHUB_REVEAL_DELAY)")
	fs.DurationVar(&cfg.resetDelay, "reset-delay", 8*time.Second, "pause between challenge completion and room reset (env: HUNTHUB_RESET_DELAY)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("hunthub v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
