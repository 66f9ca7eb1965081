package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"

	"jdbcurl"
	"jdbcurl/internal/batch"
	"jdbcurl/internal/logger"
	"jdbcurl/internal/logger/zaplog"
	"jdbcurl/internal/manifest"
	"jdbcurl/internal/process"
	"jdbcurl/pkg/jdbc"
)

// Error is a default error type for jdbcurl cli.
var Error = errs.Class("jdbcurl cli")

// Config contains configurable values for jdbcurl project.
type Config struct {
	jdbcurl.Config
}

// output formats of parse command.
const (
	formatText = "text"
	formatJSON = "json"
)

// commands.
var (
	rootCmd = &cobra.Command{
		Use:   "jdbcurl",
		Short: "cli for parsing jdbc connection urls",
	}
	parseCmd = &cobra.Command{
		Use:   "parse [url...]",
		Short: "parses jdbc urls and prints connection descriptors",
		RunE:  cmdParse,
	}
	kindsCmd = &cobra.Command{
		Use:   "kinds",
		Short: "lists supported database kinds and their default ports",
		Args:  cobra.NoArgs,
		RunE:  cmdKinds,
	}
	runCmd = &cobra.Command{
		Use:         "run",
		Short:       "runs the console web server",
		Args:        cobra.NoArgs,
		RunE:        cmdRun,
		Annotations: map[string]string{"type": "run"},
	}
)

func init() {
	rootCmd.AddCommand(parseCmd, kindsCmd, runCmd)

	parseCmd.Flags().String("manifest", "", "toml file with [[connection]] entries to parse")
	parseCmd.Flags().String("format", formatText, "output format: text|json")
	parseCmd.Flags().Int("workers", 4, "number of urls parsed at the same time")

	runCmd.Flags().String("config", "./configs/.jdbcurl.env", "env file with configuration")
	runCmd.Flags().String("host", "127.0.0.1", "host")
	runCmd.Flags().String("port", "8088", "port")
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func cmdParse(cmd *cobra.Command, args []string) error {
	ctx, cancel := process.WithSignals(cmd.Context())
	defer cancel()

	log := zaplog.NewLog()

	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return Error.Wrap(err)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return Error.Wrap(err)
	}
	if format != formatText && format != formatJSON {
		return Error.New("unknown format %q", format)
	}

	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return Error.Wrap(err)
	}

	urls := args
	if manifestPath != "" {
		m, err := manifest.Load(manifestPath)
		if err != nil {
			log.Error("could not load manifest", Error.Wrap(err))
			return Error.Wrap(err)
		}
		urls = append(m.URLs(), urls...)
	}
	if len(urls) == 0 {
		return Error.New("no urls given, pass them as arguments or with --manifest")
	}

	results, err := batch.Parse(ctx, urls, batch.Config{Workers: workers})
	if err != nil {
		log.Error("parsing interrupted", Error.Wrap(err))
	}

	if err := printResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), log, format, results); err != nil {
		return Error.Wrap(err)
	}

	if failed := batch.Failed(results); failed > 0 {
		cmd.SilenceUsage = true
		return Error.New("%d of %d urls failed", failed, len(results))
	}

	return nil
}

// printResults writes descriptors to stdout and failures to stderr, keeping input order.
func printResults(stdout, stderr io.Writer, log logger.Logger, format string, results []batch.Result) error {
	encoder := json.NewEncoder(stdout)

	for _, result := range results {
		if !result.OK() {
			log.Debug("could not parse " + result.URL + ": " + result.Err.Error())
			if _, err := fmt.Fprintf(stderr, "Error parsing URL: %s - %v\n", result.URL, result.Err); err != nil {
				return err
			}
			continue
		}

		switch format {
		case formatJSON:
			if err := encoder.Encode(result.Descriptor); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintln(stdout, result.Descriptor.String()); err != nil {
				return err
			}
		}
	}

	return nil
}

func cmdKinds(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "KIND\tDEFAULT PORT"); err != nil {
		return Error.Wrap(err)
	}

	for _, kind := range jdbc.Kinds() {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", kind, kind.DefaultPort()); err != nil {
			return Error.Wrap(err)
		}
	}

	return Error.Wrap(w.Flush())
}

func cmdRun(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := process.WithSignals(cmd.Context())
	defer cancel()

	log := zaplog.NewLog()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return Error.Wrap(err)
	}

	err = godotenv.Overload(configPath)
	if err != nil {
		log.Error("could not load config", Error.Wrap(err))
		return Error.Wrap(err)
	}

	config := new(Config)
	envOpt := env.Options{RequiredIfNoDef: true}
	err = env.Parse(config, envOpt)
	if err != nil {
		log.Error("could not parse config", Error.Wrap(err))
		return Error.Wrap(err)
	}

	if cmd.Flags().Changed("host") || cmd.Flags().Changed("port") {
		hostEnv, err := cmd.Flags().GetString("host")
		if err != nil {
			return Error.Wrap(err)
		}

		portEnv, err := cmd.Flags().GetString("port")
		if err != nil {
			return Error.Wrap(err)
		}

		config.Config.Console.Address = fmt.Sprintf("%s:%s", hostEnv, portEnv)
	}

	peer, err := jdbcurl.New(log, config.Config)
	if err != nil {
		log.Error("could not initialize peer", Error.Wrap(err))
		return Error.Wrap(err)
	}

	return errs.Combine(peer.Run(ctx), peer.Close())
}
