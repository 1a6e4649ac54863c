// Management Console
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof" // #nosec G108 - listener is enabled explicitly by flag.
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/regorov/imagehues"
	"github.com/rs/zerolog"
	"github.com/urfave/cli"
)

// EnvVarPrefix holds environment variables prefix related to application.
const (
	EnvVarPrefix = "IMAGEHUES_"
)

// BuildNumber is set at link time.
var BuildNumber = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "imagehues"
	app.Usage = "dominant and contrast colors of images"
	app.Version = BuildNumber
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "debug, d",
			Usage:  "debug mode activation",
			EnvVar: EnvVarPrefix + "DEBUG",
		},
		cli.StringFlag{
			Name:   "pl",
			Usage:  "pprof HTTP listener",
			EnvVar: EnvVarPrefix + "PPROF_LISTENER",
		},
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "YAML configuration file",
			EnvVar: EnvVarPrefix + "CONFIG",
		},
	}

	extractFlags := []cli.Flag{
		cli.IntFlag{
			Name:   "sample-size, s",
			Value:  imagehues.DefaultSampleSize,
			Usage:  "pixel scan stride, 1 scans every pixel",
			EnvVar: EnvVarPrefix + "SAMPLE_SIZE",
		},
		cli.IntFlag{
			Name:   "colors, n",
			Value:  imagehues.DefaultColorCount,
			Usage:  "amount of colors to extract",
			EnvVar: EnvVarPrefix + "COLORS",
		},
		cli.DurationFlag{
			Name:   "timeout, t",
			Usage:  "HTTP response read timeout",
			EnvVar: EnvVarPrefix + "TIMEOUT",
		},
		cli.IntFlag{
			Name:   "conns-per-host",
			Usage:  "maximum parallel HTTP connections per host",
			EnvVar: EnvVarPrefix + "CONNS_PER_HOST",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "extract",
			Aliases:   []string{"e"},
			Usage:     "extract colors of a single image",
			ArgsUsage: "URL|PATH",
			Action:    extract,
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "json",
					Usage: "print result as JSON",
				},
			}, extractFlags...),
		},
		{
			Name:      "contrast",
			Usage:     "print readable text color for a background color",
			ArgsUsage: "#rrggbb",
			Action:    contrast,
		},
		{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "process list of images",

			Action: start,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:   "workers, w",
					Usage:  "amount of parallel image processing goroutines",
					EnvVar: EnvVarPrefix + "WORKERS",
				},
				cli.StringFlag{
					Name:   "input, i",
					Usage:  "input file name, one image URL per line",
					EnvVar: EnvVarPrefix + "INPUT",
				},
				cli.StringFlag{
					Name:   "output, o",
					Usage:  "output CSV file name, - for stdout",
					EnvVar: EnvVarPrefix + "OUTPUT",
				},
			}, extractFlags...),
		},
	}
	return app
}

// settings merges configuration file and command line flags.
func settings(c *cli.Context) (FileConfig, error) {
	fc, err := LoadConfig(c.GlobalString("config"))
	if err != nil {
		return fc, err
	}

	if c.GlobalBool("debug") {
		fc.Debug = true
	}
	if c.IsSet("sample-size") || fc.SampleSize == 0 {
		fc.SampleSize = c.Int("sample-size")
	}
	if c.IsSet("colors") || fc.ColorCount == 0 {
		fc.ColorCount = c.Int("colors")
	}
	if c.IsSet("workers") {
		fc.Workers = c.Int("workers")
	}
	if c.IsSet("input") {
		fc.Input = c.String("input")
	}
	if c.IsSet("output") {
		fc.Output = c.String("output")
	}
	if c.IsSet("timeout") {
		fc.HTTP.ReadTimeout = c.Duration("timeout")
	}
	if c.IsSet("conns-per-host") {
		fc.HTTP.MaxConnsPerHost = c.Int("conns-per-host")
	}
	return fc, fc.Validate()
}

func newLogger(debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = "20060102T150405.999Z07:00"
	zerolog.TimestampFieldName = "t"
	zerolog.MessageFieldName = "msg"
	zerolog.LevelFieldName = "lvl"

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	// stdout is reserved for results.
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func newExtractor(logger zerolog.Logger, fc FileConfig) *imagehues.Extractor {
	loader := imagehues.NewSmartLoader(logger)
	loader.SetReadTimeout(fc.HTTP.ReadTimeout)
	loader.SetMaxConnsPerHost(fc.HTTP.MaxConnsPerHost)

	return imagehues.New(imagehues.Config{Loader: loader, Logger: &logger})
}

// signalContext returns context cancelled on SIGINT or SIGTERM.
func signalContext(logger zerolog.Logger) (context.Context, context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		select {
		case s := <-stop:
			logger.Info().Str("signal", s.String()).Msg("signal captured")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(stop)
	}()
	return ctx, cancel
}

func extract(c *cli.Context) error {

	if c.NArg() != 1 {
		return cli.NewExitError("exactly one image URL or path expected", 2)
	}

	fc, err := settings(c)
	if err != nil {
		return err
	}
	logger := newLogger(fc.Debug)

	ctx, cancel := signalContext(logger)
	defer cancel()

	url := c.Args().First()
	res, err := newExtractor(logger, fc).Extract(ctx, url, fc.SampleSize, fc.ColorCount)
	if err != nil {
		logger.Error().Str("url", url).Str("errmsg", err.Error()).Msg("extraction failed")
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Print(res.String())
	return nil
}

func contrast(c *cli.Context) error {

	if c.NArg() != 1 {
		return cli.NewExitError("exactly one color expected", 2)
	}

	bg, err := imagehues.ParseRGB(c.Args().First())
	if err != nil {
		return err
	}
	fmt.Println(imagehues.NewLuminanceContrast().Calculate(bg))
	return nil
}

func start(c *cli.Context) error {

	fc, err := settings(c)
	if err != nil {
		return err
	}

	// 1. logger preparation.
	logger := newLogger(fc.Debug)

	logger.Info().Str("version", BuildNumber).Msg("application started")

	logger.Info().
		Bool("debug", fc.Debug).
		Str("input", fc.Input).
		Str("output", fc.Output).
		Int("workers", fc.Workers).
		Int("sample-size", fc.SampleSize).
		Int("colors", fc.ColorCount).
		Msg("launching params")

	// 2. runtime profiling activation.
	if c.GlobalIsSet("pl") {
		go func(listen string) {
			logger.Info().Str("pl", listen).Msg("start pprof http listener")
			if err := http.ListenAndServe(listen, nil); err != nil { // #nosec G114 - debug listener.
				logger.Error().Str("errmsg", err.Error()).Msg("pprof listener starting failed")
			}
		}(c.GlobalString("pl"))
	}

	// 3. signal capture.
	ctx, cancel := signalContext(logger)
	defer cancel()

	// 4. Create objects.
	input := imagehues.NewPlainTextFileInput(logger)
	output := imagehues.NewBufferedCSV(10)
	batch := imagehues.NewBatchProcessor(logger, input, output, newExtractor(logger, fc), fc.SampleSize, fc.ColorCount)

	if err := output.Open(fc.Output); err != nil {
		logger.Error().Str("errmsg", err.Error()).Msg("output file open/create failed")
		return err
	}

	// 5. Start processes.
	if err := input.Start(ctx, fc.Input); err != nil {
		logger.Error().Str("errmsg", err.Error()).Msg("input file open failed")
		_ = output.Close()
		return err
	}

	started := time.Now()
	logger.Info().Msg("processing started")
	batch.Start(ctx, fc.Workers)

	if err := output.Close(); err != nil {
		logger.Error().Str("errmsg", err.Error()).Msg("output file flush/close failed")
	}

	logger.Info().Str("dur", time.Since(started).String()).Msg("Completed")
	return nil
}
