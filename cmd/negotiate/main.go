// Command negotiate prints the media type negotiated from an Accept header
// (or from an ordered list of media types) and the available media types.
//
//	negotiate -accept "text/html;q=0.5, application/json"
//	negotiate -available "image/png,image/webp" image/avif image/*
//
// Exits with status 1 if none of the requested media types is acceptable.
package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/negotiator/accept"
	"goyave.dev/negotiator/config"
	"goyave.dev/negotiator/mediatype"
	"goyave.dev/negotiator/negotiator"
	"goyave.dev/negotiator/slog"
)

const (
	exitOK = iota
	exitNotAcceptable
	exitError
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("negotiate", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "JSON config file (default: config.json in the working directory, if any)")
	header := flags.String("accept", "", "Accept header value, ignored if media types are given as arguments")
	available := flags.String("available", "", "comma-separated available media types, overrides the config")
	if err := flags.Parse(args); err != nil {
		return exitError
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	level, err := slog.ParseLevel(cfg.GetString("log.level"))
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}
	logger := slog.New(slog.NewHandler(cfg.GetBool("app.devMode"), level, stderr))

	if list := splitList(*available); len(list) > 0 {
		cfg.Set("negotiation.available", list)
	}

	n, err := negotiator.FromConfig(cfg)
	if err != nil {
		logger.Error(err)
		return exitError
	}

	requested, err := requestedTypes(cfg, logger, flags.Args(), *header)
	if err != nil {
		if flags.NArg() > 0 {
			logger.Error(err)
			return exitError
		}
		logger.Warn("ignoring malformed media types", "accept", *header, "error", err.Error())
	}

	result, matched := n.Match(requested)
	if result == nil {
		logger.Warn("not acceptable",
			"requested", accept.Values(requested),
			"available", accept.Values(n.Available()),
		)
		return exitNotAcceptable
	}

	logger.Debug("negotiated", "requested", result.Mimetype(), "available", matched.Mimetype())
	fmt.Fprintln(stdout, result.Mimetype())
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	cfg, err := config.Load()
	if stderrors.Is(err, os.ErrNotExist) {
		return config.LoadDefault(), nil
	}
	return cfg, err
}

func requestedTypes(cfg *config.Config, logger *slog.Logger, args []string, header string) ([]*mediatype.ContentType, error) {
	if len(args) > 0 {
		return mediatype.ParseAll(args...)
	}
	return accept.ParseWithOptions(header, accept.Options{
		KeepZeroQuality: !cfg.GetBool("negotiation.rejectZeroQuality"),
		Logger:          logger,
	})
}

func splitList(list string) []string {
	return lo.Compact(lo.Map(strings.Split(list, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
