// Command imageform submits image builder forms from the terminal and renders
// the equivalent browser page.
//
// Configuration sources, highest priority first:
//
//	1. Command-line flags (--api-url, --hostname, ...)
//	2. IMAGEFORM_* environment variables (IMAGEFORM_API_HOSTNAME, IMAGEFORM_HTTP_TIMEOUT, ...)
//	3. The file named by --config, or .imageform.yaml in the working directory
//	4. Built-in defaults
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/darim/imageform"
	"github.com/darim/imageform/internal/config"
	"github.com/darim/imageform/internal/logging"
	"github.com/darim/imageform/pkg/forms"
	"github.com/darim/imageform/pkg/renderers/tui"
)

// errAlerted marks failures the user has already been shown as an alert.
var errAlerted = errors.New("imageform: submission not accepted")

// app carries the state every subcommand shares once PersistentPreRunE ran.
type app struct {
	cfgFile string
	out     io.Writer
	errOut  io.Writer

	// httpClient is used for API submissions and remote OpenAPI documents.
	httpClient *http.Client
	// driver overrides the survey prompt driver in interactive mode.
	driver tui.PromptDriver

	cfg    *config.Config
	logger *zap.Logger
}

// flagKeys binds persistent flags to configuration keys.
var flagKeys = map[string]string{
	"hostname":   config.KeyAPIHostname,
	"api-url":    config.KeyAPIURL,
	"openapi":    config.KeyFormsOpenAPI,
	"catalog":    config.KeyFormsCatalog,
	"log-level":  config.KeyLogLevel,
	"log-format": config.KeyLogFormat,
	"timeout":    config.KeyHTTPTimeout,
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	return newRoot(&app{out: out, errOut: errOut, httpClient: http.DefaultClient})
}

func newRoot(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "imageform",
		Short: "Submit image builder forms and render their pages",
		Long: `imageform posts multipart forms to the image builder API and shows
what came back: the processed image, the server's error, or a throttle notice.

Quick Start:
  imageform forms                                     List the available forms
  imageform submit jpeg --file baseImage=cat.png --value quality=80 --out cat.jpg
  imageform submit --interactive                      Prompt for a form and its fields
  imageform page resize --hostname www.darim.me       Render the browser page`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .imageform.yaml, can also use IMAGEFORM_CONFIG_FILE)")
	flags.String("hostname", "", "hostname the form is served under, resolved through the host table")
	flags.String("api-url", "", "API base URL, bypasses the host table")
	flags.String("openapi", "", "OpenAPI document (path or URL) whose multipart operations extend the catalogue")
	flags.String("catalog", "", "directory of extra form catalogue files")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.Duration("timeout", 0, "request timeout, 0 waits indefinitely")

	root.AddCommand(
		newFormsCommand(a),
		newSubmitCommand(a),
		newPageCommand(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.cfgFile
	if path == "" {
		path = os.Getenv("IMAGEFORM_CONFIG_FILE")
	}
	v, err := config.New(path)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Root()); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func bindFlags(v *viper.Viper, root *cobra.Command) error {
	for name, key := range flagKeys {
		flag := root.PersistentFlags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("config: bind --%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) catalogFor(ctx context.Context) (*forms.Catalog, error) {
	return imageform.LoadCatalog(ctx, imageform.CatalogOptions{
		Dir:        a.cfg.Forms.Catalog,
		OpenAPI:    a.cfg.Forms.OpenAPI,
		HTTPClient: a.httpClient,
	})
}
