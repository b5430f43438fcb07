package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darim/imageform/pkg/blob"
	"github.com/darim/imageform/pkg/client"
	"github.com/darim/imageform/pkg/model"
	"github.com/darim/imageform/pkg/payload"
	"github.com/darim/imageform/pkg/renderers/tui"
	"github.com/darim/imageform/pkg/ui"
)

type submitOptions struct {
	files       []string
	values      []string
	interactive bool
	out         string
}

func newSubmitCommand(a *app) *cobra.Command {
	var opts submitOptions
	cmd := &cobra.Command{
		Use:   "submit [form]",
		Short: "Submit a form to the image API",
		Long: `Submit one form and report the outcome. An image response is kept as an
object URL and, with --out, written to disk in the format named by the file
extension. A JSON error response is shown as "Error: <message>"; any other
response means the API is throttling requests.

Examples:
  imageform submit resize --file baseImage=cat.png --value imageWidth=320 --value imageHeight=
  imageform submit compose --file baseImage=base.png --file imageList=a.png,b.png \
      --value imagesSize=16 --value basePresence=0.3 --out mosaic.png
  imageform submit --interactive --out result.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive {
				return a.submitInteractive(cmd.Context(), args, opts)
			}
			if len(args) == 0 {
				return errors.New("submit: form name required (or use --interactive)")
			}
			return a.submitOnce(cmd.Context(), args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVar(&opts.files, "file", nil, "file field as id=path[,path...] (repeatable)")
	flags.StringArrayVar(&opts.values, "value", nil, "value field as id=text (repeatable)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for the form and its fields")
	flags.StringVarP(&opts.out, "out", "o", "", "write a received image to this path")
	return cmd
}

func (a *app) submitOnce(ctx context.Context, name string, opts submitOptions) error {
	catalog, err := a.catalogFor(ctx)
	if err != nil {
		return err
	}
	form, err := catalog.Lookup(name)
	if err != nil {
		return err
	}

	files, err := parseFileAssignments(opts.files)
	if err != nil {
		return err
	}
	values, err := parseValueAssignments(opts.values)
	if err != nil {
		return err
	}
	if err := checkAssignments(form, files, values); err != nil {
		return err
	}

	c, sub, err := a.attach(form, ui.NewWriterNotifier(a.errOut, ""))
	if err != nil {
		return err
	}
	outcome, err := sub.Submit(ctx, payload.PathSource{Paths: files, Values: values})
	return a.report(c, outcome, err, opts.out)
}

func (a *app) submitInteractive(ctx context.Context, args []string, opts submitOptions) error {
	catalog, err := a.catalogFor(ctx)
	if err != nil {
		return err
	}

	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(a.out)
	}
	chooser, err := tui.NewSession(tui.WithPromptDriver(driver))
	if err != nil {
		return err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else if name, err = chooser.Choose(ctx, "Form", catalog.Names()); err != nil {
		return err
	}
	form, err := catalog.Lookup(name)
	if err != nil {
		return err
	}

	session, err := tui.ForForm(form, tui.WithPromptDriver(driver))
	if err != nil {
		return err
	}
	c, sub, err := a.attach(form, session)
	if err != nil {
		return err
	}
	_ = session.Info(ctx, fmt.Sprintf("%s -> %s", form.DisplayTitle(), sub.URL()))

	for {
		outcome, err := sub.Submit(ctx, session)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if rerr := a.report(c, outcome, err, opts.out); rerr != nil && !errors.Is(rerr, errAlerted) {
			return rerr
		}

		again, err := session.Confirm(ctx, "Submit again?", false)
		if errors.Is(err, tui.ErrAborted) || (err == nil && !again) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) attach(form model.Form, notifier ui.Notifier) (*client.Client, *client.Submitter, error) {
	store := blob.NewStore(a.cfg.API.Hostname)
	c, err := client.New(a.cfg.APIURL(),
		client.WithHTTPClient(a.httpClient),
		client.WithTimeout(a.cfg.HTTP.Timeout),
		client.WithBlobStore(store),
		client.WithSlot(ui.NewSlot(a.cfg.UI.Placeholder, store)),
		client.WithNotifier(notifier),
		client.WithLogger(a.logger.With(zap.String("form", form.Name))),
	)
	if err != nil {
		return nil, nil, err
	}
	sub, err := c.AttachForm(form)
	if err != nil {
		return nil, nil, err
	}
	return c, sub, nil
}

// report prints the outcome of one submission. Rejections and failures were
// already alerted, so they come back as errAlerted.
func (a *app) report(c *client.Client, outcome client.Outcome, err error, out string) error {
	if err != nil {
		if errors.Is(err, client.ErrSubmissionInFlight) || outcome.Kind == client.OutcomeCanceled {
			return err
		}
		return fmt.Errorf("%w: %v", errAlerted, err)
	}
	if outcome.Kind != client.OutcomeImage {
		return fmt.Errorf("%w: %s", errAlerted, outcome.Kind)
	}

	b, ok := c.Blobs().Resolve(outcome.URL)
	if !ok {
		return fmt.Errorf("image %s is no longer available", outcome.URL)
	}
	if out == "" {
		fmt.Fprintf(a.out, "%s (%s, %d bytes)\n", outcome.URL, b.Type, b.Size())
		return nil
	}
	if err := b.Save(out); err != nil {
		return err
	}
	a.logger.Info("image saved", zap.String("path", out), zap.String("type", b.Type), zap.Int("bytes", b.Size()))
	fmt.Fprintf(a.out, "Image written to %s\n", out)
	return nil
}
