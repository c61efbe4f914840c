package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/config"
	"github.com/nudibranch/nudi/cli/internal/dispatch"
	"github.com/nudibranch/nudi/cli/internal/form"
	"github.com/nudibranch/nudi/cli/internal/logging"
	"github.com/nudibranch/nudi/cli/internal/submit"
	"github.com/nudibranch/nudi/cli/internal/ui"
	"github.com/nudibranch/nudi/cli/internal/upload"
)

// ErrReported marks a failure that has already been shown to the user.
var ErrReported = errors.New("request failed")

// session is everything a command needs to talk to the server.
type session struct {
	cfg        *config.Config
	client     *api.Client
	log        logging.Logger
	notifier   *ui.Notifier
	dispatcher *dispatch.Dispatcher
}

func newSession(cmd *cobra.Command, requireLogin bool) (*session, error) {
	cfg, err := config.Resolve()
	if err != nil {
		return nil, err
	}
	if server, _ := cmd.Flags().GetString("server"); strings.TrimSpace(server) != "" {
		cfg.ServerURL = strings.TrimRight(strings.TrimSpace(server), "/")
	}
	if requireLogin && !cfg.LoggedIn() {
		return nil, fmt.Errorf("not logged in: run 'nudi login' first")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := logging.New(cmd.ErrOrStderr(), verbose).With("server", cfg.ServerURL)
	notifier := ui.NewNotifier(cmd.OutOrStdout(), cfg.ServerURL)
	notifier.SetWidth(ui.TerminalWidth(cmd.OutOrStdout(), 80))

	return &session{
		cfg:        cfg,
		client:     api.NewClient(cfg.ServerURL, cfg.SessionCookie, cfg.Timeout),
		log:        log,
		notifier:   notifier,
		dispatcher: dispatch.NewDispatcher(notifier, log),
	}, nil
}

func outcomeErr(o dispatch.Outcome) error {
	if !o.Failed() {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrReported, o.Err)
}

// dispatch routes a response, or the error that replaced it.
func (s *session) dispatch(ctx context.Context, resp *api.Response, err error) error {
	if err != nil {
		return outcomeErr(s.dispatcher.Fail(ctx, err))
	}
	return outcomeErr(s.dispatcher.Dispatch(ctx, resp))
}

// submit sends f and waits for its outcome. On a terminal, forms with files
// show the upload progress view; notifications are held back until it exits.
func (s *session) submit(cmd *cobra.Command, f form.Form, method string, skipEmpty bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !ui.IsTerminal(out) || len(f.FileFields()) == 0 {
		coordinator := upload.NewCoordinator(s.client, upload.WithLogger(s.log))
		controller := submit.NewController(s.client, coordinator, s.dispatcher, s.log)
		return outcomeErr(controller.Submit(ctx, f, method, skipEmpty).Wait())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pending bytes.Buffer
	notifier := ui.NewNotifier(&pending, s.cfg.ServerURL)
	notifier.SetWidth(ui.TerminalWidth(out, 80))
	dispatcher := dispatch.NewDispatcher(notifier, s.log)
	progress := ui.NewProgress(cmd.InOrStdin(), out, "Submitting "+f.Action, cancel)
	coordinator := upload.NewCoordinator(s.client, upload.WithLogger(s.log), upload.WithObserver(progress.Observe))

	sub := submit.NewController(s.client, coordinator, dispatcher, s.log).Submit(ctx, f, method, skipEmpty)
	go func() {
		<-sub.Done()
		progress.Finish()
	}()

	_, runErr := progress.Run()
	if runErr != nil {
		cancel()
	}
	outcome := sub.Wait()
	if _, err := io.Copy(out, &pending); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return outcomeErr(outcome)
}

// preview prints a form and the JSON it would send, without sending it.
// File fields show their local file name in place of a file id.
func preview(cmd *cobra.Command, title string, f form.Form, skipEmpty bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.RenderForm(title, f, ui.TerminalWidth(out, 100)))

	rep, err := form.Flatten(f.Fields, skipEmpty)
	if err != nil {
		return err
	}
	body, err := rep.JSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(body))
	return nil
}

// confirmDelete asks before deleting name at target, then dispatches the
// server's answer.
func (s *session) confirmDelete(cmd *cobra.Command, name, target string, yes bool) error {
	if !yes {
		ok, err := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).
			Confirm(fmt.Sprintf("Are you sure you want to delete %s?", name), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}
	ctx := cmd.Context()
	resp, err := s.client.Delete(ctx, target)
	return s.dispatch(ctx, resp, err)
}
