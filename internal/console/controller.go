package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simkoong/filesearch-milky/internal/apiclient"
	"github.com/simkoong/filesearch-milky/internal/logging"
)

// openFile is a test seam for os.Open.
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }

type mutationClient interface {
	Upload(ctx context.Context, filename string, r io.Reader, displayName string) error
	Delete(ctx context.Context, id string) error
	Ask(ctx context.Context, question string) (string, error)
}

// Confirmer asks the operator a yes/no question and blocks until answered.
type Confirmer func(prompt string) bool

// Controller runs the state-changing operations against the server and
// refreshes the registry view when one succeeds. Upload inputs are staged
// so a failed submission can be retried without retyping them.
type Controller struct {
	client  mutationClient
	view    *RegistryView
	out     io.Writer
	confirm Confirmer
	log     logging.Logger

	uploadBusy bool
	askBusy    bool

	stagedPath        string
	stagedDisplayName string
}

func NewController(client mutationClient, view *RegistryView, out io.Writer, confirm Confirmer, log logging.Logger) *Controller {
	return &Controller{client: client, view: view, out: out, confirm: confirm, log: log}
}

// RefreshList re-fetches and re-renders the registry.
func (c *Controller) RefreshList(ctx context.Context) {
	c.view.Refresh(ctx)
}

// StageUpload records the inputs for the next submission. A blank or
// whitespace-only display name is treated as absent.
func (c *Controller) StageUpload(path, displayName string) {
	c.stagedPath = strings.TrimSpace(path)
	c.stagedDisplayName = strings.TrimSpace(displayName)
}

// SubmitUpload sends the staged file to the server. On success the staged
// inputs are cleared and the registry is refreshed; on any failure they
// are kept so the operator can retry.
func (c *Controller) SubmitUpload(ctx context.Context) {
	if c.uploadBusy {
		fmt.Fprintln(c.out, "an upload is already in progress")
		return
	}
	if c.stagedPath == "" {
		fmt.Fprintln(c.out, "choose a file to upload first (upload <path> [display name])")
		return
	}

	c.uploadBusy = true
	defer func() { c.uploadBusy = false }()

	fmt.Fprintln(c.out, "uploading...")

	f, err := openFile(c.stagedPath)
	if err != nil {
		fmt.Fprintf(c.out, "could not open %s: %v\n", c.stagedPath, err)
		return
	}
	defer f.Close()

	if err := c.client.Upload(ctx, filepath.Base(c.stagedPath), f, c.stagedDisplayName); err != nil {
		fmt.Fprintln(c.out, c.messageFor(ctx, err, "upload failed"))
		return
	}

	fmt.Fprintln(c.out, "upload complete")
	c.stagedPath = ""
	c.stagedDisplayName = ""
	c.view.Refresh(ctx)
}

// StagedInputs reports the currently staged upload inputs.
func (c *Controller) StagedInputs() (path, displayName string) {
	return c.stagedPath, c.stagedDisplayName
}

// DeleteRecord removes a stored file after the operator confirms.
// Declining the prompt sends no request. The registry is refreshed only
// when the server reports success.
func (c *Controller) DeleteRecord(ctx context.Context, id string) {
	label := id
	if r, ok := c.view.Record(id); ok {
		label = r.Label()
	}

	if !c.confirm(fmt.Sprintf("Delete %q?", label)) {
		return
	}

	if err := c.client.Delete(ctx, id); err != nil {
		fmt.Fprintln(c.out, c.messageFor(ctx, err, "delete failed"))
		return
	}

	fmt.Fprintln(c.out, "file deleted")
	c.view.Refresh(ctx)
}

// Ask submits a question and prints the answer.
func (c *Controller) Ask(ctx context.Context, question string) {
	question = strings.TrimSpace(question)
	if question == "" {
		fmt.Fprintln(c.out, "enter a question first (ask <question>)")
		return
	}
	if c.askBusy {
		fmt.Fprintln(c.out, "a question is already in flight")
		return
	}

	c.askBusy = true
	defer func() { c.askBusy = false }()

	fmt.Fprintln(c.out, "thinking...")

	answer, err := c.client.Ask(ctx, question)
	if err != nil {
		fmt.Fprintln(c.out, c.messageFor(ctx, err, "failed to get an answer"))
		return
	}
	if answer == "" {
		answer = "(empty response)"
	}
	fmt.Fprintln(c.out, answer)
}

// messageFor picks the text shown to the operator for a failed request.
// Server-reported failures use the server's own message when it sent one;
// transport failures get the generic fallback and are logged.
func (c *Controller) messageFor(ctx context.Context, err error, fallback string) string {
	var appErr *apiclient.AppError
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			return appErr.Message
		}
		return fallback
	}
	c.log.Error(ctx, "request failed", "error", err)
	return fallback
}
