// Package console implements the interactive admin console: a registry
// view over the server's stored files, upload/delete/ask commands, and
// the REPL that drives them.
package console

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/simkoong/filesearch-milky/internal/apiclient"
)

// ViewState describes what the registry table currently shows.
type ViewState int

const (
	StateLoading ViewState = iota
	StateEmpty
	StateError
	StateRows
)

type fileLister interface {
	ListFiles(ctx context.Context) ([]apiclient.FileRecord, error)
}

// RegistryView holds the console's copy of the server-known file set and
// renders it as a table. The copy is replaced wholesale on every refresh;
// nothing is patched incrementally.
type RegistryView struct {
	client  fileLister
	out     io.Writer
	state   ViewState
	records []apiclient.FileRecord
}

func NewRegistryView(client fileLister, out io.Writer) *RegistryView {
	return &RegistryView{client: client, out: out, state: StateLoading}
}

// Refresh fetches the file list and re-renders the table. A loading
// placeholder is shown before the request so the operator never looks at
// stale rows while a fetch is in flight. Errors are rendered as an
// error-state row and never returned to the caller.
func (v *RegistryView) Refresh(ctx context.Context) {
	v.state = StateLoading
	v.records = nil
	v.Render()

	files, err := v.client.ListFiles(ctx)
	if err != nil {
		v.state = StateError
		v.Render()
		return
	}

	if len(files) == 0 {
		v.state = StateEmpty
		v.Render()
		return
	}

	v.state = StateRows
	v.records = files
	v.Render()
}

// Render writes the current state to the output. Records are shown in
// server-returned order.
func (v *RegistryView) Render() {
	switch v.state {
	case StateLoading:
		fmt.Fprintln(v.out, "(loading files...)")
	case StateEmpty:
		fmt.Fprintln(v.out, "(no files uploaded yet)")
	case StateError:
		fmt.Fprintln(v.out, "(could not load the file list)")
	case StateRows:
		w := tabwriter.NewWriter(v.out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDISPLAY NAME\tFILENAME\tUPLOADED")
		for _, r := range v.records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.DisplayName, r.Filename, r.UploadedAt)
		}
		w.Flush()
	}
}

// State returns what the table currently shows.
func (v *RegistryView) State() ViewState {
	return v.state
}

// Records returns the current registry snapshot.
func (v *RegistryView) Records() []apiclient.FileRecord {
	return v.records
}

// Record looks up a record by id in the current snapshot.
func (v *RegistryView) Record(id string) (apiclient.FileRecord, bool) {
	for _, r := range v.records {
		if r.ID == id {
			return r, true
		}
	}
	return apiclient.FileRecord{}, false
}
