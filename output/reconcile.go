// Package output decides whether a generated companion needs writing and
// writes the ones that do.
package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/logger"
)

// Action is the outcome for one destination.
type Action int

const (
	// Skip means nothing was generated and no previous file exists.
	Skip Action = iota
	// Unchanged means the existing body matches the rendered one.
	Unchanged
	// Write means the destination is missing or stale.
	Write
)

func (a Action) String() string {
	switch a {
	case Skip:
		return "skipped"
	case Unchanged:
		return "unchanged"
	case Write:
		return "written"
	default:
		return "unknown"
	}
}

// MarshalText renders the action by name in JSON summaries.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Body returns text without its first headerLines lines.
func Body(text string, headerLines int) string {
	rest := text
	for i := 0; i < headerLines; i++ {
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return ""
		}
		rest = rest[nl+1:]
	}
	return rest
}

// Decide compares rendered text with the existing file content. The
// header lines carry a timestamp and never count as a change.
func Decide(existing string, exists bool, rendered string, headerLines int) Action {
	body := Body(rendered, headerLines)
	if !exists {
		if body == "" {
			return Skip
		}
		return Write
	}
	if Body(existing, headerLines) == body {
		return Unchanged
	}
	return Write
}

// Target is one rendered companion.
type Target struct {
	Path string
	Text string
}

// Outcome is the decision taken for one target.
type Outcome struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
}

// Reconciler writes stale targets to a filesystem.
type Reconciler struct {
	fs          afero.Fs
	headerLines int
	parallelism int
	dryRun      bool
	log         *zap.SugaredLogger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithParallelism bounds concurrent reads and writes.
func WithParallelism(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// WithDryRun decides without writing.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) { r.dryRun = dryRun }
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReconciler creates a reconciler over fsys.
func NewReconciler(fsys afero.Fs, headerLines int, opts ...Option) *Reconciler {
	r := &Reconciler{
		fs:          fsys,
		headerLines: headerLines,
		parallelism: 4,
		log:         zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile decides every target and writes the stale ones. Outcomes are
// returned in target order. Destinations are independent, so they are
// handled concurrently.
func (r *Reconciler) Reconcile(ctx context.Context, targets []Target) ([]Outcome, error) {
	outcomes := make([]Outcome, len(targets))
	for i, t := range targets {
		outcomes[i].Path = t.Path
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			action, err := r.reconcile(t)
			if err != nil {
				return err
			}
			outcomes[i].Action = action
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (r *Reconciler) reconcile(t Target) (Action, error) {
	existing, exists, err := r.read(t.Path)
	if err != nil {
		return Skip, err
	}

	action := Decide(existing, exists, t.Text, r.headerLines)
	if action != Write {
		r.log.Debugw("Companion up to date", logger.FieldOutput, t.Path, logger.FieldAction, action.String())
		return action, nil
	}
	if r.dryRun {
		r.log.Debugw("Companion is stale", logger.FieldOutput, t.Path)
		return action, nil
	}

	if err := r.fs.MkdirAll(filepath.Dir(t.Path), 0o755); err != nil {
		return Skip, errors.Wrapf(err, "failed to create directory for %s", t.Path)
	}
	if err := afero.WriteFile(r.fs, t.Path, []byte(t.Text), 0o644); err != nil {
		return Skip, errors.Wrapf(err, "failed to write %s", t.Path)
	}
	r.log.Infow("Wrote companion", logger.FieldOutput, t.Path, logger.FieldSize, len(t.Text))
	return action, nil
}

func (r *Reconciler) read(path string) (string, bool, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), true, nil
}
