package extract

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/logx"
	"github.com/Abraxas-365/docextract/pkg/pagesource"
)

// SourceOpener opens the page source of a request.
type SourceOpener func(ctx context.Context, req Request) (pagesource.Source, error)

// Driver runs documents through the extraction pipeline. A Driver holds no
// per-run state and may serve concurrent Handle calls.
type Driver struct {
	engine     layout.Engine
	store      Store
	converter  Converter
	sizeFilter SizeFilter
	scope      func(runID string) Store
	open       SourceOpener
	tempRoot   string
	newRunID   func() string
}

// Option configures a Driver.
type Option func(*Driver)

// WithSizeFilter replaces the default figure size filter.
func WithSizeFilter(f SizeFilter) Option {
	return func(d *Driver) { d.sizeFilter = f }
}

// WithRunStore scopes the store per run. scope receives the run ID and
// returns the store the run writes its artifacts to.
func WithRunStore(scope func(runID string) Store) Option {
	return func(d *Driver) { d.scope = scope }
}

// WithSourceOpener replaces how request sources are opened.
func WithSourceOpener(open SourceOpener) Option {
	return func(d *Driver) { d.open = open }
}

// WithTempRoot sets the directory under which run scratch dirs are created.
func WithTempRoot(dir string) Option {
	return func(d *Driver) { d.tempRoot = dir }
}

// WithRunIDs sets the run ID generator.
func WithRunIDs(next func() string) Option {
	return func(d *Driver) { d.newRunID = next }
}

// NewDriver creates a driver from its collaborators.
func NewDriver(engine layout.Engine, store Store, converter Converter, opts ...Option) *Driver {
	d := &Driver{
		engine:     engine,
		store:      store,
		converter:  converter,
		sizeFilter: NewMinSizeFilter(DefaultMinFigureSide),
		open:       OpenSource,
		tempRoot:   os.TempDir(),
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OpenSource opens a PDF or image page source based on the request kind.
func OpenSource(_ context.Context, req Request) (pagesource.Source, error) {
	if req.kind() == KindPDF {
		return pagesource.OpenPDF(req.Source)
	}
	return pagesource.OpenImage(req.Source)
}

// run is the state owned by one Handle call.
type run struct {
	d       *Driver
	id      string
	req     Request
	store   Store
	tempDir string
	log     *logx.Entry
}

// Handle extracts req.Source and returns the aggregate. It never fails:
// every problem is logged and recorded in Aggregate.Failures.
func (d *Driver) Handle(ctx context.Context, req Request) Aggregate {
	r := &run{d: d, id: d.newRunID(), req: req, store: d.store}
	if d.scope != nil {
		r.store = d.scope(r.id)
	}
	r.log = logx.WithFields(logx.Fields{"run_id": r.id, "source": req.Source, "mode": req.Mode})
	agg := newAggregate(r.id)

	r.tempDir = filepath.Join(d.tempRoot, "docextract-"+r.id)
	if err := os.MkdirAll(r.tempDir, 0o700); err != nil {
		r.log.WithError(err).Warn("cannot create run temp dir, using temp root")
		r.tempDir = d.tempRoot
	} else {
		defer os.RemoveAll(r.tempDir)
	}

	src, err := d.open(ctx, req)
	if err != nil {
		r.log.WithError(err).Error("source unreadable")
		agg.Failures = append(agg.Failures, documentFailure(ErrSourceUnreadable, StageSource, err))
		return agg
	}
	defer src.Close()

	for {
		if err := ctx.Err(); err != nil {
			r.log.WithError(err).Warn("extraction cancelled")
			agg.Failures = append(agg.Failures, documentFailure(ErrCancelled, StageSource, err))
			break
		}

		page, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if page == nil {
			r.log.WithError(err).Error("page source failed")
			agg.Failures = append(agg.Failures, documentFailure(ErrPageRenderFailed, StageRender, err))
			break
		}
		agg.PageCount++

		if err != nil || page.Image == nil {
			r.log.WithField("page", page.Index).WithError(err).Error("page could not be rendered, abandoning page")
			f := documentFailure(ErrPageRenderFailed, StageRender, err)
			f.PageNumber = page.Index
			agg.Failures = append(agg.Failures, f)
			continue
		}

		r.processPage(ctx, page.Index, page.Image, &agg)
	}

	r.log.WithFields(logx.Fields{
		"pages":    agg.PageCount,
		"texts":    len(agg.Texts),
		"tables":   len(agg.Tables),
		"failures": len(agg.Failures),
	}).Info("extraction finished")
	return agg
}

func documentFailure(code *errx.ErrorCode, stage string, cause error) Failure {
	reason := code.Message
	if cause != nil {
		reason = cause.Error()
	}
	return Failure{PageNumber: -1, Order: -1, Stage: stage, Code: code.Code, Reason: reason}
}
