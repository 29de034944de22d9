package extract

import (
	"context"
	"fmt"
	"image"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

// pageRun is the state of one page: its counters and its output buffer.
// Nothing reaches the aggregate until the page completes.
type pageRun struct {
	*run
	ctx  context.Context
	page int
	log  *logx.Entry
	out  pageResult
}

func (p *pageRun) fail(code *errx.ErrorCode, stage string, t layout.RegionType, order int, cause error) {
	reason := code.Message
	if cause != nil {
		reason = cause.Error()
	}
	p.out.failures = append(p.out.failures, Failure{
		PageNumber: p.page,
		RegionType: t,
		Order:      order,
		Stage:      stage,
		Code:       code.Code,
		Reason:     reason,
	})
}

// processPage runs the engine on one page image and merges the page's
// records into agg. An engine failure abandons the page: only the failure
// entry is merged.
func (r *run) processPage(ctx context.Context, page int, img image.Image, agg *Aggregate) {
	p := &pageRun{
		run:  r,
		ctx:  ctx,
		page: page,
		log:  r.log.WithField("page", page),
	}

	regions, err := r.detect(ctx, img)
	if err != nil {
		p.log.WithError(err).Error("layout engine failed, abandoning page")
		p.fail(ErrEngineFailed, StageEngine, "", -1, err)
		agg.Failures = append(agg.Failures, p.out.failures...)
		return
	}

	p.process(Order(regions))
	agg.merge(page, &p.out)

	p.log.WithFields(logx.Fields{
		"regions": len(regions),
		"texts":   len(p.out.texts),
		"tables":  len(p.out.tables),
		"images":  len(p.out.images),
	}).Debug("page processed")
}

// detect calls the engine, turning a panic into an error so a crashing
// engine only costs the current page.
func (r *run) detect(ctx context.Context, img image.Image) (regions []layout.Region, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			regions = nil
			err = ErrRegistry.NewWithMessage(ErrEngineFailed, fmt.Sprintf("layout engine panicked: %v", rec))
		}
	}()
	return r.d.engine.Detect(ctx, img, layout.DetectOptions{
		Language:      r.req.Language,
		LayoutEnabled: r.req.LayoutEnabled,
	})
}

func (p *pageRun) process(regions []layout.Region) {
	textOrder, tableOrder := 0, 0

	for i, region := range regions {
		d := Route(region.Type, p.req.Mode)
		if d.Skip() {
			continue
		}

		if d.Coordinates {
			p.out.coords = append(p.out.coords, CoordinateRecord{
				PageNumber: p.page,
				Type:       region.Type,
				BBox:       region.BBox.Array(),
			})
		}

		if d.Figure && p.d.sizeFilter.Passes(region.Crop) {
			p.persistFigure(region, i)
		}

		if d.Text {
			p.out.texts = append(p.out.texts, TextRecord{
				PageNumber: p.page,
				Order:      textOrder,
				Content:    AssembleText(region.Fragments()),
			})
			textOrder++
		}

		if d.Table {
			if rec, ok := p.materializeTable(region, tableOrder); ok {
				p.out.tables = append(p.out.tables, rec)
				tableOrder++
			}
		}
	}
}
