package extract

import (
	"fmt"

	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

// persistFigure stores a figure crop that passed the size filter. index is
// the region's position in reading order on the page.
func (p *pageRun) persistFigure(region layout.Region, index int) {
	key := fmt.Sprintf("%d_%d", p.page, index)
	link := p.store.PersistImage(p.ctx, region.Crop, ".png", key, "images")
	if link == nil {
		p.log.WithFields(logx.Fields{"region_type": region.Type, "index": index}).
			Warn("figure could not be persisted")
		p.fail(ErrPersistFailed, StageFigure, region.Type, index, nil)
		return
	}
	p.out.images = append(p.out.images, *link)
}
