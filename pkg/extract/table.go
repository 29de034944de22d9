package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Abraxas-365/docextract/pkg/fsx"
	"github.com/Abraxas-365/docextract/pkg/layout"
	"github.com/Abraxas-365/docextract/pkg/logx"
	"github.com/Abraxas-365/docextract/pkg/ptrx"
)

// tempName is the deterministic scratch name of one table artifact.
func (r *run) tempName(page, order int, ext string) string {
	return filepath.Join(r.tempDir, fmt.Sprintf("%s_%d_%d%s", r.id, page, order, ext))
}

// materializeTable converts and persists one table region. It reports false
// when the region carries no markup, in which case nothing is emitted and
// the table counter must not advance.
func (p *pageRun) materializeTable(region layout.Region, order int) (TableRecord, bool) {
	log := p.log.WithFields(logx.Fields{"region_type": region.Type, "order": order})

	html, ok := region.TableHTML()
	if !ok {
		log.Warn("table region has no markup, skipping")
		p.fail(ErrTableMarkupMissing, StageTableMarkup, region.Type, order, nil)
		return TableRecord{}, false
	}

	key := fmt.Sprintf("%d_%d", p.page, order)
	rec := TableRecord{PageNumber: p.page, Order: order}
	rec.ContentLink = p.tableContent(html, key, order)

	if region.Crop != nil {
		rec.ImageLink = p.store.PersistImage(p.ctx, region.Crop, ".png", key, "tables")
		if rec.ImageLink == nil {
			log.Warn("table image could not be persisted")
			p.fail(ErrPersistFailed, StageTableImage, region.Type, order, nil)
		}
	}

	log.WithField("content_link", ptrx.StringValue(rec.ContentLink)).Debug("table materialized")
	return rec, true
}

// tableContent writes the markup to a scratch file, converts it and
// persists the spreadsheet. Both temp files are removed on every path.
func (p *pageRun) tableContent(html, key string, order int) *string {
	src := p.run.tempName(p.page, order, ".html")
	dst := p.run.tempName(p.page, order, ".xlsx")
	defer os.Remove(src)
	defer os.Remove(dst)

	log := p.log.WithFields(logx.Fields{"region_type": layout.RegionTable, "order": order})

	if err := os.WriteFile(src, []byte(html), 0o600); err != nil {
		log.WithError(err).Error("failed to write table scratch file")
		p.fail(ErrConversionFailed, StageTableConvert, layout.RegionTable, order, err)
		return nil
	}
	if err := p.d.converter.Convert(p.ctx, src, dst); err != nil {
		log.WithError(err).Error("table conversion failed")
		p.fail(ErrConversionFailed, StageTableConvert, layout.RegionTable, order, err)
		return nil
	}

	link := p.store.PersistFile(p.ctx, dst, key, "xlsx", fsx.ContentTypeXLSX)
	if link == nil {
		log.Warn("table spreadsheet could not be persisted")
		p.fail(ErrPersistFailed, StageTablePersist, layout.RegionTable, order, nil)
	}
	return link
}
