package pipeline

import (
	"context"
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/robinjoseph08/golib/logger"
)

// Remove deletes the records whose name has the same slug as one of names.
// Aliases aren't followed.
func (p *Pipeline) Remove(ctx context.Context, names []string, dryRun bool) (*Report, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"mode": string(ModeRemove)})
	report := newReport(ModeRemove, dryRun)

	clean := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	if len(clean) == 0 {
		return nil, errcodes.MissingArgument("names")
	}

	doc, err := p.readCatalog(false)
	if err != nil {
		return nil, err
	}

	for _, name := range clean {
		if doc.Remove(name) > 0 {
			report.Removed = append(report.Removed, name)
			continue
		}
		report.NotFound = append(report.NotFound, name)
		report.warn(log, "Model not found in dataset: "+name)
	}

	if len(report.Removed) > 0 {
		if err := p.write(ctx, report, p.cfg.CatalogFile, doc.String()); err != nil {
			return nil, err
		}
	}

	log.Info("remove finished", report.Data())
	return report, nil
}
