package l2res

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"
)

// Output is the product of one Run.
type Output struct {
	PlotDir  string
	MC, Data Sample
	Options  Options
	Table    *Table
	Results  *Results
}

// Run fills or loads the asymmetry table and extracts the responses. Both
// steps are cached under the plot directory and reused unless
// opts.Overwrite is set. Configuration errors are reported before any
// file is read.
func Run(ctx context.Context, cfg *Config, opts Options, logger *slog.Logger) (*Output, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	triggers, err := LookupTriggers(opts.Triggers)
	if err != nil {
		return nil, err
	}
	data, err := cfg.DataSample(opts.Era)
	if err != nil {
		return nil, err
	}
	binning, err := NewBinning(opts.PtThresholds)
	if err != nil {
		return nil, err
	}
	mc := cfg.MC
	if opts.Small {
		mc.Files = mc.Files[:1]
		data.Files = data.Files[:1]
	}

	out := &Output{
		PlotDir: opts.PlotDir(cfg.PlotDirectory),
		MC:      mc,
		Data:    data,
		Options: opts,
	}
	logger.Info("plot directory", "path", out.PlotDir)

	rawPath := filepath.Join(out.PlotDir, RawCacheName)
	if Exists(rawPath) && !opts.Overwrite {
		out.Table, err = LoadTable(rawPath, binning)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded", "path", rawPath, "bins", out.Table.Len())
	} else {
		out.Table = NewTable(binning)
		sel := opts.Selection()
		reader := SkimReader{Tree: cfg.Tree, JER: opts.JERPostfix()}
		if _, err := out.Table.FillSample(ctx, reader, mc, sel, opts.PtBinningVar, logger); err != nil {
			return nil, err
		}

		reader.Triggers = triggers.Branches()
		dataSel := append(sel[:len(sel):len(sel)], triggers.TriggerCut(opts.JERPostfix()))
		if _, err := out.Table.FillSample(ctx, reader, data, dataSel, opts.PtBinningVar, logger); err != nil {
			return nil, err
		}

		if err := SaveTable(out.Table, rawPath); err != nil {
			return nil, err
		}
		logger.Info("written", "path", rawPath, "bins", out.Table.Len())
	}

	resultPath := filepath.Join(out.PlotDir, ResultCacheName(opts.Mode()))
	if Exists(resultPath) && !opts.Overwrite {
		out.Results, err = LoadResults(resultPath)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded response results", "path", resultPath, "bins", len(out.Results.Responses))
		return out, nil
	}

	var fitter *Fitter
	if opts.UseFit {
		fitter = &Fitter{PlotDir: filepath.Join(out.PlotDir, "fit")}
	}
	out.Results, err = Extract(ctx, out.Table, opts.Mode(), fitter, logger)
	if err != nil {
		return nil, errors.Wrap(err, "extract responses")
	}
	if err := SaveResults(out.Results, resultPath); err != nil {
		return nil, err
	}
	logger.Info("written response results", "path", resultPath)
	return out, nil
}
