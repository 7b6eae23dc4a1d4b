// Command l2res_results extracts the relative (L2res) jet response of data
// and simulation from dijet skims and plots it versus pT and eta.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	jetmet "github.com/hatakeyamak/JetMET"
	"github.com/hatakeyamak/JetMET/l2res"
)

var (
	configPath string
	opts       = l2res.DefaultOptions()
	ptThresh   = &jetmet.FloatArrayFlags{Array: l2res.PtAvgThresholds}
	logFile    string

	era          = jetmet.NewChoice(opts.Era, l2res.Eras...)
	triggers     = jetmet.NewChoice(opts.Triggers, l2res.TriggerSuiteNames()...)
	ptBinningVar = jetmet.NewChoice(string(opts.PtBinningVar), l2res.PtBinningVars...)
	jer          = jetmet.NewChoice(opts.JER, l2res.JERVariations...)
	logLevel     = jetmet.NewChoice("INFO", jetmet.LogLevels...)
)

var rootCmd = &cobra.Command{
	Use:   "l2res_results",
	Short: "Relative jet response from dijet balance",
	Long: `Fill the symmetric dijet asymmetries A (pT balance) and B (MPF) of the
configured simulation and data skims in bins of probe eta and pT, convert
their mean (or Gaussian fitted) value into a response and plot the
response curves. The filled histograms and the responses are cached in
the plot directory and reused unless --overwrite is given.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "l2res.yaml", "YAML file listing the samples")
	flags.Var(era, "era", "data era")
	flags.Var(triggers, "triggers", "trigger suite")
	flags.Var(ptBinningVar, "ptBinningVar", "pT binning variable (ave, tag)")
	flags.Float64Var(&opts.PhEF, "phEF", opts.PhEF, "maximum photon energy fraction of the probe jet (<=0: no cut)")
	flags.Float64Var(&opts.Alpha, "alpha", opts.Alpha, "maximum alpha")
	flags.BoolVar(&opts.Small, "small", false, "run on the first file of each sample")
	flags.BoolVar(&opts.Cleaned, "cleaned", opts.Cleaned, "apply the jet cleaning")
	flags.Var(jer, "jer", "JER variation")
	flags.BoolVar(&opts.MakeResponsePlots, "makeResponsePlots", false, "draw the asymmetry distributions")
	flags.BoolVar(&opts.Overwrite, "overwrite", false, "ignore cached results")
	flags.BoolVar(&opts.UseFit, "useFit", false, "take the mean from a Gaussian fit")
	flags.BoolVar(&opts.METOverSumET, "metOverSumET", false, "cut on MET over sum ET")
	flags.StringVar(&opts.PlotDirectory, "plot_directory", opts.PlotDirectory, "sub directory of the plots")
	flags.Var(ptThresh, "pt-thresholds", "pT bin edges (repeatable, comma separated)")
	flags.Var(logLevel, "log-level", "log level")
	flags.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
}

func run(cmd *cobra.Command, args []string) error {
	level, err := jetmet.ParseLogLevel(logLevel.Value)
	if err != nil {
		return err
	}
	logger, closeLog, err := jetmet.SetupLogger(logFile, level)
	if err != nil {
		return err
	}
	defer closeLog()

	opts.Era = era.Value
	opts.Triggers = triggers.Value
	opts.PtBinningVar = l2res.PtVar(ptBinningVar.Value)
	opts.JER = jer.Value
	opts.PtThresholds = ptThresh.Array

	cfg, err := l2res.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, err := l2res.Run(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}
	if err := out.PlotResponses(logger); err != nil {
		return err
	}
	if opts.MakeResponsePlots {
		return out.PlotShapes(logger)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "l2res_results:", err)
		os.Exit(1)
	}
}
