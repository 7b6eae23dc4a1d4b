// Command jetresponse_val matches the jets of two reconstructions of the
// same events and plots the ratio of their transverse momenta.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	jetmet "github.com/hatakeyamak/JetMET"
	"github.com/hatakeyamak/JetMET/event"
	"github.com/hatakeyamak/JetMET/match"
)

var (
	plan0List      string
	plan1List      string
	prefix         string
	basenamePrefix string
	veto           []string
	maxFiles       int
	maxEvents      int
	ptThreshold    float64
	plan1Ref       bool
	samplePrefix   string
	tree           string
	plotDirectory  string
	logFile        string
	cpuProfile     string

	format   = jetmet.NewChoice("root", event.Formats...)
	logLevel = jetmet.NewChoice("INFO", jetmet.LogLevels...)
)

var rootCmd = &cobra.Command{
	Use:   "jetresponse_val",
	Short: "Jet-by-jet response comparison of two reconstructions",
	Long: `Align the events of a reference (plan0) and an updated (plan1)
reconstruction by event number and input file, match their jets and plot
the pT ratio update/ref versus eta, phi and pT together with the MET
correlation.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&plan0List, "plan0-list", "QCD4PF_noPU_ref.txt", "file list of the reference reconstruction")
	flags.StringVar(&plan1List, "plan1-list", "QCD4PF_noPU_update.txt", "file list of the updated reconstruction")
	flags.StringVar(&prefix, "prefix", "root://kodiak-se.baylor.edu/", "prefix prepended to every listed file")
	flags.StringVar(&basenamePrefix, "basename-prefix", "step3_", "keep files whose base name starts with this")
	flags.StringSliceVar(&veto, "veto", []string{"step3_800.root"}, "drop files containing any of these")
	flags.IntVar(&maxFiles, "max-files", 50, "maximum number of files per reconstruction (<=0: all)")
	flags.IntVar(&maxEvents, "max-events", -1, "maximum number of events indexed per reconstruction (<=0: all)")
	flags.Float64Var(&ptThreshold, "pt-threshold", 10, "minimum pT of the reference jet")
	flags.BoolVar(&plan1Ref, "plan1-ref", false, "take the updated jet as reference coordinate")
	flags.StringVar(&samplePrefix, "sample-prefix", "qcd4pf_new_", "sample tag in the output names")
	flags.Var(format, "format", "input format (root, lcio, proio)")
	flags.StringVar(&tree, "tree", "", "tree (root) or jet collection (lcio, proio); empty for the format default")
	flags.StringVar(&plotDirectory, "plot-directory", "plots", "output directory")
	flags.Var(logLevel, "log-level", "log level")
	flags.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this directory")
}

func openStream(name, list string) (*event.FileStream, error) {
	files, err := event.LoadFileList(list, event.ListOptions{
		Prefix:         prefix,
		BasenamePrefix: basenamePrefix,
		Veto:           veto,
		MaxFiles:       maxFiles,
	})
	if err != nil {
		return nil, err
	}
	return event.Open(name, format.Value, tree, files)
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

	if cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet).Stop()
	}

	ref, err := openStream("plan0", plan0List)
	if err != nil {
		return errors.Wrap(err, "plan0")
	}
	defer ref.Close()
	update, err := openStream("plan1", plan1List)
	if err != nil {
		return errors.Wrap(err, "plan1")
	}
	defer update.Close()
	logger.Info("input", "plan0", len(ref.Files()), "plan1", len(update.Files()), "format", format.Value)

	opts := match.DefaultOptions()
	opts.PtThreshold = ptThreshold
	opts.Plan1Ref = plan1Ref

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	resp, err := match.Run(ctx, update, ref, opts, maxEvents, logger)
	if err != nil {
		return err
	}

	plotPrefix := match.PlotPrefix(samplePrefix, opts, update.Name(), maxEvents)
	if err := resp.Plot(plotDirectory, plotPrefix); err != nil {
		return err
	}
	logger.Info("plots written", "directory", plotDirectory, "prefix", plotPrefix)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "jetresponse_val:", err)
		os.Exit(1)
	}
}
