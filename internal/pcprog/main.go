// Public domain.

// Package pcprog is the phasecurve command.
package pcprog

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soniakeys/phasecurve/internal/config"
)

const versionString = "phasecurve version 0.1"

func Main() {
	defer exit.Handler()
	log.SetFlags(0)
	log.SetPrefix("phasecurve: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		exit.Log(err)
	}
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"verbose":    "verbose",
	"format":     "input.format",
	"output":     "output.format",
	"de":         "de_file",
	"cache":      "cache.path",
	"obscodes":   "obscodes",
	"family":     "fit.family",
	"simple":     "fit.simple",
	"g0":         "fit.g0",
	"sims":       "fit.simulations",
	"repeatable": "fit.repeatable",
}

// setFlags copies flags given on the command line into v, where they
// override every other source.  Flags not given leave the configured
// values alone.
func setFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "phasecurve",
		Short: "Asteroid phase curve fitting",
		Long: `Phasecurve fits H-G, H-G12, and H-G1-G2 phase curves to asteroid
photometry and computes absolute magnitudes.`,
		Version:       versionString,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default .phasecurve.toml)")
	pf.BoolP("verbose", "v", false, "log progress to stderr")
	pf.String("format", "table", "input format, table or mpc")
	pf.String("output", "text", "output format, text or toml")
	pf.String("de", "", "JPL DE binary ephemeris for Sun-observer distances")
	pf.String("cache", "", "ephemeris cache database")
	pf.String("obscodes", "", "MPC observatory code file")
	pf.String("family", "hg", "phase curve family, hg, hg12, or hg1g2")
	pf.Bool("simple", false, "simple H-G basis functions")
	pf.Float64("g0", 0, "starting or fixed slope parameter")

	fitCmd := &cobra.Command{
		Use:   "fit [file|-]",
		Short: "Fit phase curves",
		Long: `Fit fits a phase curve to the observations of each object.
Objects are fitted concurrently and printed in input order.  Input is
read from the named file, or standard input when the file is "-" or
omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmd(cmd, v, "fit", args)
		},
	}
	fitCmd.Flags().Int("sims", 30, "Monte Carlo repetitions for uncertainties")
	fitCmd.Flags().Bool("repeatable", false, "fixed Monte Carlo seed")

	absCmd := &cobra.Command{
		Use:   "absmag [file|-]",
		Short: "Absolute magnitude of each observation",
		Long: `Absmag computes the absolute magnitude of each observation with
the phase curve family and starting slope parameter.  For MPC input
without --g0 the reference G of the ephemeris service is used with
simple H-G.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmd(cmd, v, "absmag", args)
		},
	}
	root.AddCommand(fitCmd, absCmd)
	return root
}

func runCmd(cmd *cobra.Command, v *viper.Viper, name string, args []string) error {
	setFlags(v, cmd.Flags())
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, file)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	p, err := newProg(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.close()

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return p.run(ctx, name, r, cmd.OutOrStdout())
}
