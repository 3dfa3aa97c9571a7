// Command clockplan evaluates, simulates and inspects STM32 clock tree
// configurations on a host.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clocktree-go/clocks"
	"clocktree-go/profile"
)

type rootOpts struct {
	family  string
	profile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	cmd := &cobra.Command{
		Use:           "clockplan",
		Short:         "Plan STM32 clock trees",
		Long:          "Evaluate, simulate and inspect RCC clock tree configurations for STM32 L4, L5, G0 and G4 parts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.family, "family", "f", "l4", "mcu family (l4, l5, g0, g4)")
	cmd.PersistentFlags().StringVarP(&opts.profile, "profile", "p", "", "builtin profile name or YAML file")

	cmd.AddCommand(
		newFamiliesCmd(),
		newProfilesCmd(),
		newFreqsCmd(opts),
		newValidateCmd(opts),
		newPlanCmd(opts),
		newInspectCmd(opts),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "clockplan:", err)
		os.Exit(1)
	}
}

// ---------------- shared helpers ----------------

func (o *rootOpts) familyDesc() (*clocks.Family, error) {
	fam, ok := clocks.FamilyByName(strings.ToLower(o.family))
	if !ok {
		return nil, fmt.Errorf("unknown family %q", o.family)
	}
	return fam, nil
}

// config resolves --profile (file first, then builtin) or falls back to
// the family default.
func (o *rootOpts) config() (clocks.Config, error) {
	fam, err := o.familyDesc()
	if err != nil {
		return clocks.Config{}, err
	}
	if o.profile == "" {
		return clocks.Default(fam), nil
	}
	f, err := os.Open(o.profile)
	if err != nil {
		if os.IsNotExist(err) {
			return profile.Builtin(o.profile)
		}
		return clocks.Config{}, err
	}
	defer f.Close()
	return profile.Load(f, fam)
}

func mhz(hz uint32) string {
	return fmt.Sprintf("%d.%03d MHz", hz/1_000_000, hz%1_000_000/1_000)
}
