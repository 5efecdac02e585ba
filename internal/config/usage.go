package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/hypercalc/internal/ui"
)

// setCustomUsage installs a coloured usage printer on fs.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}
		out := fs.Output()

		fmt.Fprintf(out, "\n%sHyperoperation Calculator%s\n", t.Bold, t.Reset)
		fmt.Fprintf(out, "Evaluates a %s↑^n%s b in Knuth's up-arrow notation.\n\n", t.Info, t.Reset)
		fmt.Fprintf(out, "%sUsage:%s\n  %s [flags]\n\n%sFlags:%s\n", t.Warning, t.Reset, fs.Name(), t.Warning, t.Reset)

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			sig := "-" + f.Name
			if name != "" {
				sig += " " + name
			}
			fmt.Fprintf(out, "  %s%-22s%s %s", t.Primary, sig, t.Reset, usage)
			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\nEnvironment variables use the %s prefix (e.g. %sBACKEND=all).\n\n", EnvPrefix, EnvPrefix)
	}
}
