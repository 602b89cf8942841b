package cmd

import "testing"

func TestOutputFlagIsShared(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("output")
	if f == nil {
		t.Fatal("root command missing persistent output flag")
	}
	if f.Shorthand != "o" {
		t.Errorf("output shorthand = %q, want o", f.Shorthand)
	}

	// No subcommand may register its own output flag; every command goes
	// through the one format mechanism.
	for _, sub := range rootCmd.Commands() {
		if sub.Flags().Lookup("output") != nil {
			t.Errorf("%s registers a local output flag shadowing the root one", sub.Name())
		}
	}
}
