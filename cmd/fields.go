package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campus-ops/nudge-cli/internal/model"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Show the canonical fields, which are mandatory, and their header aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := initRegistry()
		if err != nil {
			return err
		}

		mandatory := make(map[model.CanonicalField]bool)
		for _, f := range registry.Mandatory() {
			mandatory[f] = true
		}

		aliasesByField := make(map[model.CanonicalField][]string)
		for alias, f := range registry.Aliases() {
			aliasesByField[f] = append(aliasesByField[f], alias)
		}
		for _, aliases := range aliasesByField {
			sort.Strings(aliases)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tMANDATORY\tACCEPTED HEADERS")
		for _, f := range model.AllFields() {
			fmt.Fprintf(w, "%s\t%t\t%s\n", f, mandatory[f], strings.Join(aliasesByField[f], ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
