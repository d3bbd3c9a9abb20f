package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/campus-ops/nudge-cli/internal/nudge"
)

var nudgesEmail string

var nudgesCmd = &cobra.Command{
	Use:   "nudges",
	Short: "List recorded nudge history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initNudgeStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var histories []nudge.History
		if nudgesEmail != "" {
			h, err := st.Get(ctx, nudgesEmail)
			if err != nil {
				return err
			}
			if h != nil {
				histories = append(histories, *h)
			}
		} else {
			histories, err = st.List(ctx)
			if err != nil {
				return err
			}
		}
		if len(histories) == 0 {
			fmt.Println("no nudges recorded")
			return nil
		}

		policy := nudge.NewPolicy(cfg.Nudge.MaxLevel, cfg.Nudge.CooldownDays)
		now := time.Now()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tNAME\tCOUNT\tLAST NUDGE\tNEXT LEVEL\tCAN SEND")
		for _, h := range histories {
			level, _, canSend := policy.Next(&h, now)
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%t\n",
				h.Email, h.Name, h.Count, h.LastNudge.Format("2006-01-02 15:04"), level, canSend)
		}
		return w.Flush()
	},
}

func init() {
	nudgesCmd.Flags().StringVar(&nudgesEmail, "email", "", "show history for one address only")
	rootCmd.AddCommand(nudgesCmd)
}
