package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mikey/email-munger/internal/core"
)

var contactSanitize bool

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.Flags().BoolVar(&contactSanitize, "sanitize", false, "Fold the rendered contact to ASCII")
}

var contactCmd = &cobra.Command{
	Use:   "contact <raw>...",
	Short: "Parse From/To/CC values into name and address",
	Long: `Parse raw header values the way the munger does and show the name parts, the
address and the quality flags of each.

Examples:
  mail-munge contact "Smith, John Q <jsmith@example.com>"
  mail-munge contact --sanitize "Müller, Jürgen"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContact,
}

func runContact(cmd *cobra.Command, args []string) error {
	return invoke(func(identity *core.IdentityParser, settings core.Settings) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RAW\tFIRST\tMIDDLE\tLAST\tADDRESS\tREDACTED\tMANGLED\tTOO LONG\tCONTACT")
		for _, raw := range args {
			c := identity.Parse(raw).WithSanitize(contactSanitize)
			fmt.Fprintf(w, "%q\t%s\t%s\t%s\t%s\t%t\t%t\t%t\t%s\n",
				c.Raw(),
				c.Name().First(),
				c.Name().Middle(),
				c.Name().Last(),
				c.EmailAddress().Whole(),
				c.IsRedacted(),
				c.IsMangled(),
				c.ContentLength() > settings.MaxContactLength,
				c.String(),
			)
		}
		return w.Flush()
	})
}
