package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mikey/email-munger/internal/core"
)

var (
	profilesAll    bool
	profilesLookup []string
)

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.Flags().BoolVar(&profilesAll, "all", false, "Harvest every To/CC recipient, not only the first")
	profilesCmd.Flags().StringVar(&flags.Strategy, "strategy", "", "Merge strategy: best_first or union_find (default: from config)")
	profilesCmd.Flags().StringArrayVar(&profilesLookup, "lookup", nil, "Find the profile a raw contact belongs to (repeatable)")
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Cluster the corpus contacts into profiles",
	Long: `Harvest the contacts of every document in the corpus, cluster them and print
the resulting profiles as YAML. With --lookup only the matching profiles are printed.

Examples:
  mail-munge profiles --location dump/
  mail-munge profiles --location dump/ --lookup "jsmith@example.com"`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

type lookupResult struct {
	Contact string               `yaml:"contact"`
	Profile *core.ProfileSummary `yaml:"profile"`
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	return invoke(func(
		corpus *core.Corpus,
		identity *core.IdentityParser,
		settings core.Settings,
		options core.ServiceOptions,
		logger *zap.Logger,
	) error {
		defer syncLogger(logger)

		pull := corpus.PullContacts
		if profilesAll {
			pull = corpus.PullAllContacts
		}
		contacts, err := pull(cmd.Context())
		if err != nil {
			return err
		}
		if len(contacts) == 0 {
			return fmt.Errorf("no contacts harvested: %w", core.ErrEmptyCorpus)
		}

		clusterer := core.NewClusterer(settings, options.Strategy, logger)
		profiles := clusterer.Build(contacts)

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()

		if len(profilesLookup) == 0 {
			summaries := make([]core.ProfileSummary, len(profiles))
			for i, p := range profiles {
				summaries[i] = p.Summary()
			}
			return enc.Encode(summaries)
		}

		results := make([]lookupResult, len(profilesLookup))
		for i, raw := range profilesLookup {
			results[i].Contact = raw
			if p := clusterer.Lookup(identity.Parse(raw)); p != nil {
				summary := p.Summary()
				results[i].Profile = &summary
			}
		}
		return enc.Encode(results)
	})
}
