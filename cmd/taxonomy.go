package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/jobcoach/internal/skills"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the loaded occupation taxonomy",
	Run: func(cmd *cobra.Command, _ []string) {
		inspectTaxonomy(cmd)
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)

	taxonomyCmd.Flags().StringP("occupation", "o", "", "print the skills of one occupation")
	taxonomyCmd.Flags().StringP("query", "q", "", "print the occupation a query maps to")
}

func inspectTaxonomy(cmd *cobra.Command) {
	e := setup()
	t := e.loadTaxonomy()
	out := cmd.OutOrStdout()

	occupation, _ := cmd.Flags().GetString("occupation")
	query, _ := cmd.Flags().GetString("query")

	switch {
	case occupation != "":
		found := t.Skills(strings.ToLower(strings.TrimSpace(occupation)))
		if len(found) == 0 {
			fmt.Fprintf(out, "no skills for occupation %q\n", occupation)
			return
		}
		fmt.Fprintln(out, strings.Join(found, "\n"))
	case query != "":
		extractor := skills.New(t, e.topSkills())
		occ, ok := extractor.Occupation(query, nil)
		if !ok {
			fmt.Fprintf(out, "no occupation matches %q\n", query)
			return
		}
		fmt.Fprintf(out, "%s: %s\n", occ, strings.Join(t.Skills(occ), ", "))
	default:
		fmt.Fprintf(out, "%d occupations, %d skills\n", t.Len(), len(t.SkillSet()))
		for _, entry := range t.Entries() {
			fmt.Fprintf(out, "%s (%d)\n", entry.Occupation, len(entry.Skills))
		}
	}
}
