package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/suggestions"
	"github.com/jonathan/cv-maker/internal/types"
)

var (
	suggestionsFieldType   string
	suggestionsSectionType string
	suggestionsInput       string
	suggestionsConfirm     bool
)

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "Manage remembered field values",
}

var suggestionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suggestions, ranked when a field is given",
	Args:  cobra.NoArgs,
	RunE:  runSuggestionsList,
}

var suggestionsAddCmd = &cobra.Command{
	Use:   "add <value>",
	Short: "Record one use of a value for a field",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestionsAdd,
}

var suggestionsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a suggestion",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggestionsRemove,
}

var suggestionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every suggestion",
	Args:  cobra.NoArgs,
	RunE:  runSuggestionsClear,
}

var suggestionsExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Show values in a CV that are not yet remembered",
	Args:  cobra.NoArgs,
	RunE:  runSuggestionsExtract,
}

func init() {
	for _, c := range []*cobra.Command{suggestionsListCmd, suggestionsAddCmd} {
		c.Flags().StringVar(&suggestionsFieldType, "field", "", "Field type, e.g. company, role, email")
		c.Flags().StringVar(&suggestionsSectionType, "section", "", "Section type: header, experience, education, skills, summary")
	}
	for _, name := range []string{"field", "section"} {
		if err := suggestionsAddCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	suggestionsExtractCmd.Flags().StringVarP(&suggestionsInput, "in", "i", "", "Path to CV JSON file (required)")
	suggestionsExtractCmd.Flags().BoolVar(&suggestionsConfirm, "confirm", false, "Add the new values to the store")
	if err := suggestionsExtractCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	suggestionsCmd.AddCommand(suggestionsListCmd, suggestionsAddCmd, suggestionsRemoveCmd, suggestionsClearCmd, suggestionsExtractCmd)
	rootCmd.AddCommand(suggestionsCmd)
}

var suggestionSections = []types.SectionType{
	types.SectionHeader,
	types.SectionExperience,
	types.SectionEducation,
	types.SectionSkills,
	types.SectionSummary,
}

func parseSuggestionSection(s string) (types.SectionType, error) {
	for _, t := range suggestionSections {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid section %q: must be one of header, experience, education, skills, summary", s)
}

func runSuggestionsList(cmd *cobra.Command, _ []string) error {
	if (suggestionsFieldType == "") != (suggestionsSectionType == "") {
		return fmt.Errorf("--field and --section must be given together")
	}

	a, err := openApp(contextOrBackground(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.suggestions.All()
	if suggestionsFieldType != "" {
		section, err := parseSuggestionSection(suggestionsSectionType)
		if err != nil {
			return err
		}
		list = a.suggestions.ForField(suggestionsFieldType, section)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSuggestions(list)
	return nil
}

func runSuggestionsAdd(cmd *cobra.Command, args []string) error {
	section, err := parseSuggestionSection(suggestionsSectionType)
	if err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("value must not be blank")
	}

	ctx := contextOrBackground(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, _ := a.suggestions.Add(ctx, args[0], suggestionsFieldType, section)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %q (%s/%s, used %d×)\n", s.Value, s.SectionType, s.FieldType, s.UseCount())
	return nil
}

func runSuggestionsRemove(cmd *cobra.Command, args []string) error {
	ctx := contextOrBackground(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.suggestions.Remove(ctx, args[0]) {
		return fmt.Errorf("suggestion not found: %s", args[0])
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed suggestion %s\n", args[0])
	return nil
}

func runSuggestionsClear(cmd *cobra.Command, _ []string) error {
	ctx := contextOrBackground(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	n := a.suggestions.Count()
	a.suggestions.Clear(ctx)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d suggestions\n", n)
	return nil
}

func runSuggestionsExtract(cmd *cobra.Command, _ []string) error {
	cv, err := schemas.ReadCVFile(suggestionsInput)
	if err != nil {
		return err
	}

	ctx := contextOrBackground(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	candidates := suggestions.FilterNew(suggestions.Extract(cv), a.suggestions)
	observability.NewPrinter(cmd.OutOrStdout()).PrintCandidates(candidates)
	if suggestionsConfirm && len(candidates) > 0 {
		n := a.suggestions.AddBulk(ctx, candidates)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d suggestions\n", n)
	}
	return nil
}
