package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-maker/internal/observability"
	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/suggestions"
)

var (
	templateSaveInput string
	templateSaveName  string
	templateSaveKeep  bool
	templateSaveLearn bool
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage saved CV templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a CV JSON file as a named template and make it active",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesSave,
}

var templatesRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a saved template",
	Args:  cobra.ExactArgs(2),
	RunE:  runTemplatesRename,
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesDelete,
}

var templatesSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Mark a template as active; the server opens it on start",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesSelect,
}

func init() {
	templatesSaveCmd.Flags().StringVarP(&templateSaveInput, "in", "i", "", "Path to CV JSON file (required)")
	templatesSaveCmd.Flags().StringVarP(&templateSaveName, "name", "n", "", "Template name (required)")
	templatesSaveCmd.Flags().BoolVar(&templateSaveKeep, "keep-active", false, "Leave the active template unchanged")
	templatesSaveCmd.Flags().BoolVar(&templateSaveLearn, "learn", false, "Add new field values from the CV to the suggestion store")

	for _, name := range []string{"in", "name"} {
		if err := templatesSaveCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	templatesCmd.AddCommand(templatesListCmd, templatesSaveCmd, templatesRenameCmd, templatesDeleteCmd, templatesSelectCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(contextOrBackground(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(a.templates.List(), a.templates.ActiveID())
	return nil
}

func runTemplatesSave(cmd *cobra.Command, _ []string) error {
	ctx := contextOrBackground(cmd)
	cv, err := schemas.ReadCVFile(templateSaveInput)
	if err != nil {
		return err
	}
	cv.Sections = ordering.Normalize(cv.Sections)

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	candidates := suggestions.FilterNew(suggestions.Extract(cv), a.suggestions)
	previous := a.templates.ActiveID()
	saved, err := a.templates.Save(ctx, templateSaveName, cv)
	if err != nil {
		return err
	}
	if templateSaveKeep {
		a.templates.SetActive(ctx, previous)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Saved template %q (%s)\n", saved.Name, saved.ID)

	printer := observability.NewPrinter(out)
	if templateSaveLearn {
		added := a.suggestions.AddBulk(ctx, candidates)
		_, _ = fmt.Fprintf(out, "Added %d suggestions\n", added)
	} else {
		printer.PrintCandidates(candidates)
	}
	return nil
}

func runTemplatesRename(cmd *cobra.Command, args []string) error {
	ctx := contextOrBackground(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.templates.Rename(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("template not found: %s", args[0])
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed template %s to %q\n", t.ID, t.Name)
	return nil
}

func runTemplatesDelete(cmd *cobra.Command, args []string) error {
	ctx := contextOrBackground(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.templates.Delete(ctx, args[0]) {
		return fmt.Errorf("template not found: %s", args[0])
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted template %s\n", args[0])
	return nil
}

func runTemplatesSelect(cmd *cobra.Command, args []string) error {
	ctx := contextOrBackground(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.templates.SetActive(ctx, args[0]) {
		return fmt.Errorf("template not found: %s", args[0])
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Active template is now %s\n", args[0])
	return nil
}
