package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/config"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an uplift configuration file",
		Long: `Generate a documented uplift configuration file with sensible defaults.

By default, creates uplift.yaml in the current directory. Use --interactive
for a guided setup wizard.

Examples:
  # Create uplift.yaml in current directory
  uplift init

  # Custom output path
  uplift init --config custom.yaml

  # Overwrite existing file
  uplift init --force

  # Interactive setup wizard
  uplift init --interactive
  uplift init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", "uplift.yaml",
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	target := domain.TargetWeb
	strictness := config.StrictnessStandard

	if interactive {
		var err error
		target, strictness, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content, err := config.GenerateTemplate(target, strictness)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'uplift analyze .' to assess your components.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (domain.TargetPlatform, config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("uplift Configuration Setup")
	fmt.Println("==========================")
	fmt.Println()

	targets := []struct {
		Label       string
		Description string
		Value       domain.TargetPlatform
	}{
		{"Web", "Migrate components onto the web target", domain.TargetWeb},
		{"Native", "Migrate components onto the native target", domain.TargetNative},
	}

	targetTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	targetPrompt := promptui.Select{
		Label:     "Which platform are you migrating to?",
		Items:     targets,
		Templates: targetTemplates,
	}

	targetIdx, _, err := targetPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("target selection cancelled: %w", err)
	}
	selectedTarget := targets[targetIdx].Value

	fmt.Println()

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Balanced readiness threshold for most codebases", config.StrictnessStandard},
		{"Relaxed", "Lower threshold, larger roadmap phases", config.StrictnessRelaxed},
		{"Strict", "Higher threshold, small careful phases", config.StrictnessStrict},
	}

	strictnessTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the readiness scoring be?",
		Items:     strictnessLevels,
		Templates: strictnessTemplates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}
	selectedStrictness := strictnessLevels[strictnessIdx].Value

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedTarget, selectedStrictness, outputPath, nil
}
