package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/krisk248/flowmode/internal/config"
)

var (
	initForce bool

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the config file interactively",
		Long: `Walk through the initial setup: sampling interval, idle timeout,
and API address, then write the config with a starter whitelist you
can edit by hand afterwards.`,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.Default()
	poll := strconv.Itoa(cfg.PollIntervalSecs)
	idle := strconv.Itoa(cfg.IdleTimeoutSecs)
	addr := cfg.ListenAddr
	confirmed := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Poll interval (seconds)").
				Description("How often the focused window is sampled").
				Value(&poll).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Idle timeout (seconds)").
				Description("Stop recording after this much inactivity").
				Value(&idle).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("API address").
				Description("Where the daemon serves its local API").
				Value(&addr),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Write config with the starter whitelist?").
				Description("Brave, Firefox, Teams, Ghostty, VS Code, Obsidian, OnlyOffice, Dolphin").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	cfg.PollIntervalSecs, _ = strconv.Atoi(poll)
	cfg.IdleTimeoutSecs, _ = strconv.Atoi(idle)
	cfg.ListenAddr = addr
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("✓ Config written to %s\n", path)
	fmt.Println("\nEdit the rules there to track your own applications, then run 'flowmode start'.")
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}
