package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hsnkilic/ProofVid/internal/app"
	"github.com/hsnkilic/ProofVid/internal/config"
	"github.com/hsnkilic/ProofVid/internal/provid"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp(ctx context.Context) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(ctx, cfg, uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "proofvid",
	Short: "Video provenance recorder and registry client",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		authority, _ := cmd.Flags().GetString("authority")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(authority, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Authority: %s\n", cfg.Authority.URL)
		fmt.Printf("Device:    %s\n", cfg.DeviceInfo)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Authority: %s\n", cfg.Authority.URL)
		fmt.Printf("Device:    %s\n", cfg.DeviceInfo)
		fmt.Printf("Platform:  %s\n", cfg.Platform)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Ledger:    %s\n", cfg.Ledger.Type)
		fmt.Printf("Library:   %s\n", cfg.Library.Type)
		return nil
	},
}

// record command
var recordCmd = &cobra.Command{
	Use:   "record SOURCE_VIDEO",
	Short: "Record a video and register its fingerprint",
	Long: `Record runs a capture session sourced from SOURCE_VIDEO, fingerprints the
capture, registers the fingerprint with the authority, and appends the
certificate to the local ledger. Stop the session with Ctrl-C or let it run
out via --duration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, _ := cmd.Flags().GetInt("duration")

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		stopCh := make(chan struct{})
		go func() {
			defer close(stopCh)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt)
			defer signal.Stop(sig)

			if duration > 0 {
				select {
				case <-sig:
				case <-time.After(time.Duration(duration) * time.Second):
				}
				return
			}
			<-sig
		}()

		fmt.Println("Recording... press Ctrl-C to stop.")
		attempt, err := a.RecordAndRegister(ctx, args[0], func(elapsed int) {
			fmt.Printf("\r%s", provid.FormatElapsed(elapsed))
		}, stopCh)
		fmt.Println()
		if err != nil {
			return err
		}

		if attempt.Err != nil {
			var dup *provid.AlreadyRegisteredError
			if errors.As(attempt.Err, &dup) {
				return fmt.Errorf("this video is already registered (hash %s)", dup.Fingerprint)
			}
			return fmt.Errorf("recording attempt failed: %w", attempt.Err)
		}

		r := attempt.Record
		fmt.Printf("Authenticated.\n")
		fmt.Printf("Certificate: %s\n", r.CertificateID)
		fmt.Printf("Hash:        %s\n", r.Hash)
		fmt.Printf("Stored at:   %s\n", r.LibraryURI)
		return nil
	},
}

// authenticate command
var authenticateCmd = &cobra.Command{
	Use:   "authenticate FILE",
	Short: "Register an already-captured video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		record, err := a.AuthenticateFile(ctx, args[0])
		if err != nil {
			var dup *provid.AlreadyRegisteredError
			if errors.As(err, &dup) {
				return fmt.Errorf("this video is already registered (hash %s)", dup.Fingerprint)
			}
			return err
		}

		fmt.Printf("Certificate: %s\n", record.CertificateID)
		fmt.Printf("Hash:        %s\n", record.Hash)
		fmt.Printf("Stored at:   %s\n", record.LibraryURI)
		return nil
	},
}

// recordings command
var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "Manage authenticated recordings",
}

var recordingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authenticated recordings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		views, err := a.ListRecordings()
		if err != nil {
			return err
		}

		if len(views) == 0 {
			fmt.Println("No recordings.")
			return nil
		}

		for _, v := range views {
			r := v.Record
			thumb := "-"
			if v.HasThumb {
				thumb = v.Thumbnail
			}
			fmt.Printf("%s  %s  %-20s  %s\n", r.Timestamp, r.CertificateID, r.DeviceInfo, r.Key())
			fmt.Printf("    hash:  %s\n", r.Hash)
			fmt.Printf("    video: %s\n", r.LibraryURI)
			fmt.Printf("    thumb: %s\n", thumb)
		}
		return nil
	},
}

var recordingsRemoveCmd = &cobra.Command{
	Use:   "remove KEY",
	Short: "Remove a recording from the local ledger",
	Long: `Remove deletes the ledger entry whose key (capture URI) matches KEY.
The certificate at the authority is unaffected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if !force {
			ok, err := confirm(fmt.Sprintf("Remove recording %s from the local ledger?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveRecording(args[0]); err != nil {
			return fmt.Errorf("removing recording: %w", err)
		}

		fmt.Println("Removed.")
		return nil
	},
}

// confirm prompts for a yes/no answer on the terminal. Non-interactive
// stdin requires --force.
func confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal; use --force to skip confirmation")
	}

	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("authority", "http://localhost:5000", "Registration authority base URL")

	// recordings subcommands
	recordingsCmd.AddCommand(recordingsListCmd)
	recordingsCmd.AddCommand(recordingsRemoveCmd)
	recordingsRemoveCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().IntP("duration", "d", 0, "Stop recording automatically after this many seconds")
	rootCmd.AddCommand(authenticateCmd)
	rootCmd.AddCommand(recordingsCmd)
}
