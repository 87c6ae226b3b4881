package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassphrase prompts on the terminal without echo. QUIRE_PASSPHRASE
// takes precedence, and a non-terminal stdin is read as one line.
func readPassphrase(prompt string) (string, error) {
	if p := os.Getenv("QUIRE_PASSPHRASE"); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage backup encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the backup key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		if os.Getenv("QUIRE_PASSPHRASE") == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			confirm, err := readPassphrase("Confirm passphrase: ")
			if err != nil {
				return err
			}
			if confirm != pass {
				return fmt.Errorf("passphrases do not match")
			}
		}

		if err := a.SetupKeys(pass); err != nil {
			return fmt.Errorf("setting up keys: %w", err)
		}
		fmt.Println("Backup keys created. Keep the passphrase safe: backups cannot be restored without it.")
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up and restore the database",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Upload an encrypted snapshot of the database",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "Backup")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		key, err := a.Backup(cmd.Context())
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Backup stored at %s\n", key)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore KEY DEST",
	Short: "Download and decrypt a database snapshot to DEST",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		if err := a.Restore(cmd.Context(), args[0], args[1], pass); err != nil {
			return err
		}
		fmt.Printf("Restored %s to %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysInitCmd)

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupRestoreCmd)

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(backupCmd)
}
