package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/user/video-trimmer-cli/config"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Store the S3 secret key in the system keyring",
	Long: `Prompt for the secret access key belonging to AWS_ACCESS_KEY_ID and store
it in the system keyring, so it does not have to live in the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.AWSAccessKeyID == "" {
			return config.ErrNoAccessKey
		}

		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return fmt.Errorf("credentials needs an interactive terminal")
		}
		fmt.Printf("Secret access key for %s: ", cfg.AWSAccessKeyID)
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		value := strings.TrimSpace(string(secret))
		if value == "" {
			return fmt.Errorf("empty secret, nothing stored")
		}

		if err := config.StoreSecret(cfg.AWSAccessKeyID, value); err != nil {
			return err
		}
		fmt.Println("Secret stored in the system keyring.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(credentialsCmd)
}
