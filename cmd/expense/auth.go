package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}
	cmd.AddCommand(authSheetsCmd())
	return cmd
}

func authSheetsCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		callback     string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authorize access to Google Sheets",
		Long: `Run the OAuth2 flow for Google Sheets and store the refresh token.

Visit the printed URL, approve access, and the token is saved next to
your config so 'expense report sheets' can use it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if clientID == "" {
				clientID = viper.GetString("sheets.client_id")
			}
			if clientSecret == "" {
				clientSecret = viper.GetString("sheets.client_secret")
			}
			if clientID == "" {
				clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
			}
			if clientSecret == "" {
				clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
			}
			if clientID == "" || clientSecret == "" {
				return common.NewUserError(
					"OAuth2 credentials not found; set sheets.client_id and sheets.client_secret or pass --client-id and --client-secret",
					common.ErrMissingConfig)
			}

			oauth := sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    config.SheetsTokenFile(),
				CallbackAddr: callback,
			}
			slog.Info("Starting Google Sheets authentication", "token_file", oauth.TokenFile)

			authenticate := sheets.GetOrCreateToken
			if force {
				authenticate = sheets.AuthenticateOAuth2Interactive
			}
			token, err := authenticate(ctx, oauth)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			viper.Set("sheets.refresh_token", token.RefreshToken)
			if err := saveConfig(); err != nil {
				common.LogError(err, "Failed to update config file with refresh token", nil)
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Could not save the refresh token to the config file; it is still in "+oauth.TokenFile))
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Google Sheets is ready. Run 'expense report sheets' to publish a report."))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&callback, "callback", sheets.DefaultCallbackAddr, "host:port for the OAuth redirect listener")
	cmd.Flags().BoolVar(&force, "force", false, "ignore any saved token and authorize again")

	return cmd
}

// saveConfig writes the current viper settings back to the config file.
func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.DefaultConfigDir(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0o750); err != nil {
		return err
	}
	return viper.WriteConfigAs(configFile)
}
