package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/bigmirror-io/usergrid-client/pkg/ugclient"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		username     string
		password     string
		superuser    string
		clientID     string
		clientSecret string
		ttl          int
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Long: `Authenticate against the service and print the resulting access token.

With --client-id and --client-secret the client-credentials grant is used.
Otherwise the password grant is used; --superuser authenticates against the
management endpoint instead of the application.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := buildConfig()

			client, err := ugclient.New(config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			opts := &usergrid.LoginOptions{TTL: ttl}

			switch {
			case clientID != "" && clientSecret != "":
				opts.ClientID = clientID
				opts.ClientSecret = clientSecret
			default:
				if username == "" && superuser == "" {
					reader := bufio.NewReader(os.Stdin)
					fmt.Print("Username: ")
					username, _ = reader.ReadString('\n')
					username = strings.TrimSpace(username)
				}

				if password == "" {
					fmt.Print("Password: ")
					bytePassword, err := term.ReadPassword(int(syscall.Stdin))
					if err != nil {
						return fmt.Errorf("failed to read password: %w", err)
					}
					password = string(bytePassword)
					fmt.Println()
				}

				opts.Username = username
				opts.Password = password
				opts.Superuser = superuser
			}

			ctx := context.Background()

			if err := client.Login(ctx, opts); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully logged in to %s/%s/%s\n",
				viper.GetString("host"), viper.GetString("org"), viper.GetString("app"))

			if user := client.CurrentUser(); user != nil {
				fmt.Fprintf(os.Stdout, "Logged in as %s\n", usergrid.ActorFromUser(user).Username)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for password grant")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for password grant")
	cmd.Flags().StringVar(&superuser, "superuser", "", "superuser name (management endpoint)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "client ID for client-credentials grant")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "client secret for client-credentials grant")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "requested token lifetime in seconds")

	return cmd
}
