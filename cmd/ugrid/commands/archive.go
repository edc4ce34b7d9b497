package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewArchiveCommand creates the archive command.
func NewArchiveCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "archive COLLECTION ENTITY_ID",
		Short: "Archive an entity and its relationships",
		Long: `Snapshot an entity together with every entity reachable via its
relationship edges into the archive collection for its type, then delete
the original. The original is only deleted after the snapshot is stored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Fprintf(os.Stdout, "Archive %s '%s' and delete the original? (y/N): ", args[0], args[1])

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			archived, err := client.ArchiveEntity(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to archive entity: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully archived %s '%s' as '%s'\n",
				args[0], args[1], archived.UUID())

			return outputEntity(archived)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
