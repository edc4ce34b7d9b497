package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bigmirror-io/usergrid-client/internal/constants"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// NewEntitiesCommand creates the entities command group.
func NewEntitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entities",
		Aliases: []string{"entity"},
		Short:   "Manage entities",
		Long:    "List, get, create, update, and delete entities in a collection",
	}

	cmd.AddCommand(newEntitiesListCommand())
	cmd.AddCommand(newEntitiesGetCommand())
	cmd.AddCommand(newEntitiesCreateCommand())
	cmd.AddCommand(newEntitiesUpdateCommand())
	cmd.AddCommand(newEntitiesDeleteCommand())
	cmd.AddCommand(newEntitiesUploadCommand())

	return cmd
}

func newEntitiesListCommand() *cobra.Command {
	var (
		ql       string
		limit    int
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list COLLECTION",
		Short: "List entities in a collection",
		Long:  "List entities in a collection, optionally filtered with a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntitiesListCommand(args[0], ql, limit, allPages)
		},
	}

	cmd.Flags().StringVar(&ql, "ql", "", "query-language filter")
	cmd.Flags().IntVar(&limit, "limit", constants.StandardPageSize, "page size")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func runEntitiesListCommand(collection, ql string, limit int, allPages bool) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	query := usergrid.NewQuery().WithQL(ql).WithLimit(limit)

	if allPages {
		entities, err := client.CollectEntities(ctx, collection, query).All()
		if err != nil {
			return fmt.Errorf("failed to list entities: %w", err)
		}

		return outputEntities(entities)
	}

	page, err := client.GetEntities(ctx, collection, query)
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}

	err = outputEntities(page.Entities)
	if err != nil {
		return err
	}

	if page.Cursor != "" {
		fmt.Fprintf(os.Stdout, "More results available (use --all to fetch every page)\n")
	}

	return nil
}

func newEntitiesGetCommand() *cobra.Command {
	var ql string

	cmd := &cobra.Command{
		Use:   "get COLLECTION [ENTITY_ID]",
		Short: "Get a single entity",
		Long:  "Get an entity by ID, or the first entity matching --ql",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if len(args) == 2 {
				entity, err := client.GetEntityByID(ctx, args[0], args[1])
				if err != nil {
					return fmt.Errorf("failed to get entity: %w", err)
				}

				return outputEntity(entity)
			}

			entity, err := client.GetEntity(ctx, args[0], ql)
			if err != nil {
				return fmt.Errorf("failed to get entity: %w", err)
			}

			if entity == nil {
				_, _ = os.Stdout.WriteString("No entity found\n")

				return nil
			}

			return outputEntity(entity)
		},
	}

	cmd.Flags().StringVar(&ql, "ql", "", "query-language filter")

	return cmd
}

func newEntitiesCreateCommand() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "create COLLECTION",
		Short: "Create an entity",
		Long:  "Create an entity in a collection from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				return ErrEntityDataRequired
			}

			var entity usergrid.Entity
			if err := json.Unmarshal([]byte(data), &entity); err != nil {
				return fmt.Errorf("parsing entity data: %w", err)
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			created, err := client.PostEntity(context.Background(), args[0], entity)
			if err != nil {
				return fmt.Errorf("failed to create entity: %w", err)
			}

			return outputEntity(created)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "entity fields as a JSON document (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newEntitiesUpdateCommand() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update COLLECTION ENTITY_ID",
		Short: "Update an entity",
		Long:  "Update an entity's fields from a JSON document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				return ErrEntityDataRequired
			}

			var entity usergrid.Entity
			if err := json.Unmarshal([]byte(data), &entity); err != nil {
				return fmt.Errorf("parsing entity data: %w", err)
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			updated, err := client.UpdateEntityByID(context.Background(), args[0], args[1], entity)
			if err != nil {
				return fmt.Errorf("failed to update entity: %w", err)
			}

			return outputEntity(updated)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "entity fields as a JSON document (required)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newEntitiesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete COLLECTION ENTITY_ID",
		Short: "Delete an entity",
		Long:  "Delete an entity from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Fprintf(os.Stdout, "Really delete %s '%s'? (y/N): ", args[0], args[1])

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

			_, err = client.DeleteEntityByID(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to delete entity: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully deleted %s '%s'\n", args[0], args[1])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "force deletion without confirmation")

	return cmd
}

func newEntitiesUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload COLLECTION FILE",
		Short: "Upload a file as an entity",
		Long:  "Upload a local file to a collection as a multipart request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			resp, err := client.PostFile(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to upload file: %w", err)
			}

			if entities, ok := resp["entities"].([]interface{}); ok && len(entities) > 0 {
				if fields, ok := entities[0].(map[string]interface{}); ok {
					return outputEntity(usergrid.Entity(fields))
				}
			}

			fmt.Fprintf(os.Stdout, "Successfully uploaded '%s'\n", args[1])

			return nil
		},
	}
}
