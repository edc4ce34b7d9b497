package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bigmirror-io/usergrid-client/pkg/ugclient"
	"github.com/bigmirror-io/usergrid-client/pkg/usergrid"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	NotAvailable = "N/A"
)

// Common static errors used throughout the commands package.
var (
	ErrEntityDataRequired = errors.New("entity data is required (use --data)")
)

// buildConfig assembles a client config from the effective viper settings.
func buildConfig() *usergrid.Config {
	return &usergrid.Config{
		Host:   viper.GetString("host"),
		Port:   viper.GetInt("port"),
		Org:    viper.GetString("org"),
		App:    viper.GetString("app"),
		UseTLS: viper.GetBool("tls"),
		Debug:  viper.GetBool("verbose"),
	}
}

// createClient builds an authenticated client from flags, environment, and
// the config file. An explicit token wins over stored credentials.
func createClient() (usergrid.Client, error) {
	config := buildConfig()

	if token := viper.GetString("token"); token != "" {
		client, err := ugclient.NewWithToken(config, token)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		return client, nil
	}

	config.ClientID = viper.GetString("client_id")
	config.ClientSecret = viper.GetString("client_secret")

	client, err := ugclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// StandardJSONRenderer encodes data as indented JSON to stdout.
func StandardJSONRenderer(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer encodes data as YAML to stdout.
func StandardYAMLRenderer(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding to YAML: %w", err)
	}

	return nil
}

// entityField renders one entity field as a table cell.
func entityField(entity usergrid.Entity, key string) string {
	value, ok := entity[key]
	if !ok || value == nil {
		return NotAvailable
	}

	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return fmt.Sprintf("%v", typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return NotAvailable
		}

		return string(encoded)
	}
}

// renderEntityTable prints entities with a fixed leading UUID column plus
// the union of top-level scalar fields, alphabetically.
func renderEntityTable(entities []usergrid.Entity) error {
	if len(entities) == 0 {
		_, _ = os.Stdout.WriteString("No entities found\n")

		return nil
	}

	seen := map[string]bool{}

	for _, entity := range entities {
		for key, value := range entity {
			if key == "uuid" || key == "metadata" {
				continue
			}

			switch value.(type) {
			case string, float64, bool:
				seen[key] = true
			}
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	header := make([]string, 0, len(columns)+1)
	header = append(header, "UUID")

	for _, column := range columns {
		header = append(header, column)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(toAnySlice(header)...)

	for _, entity := range entities {
		row := make([]string, 0, len(columns)+1)
		row = append(row, entityField(entity, "uuid"))

		for _, column := range columns {
			row = append(row, entityField(entity, column))
		}

		_ = table.Append(toAnySlice(row)...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toAnySlice(values []string) []interface{} {
	anys := make([]interface{}, len(values))
	for i, value := range values {
		anys[i] = value
	}

	return anys
}

// outputEntities renders entities in the configured output format.
func outputEntities(entities []usergrid.Entity) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(entities)
	case OutputFormatYAML:
		return StandardYAMLRenderer(entities)
	default:
		return renderEntityTable(entities)
	}
}

// outputEntity renders a single entity in the configured output format.
func outputEntity(entity usergrid.Entity) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return StandardJSONRenderer(entity)
	case OutputFormatYAML:
		return StandardYAMLRenderer(entity)
	default:
		return renderEntityTable([]usergrid.Entity{entity})
	}
}
