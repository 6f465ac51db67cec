package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/application/schema/usecases"
	"github.com/orris-inc/ticketflow/internal/interfaces/cli/bootstrap"
)

var (
	flags       bootstrap.Flags
	file        string
	publisherID string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Ticket schema tools",
	}

	flags.Register(cmd)

	cmd.AddCommand(newPublishCommand())

	return cmd
}

func newPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a schema draft from a YAML or JSON file",
		Long: `Read a schema draft in the same shape the HTTP API accepts and publish it.
YAML files (.yaml, .yml) are converted to JSON before decoding.`,
		RunE: runPublish,
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the draft file (required)")
	cmd.Flags().StringVar(&publisherID, "publisher", "", "User SID recorded as the publisher")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read draft: %w", err)
	}

	draft, err := decodeDraft(filepath.Ext(file), raw)
	if err != nil {
		return err
	}

	rt, err := bootstrap.Open(&flags)
	if err != nil {
		return err
	}
	defer rt.Close()

	published, err := rt.Container.UseCases().PublishSchema.Execute(context.Background(), usecases.PublishSchemaCommand{
		Draft:       *draft,
		PublisherID: publisherID,
	})
	if err != nil {
		return err
	}

	return bootstrap.PrintJSON(cmd.OutOrStdout(), published)
}

// decodeDraft accepts JSON as is and YAML by re-encoding it as JSON, so both
// go through the same decoder as the HTTP body.
func decodeDraft(ext string, raw []byte) (*dto.SchemaDraftRequest, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("invalid yaml draft: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("yaml draft cannot be expressed as json: %w", err)
		}
		raw = converted
	}

	var draft dto.SchemaDraftRequest
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("invalid draft: %w", err)
	}
	if len(draft.Flows) == 0 {
		return nil, fmt.Errorf("draft has no flows")
	}
	return &draft, nil
}
