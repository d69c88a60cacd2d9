package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/faillog/badger"
	"github.com/poiesic/docindex/index"
	"github.com/poiesic/docindex/metadata"
	"github.com/urfave/cli/v2"
)

func listDocumentsCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	storeName := index.NormalizeStoreName(c.String("store"))
	docs, err := client.ListDocuments(context.Background(), storeName)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Printf("No documents in %s.\n", storeName)
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%-70s  %-30s  %-10s  %s\n",
			doc.Name, doc.DisplayName, doc.State, core.FormatBytes(doc.SizeBytes))
	}
	return nil
}

func documentInfoCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	doc, err := client.GetDocument(context.Background(), c.String("name"))
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	fmt.Printf("Name:         %s\n", doc.Name)
	fmt.Printf("Display name: %s\n", doc.DisplayName)
	fmt.Printf("MIME type:    %s\n", doc.MimeType)
	fmt.Printf("Size:         %s\n", core.FormatBytes(doc.SizeBytes))
	fmt.Printf("State:        %s\n", doc.State)
	if !doc.CreateTime.IsZero() {
		fmt.Printf("Created:      %s\n", doc.CreateTime.Format(time.RFC3339))
	}
	if !doc.UpdateTime.IsZero() {
		fmt.Printf("Updated:      %s\n", doc.UpdateTime.Format(time.RFC3339))
	}
	if len(doc.CustomMetadata) > 0 {
		fmt.Println("Custom metadata:")
		for _, entry := range doc.CustomMetadata {
			fmt.Printf("  %s\n", metadata.FormatEntry(entry))
		}
	}
	return nil
}

func deleteDocumentCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	name := c.String("name")
	if !c.Bool("force") && !confirm(fmt.Sprintf("Delete document %s?", name)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := client.DeleteDocument(context.Background(), name, c.Bool("force")); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	fmt.Printf("Deleted document %s\n", name)
	return nil
}

func failuresCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open failure log: %w", err)
	}
	defer backend.Close()

	log, err := badger.NewFailureLog(backend)
	if err != nil {
		return fmt.Errorf("failed to open failure log: %w", err)
	}
	defer log.Close()

	ctx := context.Background()

	if c.Bool("clear") {
		if err := log.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear failure log: %w", err)
		}
		fmt.Println("Failure log cleared.")
		return nil
	}

	records, err := log.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read failure log: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No recorded upload failures.")
		return nil
	}

	for _, record := range records {
		fmt.Printf("%s  %-30s  %-40s  %s\n",
			record.Timestamp.Format(time.RFC3339),
			record.Filename, record.Store, record.Error)
	}
	return nil
}

// confirm prompts for a yes/no answer on stdin. Anything but y/yes is no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
