package main

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/docindex/core"
	"github.com/poiesic/docindex/index"
	"github.com/urfave/cli/v2"
)

func createStoreCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	store, err := client.CreateStore(context.Background(), c.String("name"))
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	fmt.Printf("Created store %s (%q)\n", store.Name, store.DisplayName)
	return nil
}

func listStoresCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	stores, err := client.ListStores(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}

	if len(stores) == 0 {
		fmt.Println("No document stores found.")
		return nil
	}

	for _, store := range stores {
		fmt.Printf("%-50s  %-30s  %s  %d docs\n",
			store.Name, store.DisplayName,
			core.FormatBytes(store.UsageBytes), store.ActiveDocuments)
	}
	return nil
}

func storeInfoCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	name := index.NormalizeStoreName(c.String("store"))
	store, err := client.GetStore(context.Background(), name)
	if err != nil {
		return fmt.Errorf("failed to get store: %w", err)
	}

	printStore(store)
	return nil
}

func deleteStoreCommand(c *cli.Context) error {
	client, err := newIndexClient(c)
	if err != nil {
		return err
	}

	name := index.NormalizeStoreName(c.String("store"))
	if err := client.DeleteStore(context.Background(), name, c.Bool("force")); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	fmt.Printf("Deleted store %s\n", name)
	return nil
}

func printStore(store *index.Store) {
	fmt.Printf("Name:              %s\n", store.Name)
	fmt.Printf("Display name:      %s\n", store.DisplayName)
	fmt.Printf("Size:              %s\n", core.FormatBytes(store.UsageBytes))
	fmt.Printf("Active documents:  %d\n", store.ActiveDocuments)
	fmt.Printf("Pending documents: %d\n", store.PendingDocuments)
	fmt.Printf("Failed documents:  %d\n", store.FailedDocuments)
	if !store.CreateTime.IsZero() {
		fmt.Printf("Created:           %s\n", store.CreateTime.Format(time.RFC3339))
	}
	if !store.UpdateTime.IsZero() {
		fmt.Printf("Updated:           %s\n", store.UpdateTime.Format(time.RFC3339))
	}
}
