package main

import (
	"context"
	"fmt"
	"log"

	smartsync "github.com/tabwise/go-smartsync"
	"github.com/tabwise/go-smartsync/adapters/excel"
	"github.com/tabwise/go-smartsync/adapters/smartsheet"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Resolve credentials from the environment. Accepts the combined
	// "eu:<token>" form in SMARTSHEET_ACCESS_TOKEN.
	store, err := smartsheet.NewWithProvider(ctx, smartsheet.Env(), smartsheet.Config{})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	// Read a report, including the sheets it draws from.
	reader, err := smartsync.NewReader(store, &smartsync.ReaderConfig{
		ID:       "your-report-id",
		IsReport: true,
	})
	if err != nil {
		return err
	}

	result, err := reader.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	fmt.Printf("read %d rows from %q\n", len(result.Table.Rows), result.SourceName)
	for _, row := range result.SourceSheets.Rows {
		fmt.Printf("source sheet %s: %s\n", row[0], row[1])
	}

	// Stage the input dataset from a local workbook.
	source, err := excel.New(&excel.Config{
		FilePath:  "./input.xlsx",
		SheetName: "data",
	})
	if err != nil {
		return err
	}

	dataset, err := source.LoadDataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	// Reconcile the dataset into a sheet, keyed on the "ID" column.
	writer, err := smartsync.NewWriter(store, &smartsync.WriterConfig{
		SheetID:         "your-sheet-id",
		ReferenceColumn: "ID",
		AddMissing:      true,
	})
	if err != nil {
		return err
	}

	sync, err := writer.Write(ctx, dataset)
	if err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}
	fmt.Printf("updated %d, created %d, orphans %d\n",
		sync.Updated, sync.Created, len(sync.Orphans))

	return nil
}
