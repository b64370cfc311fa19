package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
)

var (
	inventoryMovie     int
	inventoryTotal     int
	inventoryAvailable int
)

func init() {
	rootCmd.AddCommand(inventoryCmd)
	inventoryCmd.AddCommand(inventorySetCmd)

	inventorySetCmd.Flags().IntVar(&inventoryMovie, "movie", 0, "Movie id the record belongs to")
	inventorySetCmd.Flags().IntVar(&inventoryTotal, "total", 0, "Total copies")
	inventorySetCmd.Flags().IntVar(&inventoryAvailable, "available", 0, "Available copies")
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List inventory records (vendor).",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewVendor); err != nil {
			return err
		}

		result, err := app.InventoryService.List(rootCtx)
		if err != nil {
			return err
		}

		rows := [][]string{{"ID", "MOVIE", "TITLE", "TOTAL", "AVAILABLE", "RENTED OUT"}}
		for _, record := range result.Results {
			rows = append(rows, []string{
				fmt.Sprint(record.ID), fmt.Sprint(record.Movie), record.MovieTitle,
				fmt.Sprint(record.TotalCopies), fmt.Sprint(record.AvailableCopies),
				fmt.Sprint(record.RentedOut),
			})
		}
		table(rows)
		return nil
	},
}

var inventorySetCmd = &cobra.Command{
	Use:   "set [inventory-id]",
	Short: "Set copy counts for an inventory record (vendor).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewVendor); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid inventory id %q", args[0])
		}
		if !cmd.Flags().Changed("total") || !cmd.Flags().Changed("available") {
			return fmt.Errorf("--total and --available are required")
		}

		record, err := app.InventoryService.Update(rootCtx, id, inventoryMovie, catalog.InventoryUpdate{
			TotalCopies:     inventoryTotal,
			AvailableCopies: inventoryAvailable,
		})
		if err != nil {
			return err
		}

		cmd.Printf("Inventory %d: %d of %d copies available.\n",
			record.ID, record.AvailableCopies, record.TotalCopies)
		return nil
	},
}
