package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
)

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 10*time.Second,
		"How often to re-poll availability")
}

var watchCmd = &cobra.Command{
	Use:   "watch [movie-id]",
	Short: "Watch a movie's availability until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewMovieDetail); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid movie id %q", args[0])
		}

		key := types.MovieInventoryKey(id)
		subID, updates := app.CacheManager.Subscribe(key)
		defer app.CacheManager.Unsubscribe(key, subID)

		// Prime the entry so there is something to watch.
		record, err := app.InventoryService.ForMovie(rootCtx, id)
		if err != nil {
			return err
		}
		if record != nil {
			cmd.Printf("%s: %d of %d copies available\n",
				record.MovieTitle, record.AvailableCopies, record.TotalCopies)
		} else {
			cmd.Println("No inventory record for this movie yet.")
		}

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-rootCtx.Done():
				return nil
			case entry := <-updates:
				if inventory, ok := entry.Data.(*catalog.Inventory); ok && inventory != nil {
					cmd.Printf("%s: %d of %d copies available\n",
						inventory.MovieTitle, inventory.AvailableCopies, inventory.TotalCopies)
				}
			case <-ticker.C:
				// Drop the cached page so the next read hits the backend and
				// pushes the fresh entry through the subscription.
				app.CacheManager.Invalidate(types.InventoryItemTag(id))
				if _, err := app.InventoryService.ForMovie(rootCtx, id); err != nil {
					cmd.PrintErrln("refresh failed:", err)
				}
			}
		}
	},
}
