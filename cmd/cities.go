package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evnav/evnav/config"
	"github.com/evnav/evnav/infra/cities"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the supported destination cities",
	RunE:  runCities,
}

func init() {
	rootCmd.AddCommand(citiesCmd)
}

func runCities(cmd *cobra.Command, args []string) error {
	lookup := cities.New()
	if cfgPath != "" {
		if cfg, err := config.Load(cfgPath); err == nil {
			lookup = cities.NewFromTable(cfg.Cities.Extra)
		}
	}
	for _, name := range lookup.Cities() {
		coord, err := lookup.Resolve(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-15s %9.4f %9.4f\n", name, coord.Lat, coord.Lon)
	}
	return nil
}
