package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evnav/evnav/config"
	"github.com/evnav/evnav/core/energy"
	"github.com/evnav/evnav/core/eta"
	"github.com/evnav/evnav/core/model"
	"github.com/evnav/evnav/core/recommend"
	"github.com/evnav/evnav/core/scoring"
	"github.com/evnav/evnav/infra/cities"
	"github.com/evnav/evnav/infra/logger"
	"github.com/evnav/evnav/infra/stations"
)

var recommendFlags struct {
	lat         float64
	lon         float64
	battery     float64
	urgency     string
	plug        string
	passengers  int
	terrain     string
	ac          bool
	destination string
	maxDetour   float64
	mode        string
	traffic     string
	weather     string
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a one-shot ranking against the configured station fleet",
	RunE:  runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.Float64Var(&recommendFlags.lat, "lat", 0, "origin latitude")
	f.Float64Var(&recommendFlags.lon, "lon", 0, "origin longitude")
	f.Float64Var(&recommendFlags.battery, "battery", 100, "battery percentage")
	f.StringVar(&recommendFlags.urgency, "urgency", "medium", "charging urgency: low, medium, high, emergency")
	f.StringVar(&recommendFlags.plug, "plug", "", "required plug type")
	f.IntVar(&recommendFlags.passengers, "passengers", 1, "passenger count including driver")
	f.StringVar(&recommendFlags.terrain, "terrain", "flat", "terrain: flat, hilly, steep")
	f.BoolVar(&recommendFlags.ac, "ac", false, "air conditioning on")
	f.StringVar(&recommendFlags.destination, "destination", "", "destination city for route filtering")
	f.Float64Var(&recommendFlags.maxDetour, "max-detour", 0, "detour budget in km")
	f.StringVar(&recommendFlags.mode, "mode", "", "driving mode: economy, sports, random")
	f.StringVar(&recommendFlags.traffic, "traffic", "", "traffic: light, medium, heavy")
	f.StringVar(&recommendFlags.weather, "weather", "", "weather: clear, rain, fog, snow")
	_ = recommendCmd.MarkFlagRequired("lat")
	_ = recommendCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry, err := stations.NewFromFile(cfg.Stations.File)
	if err != nil {
		return fmt.Errorf("station registry: %w", err)
	}
	orch, err := recommend.New(
		registry,
		cities.NewFromTable(cfg.Cities.Extra),
		energy.New(cfg.Energy),
		eta.New(cfg.ETA),
		scoring.NewEngine(cfg.Scoring),
		cfg.Recommend,
		nil,
		nil,
		logger.New("recommend-command"),
	)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	uctx := model.UserContext{
		Origin:          model.Coordinate{Lat: recommendFlags.lat, Lon: recommendFlags.lon},
		BatteryPct:      recommendFlags.battery,
		PlugType:        recommendFlags.plug,
		Urgency:         model.Urgency(recommendFlags.urgency),
		ACOn:            recommendFlags.ac,
		Passengers:      recommendFlags.passengers,
		Terrain:         model.Terrain(recommendFlags.terrain),
		DestinationCity: recommendFlags.destination,
		MaxDetourKm:     recommendFlags.maxDetour,
		DrivingMode:     model.DrivingMode(recommendFlags.mode),
		Traffic:         model.Traffic(recommendFlags.traffic),
		Weather:         model.Weather(recommendFlags.weather),
	}
	if err := uctx.Origin.Validate(); err != nil {
		return err
	}

	result, err := orch.Recommend(context.Background(), uctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
