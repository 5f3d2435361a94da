package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tripmate/cmd/fx/prompt_fx"
	"tripmate/internal/config"
	"tripmate/internal/models/request_models"
	"tripmate/internal/services"
	"tripmate/pkg/logger"
	mem "tripmate/pkg/memcache"
)

type planOptions struct {
	destination string
	start       string
	end         string
	travelers   int
	budget      float64
	exclude     []string
	offline     bool
	weather     bool
}

func newPlanCmd() *cobra.Command {
	var opts planOptions

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate one itinerary and print it as JSON",
		Long: `Run the itinerary pipeline once and print the result to stdout.

Logs go to stderr so the output can be piped. With --offline the model is
never called and the template itinerary is printed.

Examples:
  tripmate plan --destination "Paris, France" --start 2025-06-01 --end 2025-06-05
  tripmate plan --destination Kyoto --start 2025-04-01 --end 2025-04-03 --exclude "Fushimi Inari" --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.tripRequest()
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if strings.EqualFold(cfg.LoggerOutputPath, "stdout") || cfg.LoggerOutputPath == "" {
				cfg.LoggerOutputPath = "stderr"
			}
			log, sync, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var model services.ModelCaller
			if !opts.offline {
				client, closeFn := prompt_fx.NewModelClient(ctx, cfg, log)
				if closeFn != nil {
					defer func() { _ = closeFn() }()
				}
				if client != nil {
					model = client
				}
			}

			var weather services.WeatherServiceInterface
			if opts.weather {
				weather = services.NewWeatherService(cfg, mem.NewTTLCache(), log)
			}
			return runPlan(ctx, cmd.OutOrStdout(), req, services.NewItineraryService(model, nil, log), weather, log)
		},
	}

	flags := planCmd.Flags()
	flags.StringVar(&opts.destination, "destination", "", "where the trip goes (required)")
	flags.StringVar(&opts.start, "start", "", "first day, YYYY-MM-DD (required)")
	flags.StringVar(&opts.end, "end", "", "last day, YYYY-MM-DD (required)")
	flags.IntVar(&opts.travelers, "travelers", 1, "number of travelers")
	flags.Float64Var(&opts.budget, "budget", 0, "total budget in rupees, 0 for none")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "places to leave out, comma separated")
	flags.BoolVar(&opts.offline, "offline", false, "skip the model and print the template itinerary")
	flags.BoolVar(&opts.weather, "weather", true, "include the forecast when WEATHER_API_KEY is set")
	_ = planCmd.MarkFlagRequired("destination")
	_ = planCmd.MarkFlagRequired("start")
	_ = planCmd.MarkFlagRequired("end")

	return planCmd
}

func (o planOptions) tripRequest() (request_models.TripRequest, error) {
	start, err := request_models.ParseDate(o.start)
	if err != nil {
		return request_models.TripRequest{}, fmt.Errorf("--start: %w", err)
	}
	end, err := request_models.ParseDate(o.end)
	if err != nil {
		return request_models.TripRequest{}, fmt.Errorf("--end: %w", err)
	}

	req := request_models.TripRequest{
		Destination:       strings.TrimSpace(o.destination),
		StartDate:         start,
		EndDate:           end,
		NumberOfTravelers: o.travelers,
		ExcludedPlaces:    o.exclude,
	}
	if o.budget > 0 {
		budget := o.budget
		req.Budget = &budget
	}
	return req, nil
}

func runPlan(
	ctx context.Context,
	out io.Writer,
	req request_models.TripRequest,
	itinerarySvc services.ItineraryServiceInterface,
	weather services.WeatherServiceInterface,
	log *zap.Logger,
) error {
	if weather != nil && weather.Enabled() {
		summary, err := weather.GetWeatherForTrip(ctx, req.Destination, req.StartDate.Time, req.EndDate.Time)
		if err != nil {
			log.Warn("weather unavailable, planning without it", zap.Error(err))
		} else {
			req.Weather = summary
		}
	}

	result, err := itinerarySvc.GenerateItinerary(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
