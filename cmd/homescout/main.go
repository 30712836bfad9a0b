package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/larsmk/homescout/pkg/clients"
	"github.com/larsmk/homescout/pkg/config"
	"github.com/larsmk/homescout/pkg/search"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var (
	destination string
	radiusKM    float64
	maxRent     float64
	propType    string
	bedrooms    string
	bathrooms   string
	nuance      string
	cycles      int
	interval    time.Duration
)

func main() {
	// Setup structured logging
	handler := slog.NewTextHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(handler))
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist, as long as env vars are set
	}
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "homescout",
		Short: "A terminal-based rental search agent",
		Long:  `HomeScout runs the continuous rental search loop from the terminal: it compiles your filters into a provider request, deduplicates the returned listings and prints every newly admitted property.`,
		Run: func(cmd *cobra.Command, args []string) {

			if !cmd.Flags().Changed("destination") {
				// Interactive Mode
				reader := bufio.NewReader(os.Stdin)

				fmt.Print("Where are you looking to rent? ")
				input, _ := reader.ReadString('\n')
				destination = strings.TrimSpace(input)
				if destination == "" {
					slog.Error("Destination cannot be empty")
					os.Exit(1)
				}
			} else if destination == "" {
				slog.Error("--destination flag provided but empty")
				os.Exit(1)
			}

			criteria := search.Criteria{
				Destination:  destination,
				RadiusKM:     radiusKM,
				PropertyType: search.PropertyType(propType),
				MinBedrooms:  search.Threshold(bedrooms),
				MinBathrooms: search.Threshold(bathrooms),
				MaxRent:      maxRent,
				Nuance:       nuance,
			}

			policy, err := config.LoadSafetyPolicy(cfg.SafetyPolicy)
			if err != nil {
				slog.Error("Failed to load safety policy", "error", err)
				os.Exit(1)
			}

			client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
				APIKey: cfg.GoogleApiKey,
			})
			if err != nil {
				slog.Error("Failed to create GenAI client", "error", err)
				os.Exit(1)
			}

			generator := search.NewGeminiGenerator(client, cfg.SearchModel, clients.SafetySettings(policy))
			agent := search.NewAgent(generator, interval)

			done := make(chan struct{})
			printed := 0
			completed := 0
			agent.OnCycle = func(status search.Status) {
				if status.LastError != search.ErrorNone {
					fmt.Printf("cycle %d: %s\n", status.Cycles, status.LastErrorMsg)
				}
				for _, p := range status.Results[printed:] {
					fmt.Printf("[%s] %s — %g/month (score %g)\n  %s\n", p.ID, p.Address, p.Rent, p.Score, p.Link)
				}
				printed = len(status.Results)

				completed++
				if completed >= cycles {
					agent.Stop()
					close(done)
				}
			}

			slog.Info("Starting search", "destination", destination, "cycles", cycles)
			if err := agent.Start(criteria); err != nil {
				slog.Error("Failed to start agent", "error", err)
				os.Exit(1)
			}
			<-done

			status := agent.Snapshot()
			fmt.Printf("\n%d properties found in %d cycles\n", len(status.Results), status.Cycles)
		},
	}

	rootCmd.Flags().StringVarP(&destination, "destination", "d", "", "Where to search for rentals")
	rootCmd.Flags().Float64VarP(&radiusKM, "radius", "r", 10, "Search radius in km")
	rootCmd.Flags().Float64VarP(&maxRent, "max-rent", "m", 2000, "Maximum monthly rent")
	rootCmd.Flags().StringVar(&propType, "type", string(search.PropertyTypeAny), "Property type (any, apartment, house, condo, townhouse, studio)")
	rootCmd.Flags().StringVar(&bedrooms, "bedrooms", string(search.ThresholdAny), "Minimum bedrooms (any, 1-4)")
	rootCmd.Flags().StringVar(&bathrooms, "bathrooms", string(search.ThresholdAny), "Minimum bathrooms (any, 1-4)")
	rootCmd.Flags().StringVarP(&nuance, "prompt", "p", "", "Free-text preferences added to the search prompt")
	rootCmd.Flags().IntVarP(&cycles, "cycles", "n", 1, "Number of search cycles to run")
	rootCmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "Delay between cycles")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
