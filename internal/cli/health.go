package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/justyntemme/libcat/pkg/models"
)

func (e *env) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the status of the catalog services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := e.client()
			if err != nil {
				return err
			}
			e.Printf("Checking %s\n", client.BaseURL())

			status, err := client.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("gateway unreachable: %w", err)
			}

			return e.emit(status, func() {
				rows := [][]string{{"gateway", status.Health.Gateway}}

				names := make([]string, 0, len(status.Health.Services))
				for name := range status.Health.Services {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					rows = append(rows, []string{name, status.Health.Services[name]})
				}

				switch {
				case status.Recommendations != nil:
					rows = append(rows, []string{"recommendations", status.Recommendations.RecommendationService})
				case status.RecommendationsError != "":
					rows = append(rows, []string{"recommendations", "unavailable"})
				}
				e.table([]string{"Service", "Status"}, rows)

				if unhealthy := countUnhealthy(rows); unhealthy > 0 {
					fmt.Fprintf(e.out, "%d of %d services unhealthy\n", unhealthy, len(rows))
				} else {
					e.Successf("All services healthy")
				}
			})
		},
	}
}

func countUnhealthy(rows [][]string) int {
	n := 0
	for _, row := range rows {
		if !models.Healthy(row[1]) {
			n++
		}
	}
	return n
}
