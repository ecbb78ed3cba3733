package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/output"
	"github.com/dumbnessrf/DotNetOpr/observability"
	"github.com/dumbnessrf/DotNetOpr/toolchain"
)

type doctorOptions struct {
	format string
}

// NewDoctorCommand creates the doctor command, which checks that the
// toolchain and the configuration are usable.
func NewDoctorCommand(rt *Runtime) *cobra.Command {
	opts := &doctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the dotnet toolchain and configuration",
		Long: `Run health checks against the configured dotnet executable and the
loaded configuration. Exits with code 1 when any check is unhealthy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), rt, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "console", "Output format: console or json")

	return cmd
}

func runDoctor(ctx context.Context, rt *Runtime, opts *doctorOptions) error {
	start := time.Now()

	hc := observability.NewHealthChecker()
	hc.Register(observability.HealthCheck{Name: "toolchain", Check: toolchainCheck(rt.QuietToolchain())})
	hc.Register(observability.HealthCheck{Name: "config", Check: configCheck(rt)})

	results := hc.Check(ctx)
	status := observability.OverallStatus(results)

	if opts.format == "json" {
		out := output.NewDoctorOutput(string(status), start)
		for _, r := range results {
			out.Checks = append(out.Checks, output.CheckEntry{
				Name:    r.Name,
				Status:  string(r.Status),
				Message: r.Message,
				Details: r.Details,
			})
		}
		out.ElapsedMs = output.MeasureElapsed(start)
		if err := output.WriteJSON(rt.Console.Out(), out); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Name, string(r.Status), r.Message})
		}
		rt.Console.Table([]string{"Check", "Status", "Message"}, rows)
	}

	if status == observability.HealthStatusUnhealthy {
		return errors.New("one or more health checks failed")
	}
	return nil
}

func toolchainCheck(tc *toolchain.Toolchain) func(context.Context) observability.HealthCheckResult {
	return func(ctx context.Context) observability.HealthCheckResult {
		details := map[string]string{"executable": tc.Executable()}
		if !tc.IsAvailable(ctx) {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusUnhealthy,
				Message: fmt.Sprintf("%s --version failed", tc.Executable()),
				Details: details,
			}
		}
		sdk, err := tc.Version(ctx)
		if err != nil {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusDegraded,
				Message: err.Error(),
				Details: details,
			}
		}
		details["sdk"] = sdk
		return observability.HealthCheckResult{
			Status:  observability.HealthStatusHealthy,
			Message: "SDK " + sdk,
			Details: details,
		}
	}
}

func configCheck(rt *Runtime) func(context.Context) observability.HealthCheckResult {
	return func(context.Context) observability.HealthCheckResult {
		if rt.Config.File == "" {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusHealthy,
				Message: "no config file, using defaults",
			}
		}
		return observability.HealthCheckResult{
			Status:  observability.HealthStatusHealthy,
			Message: rt.Config.File,
			Details: map[string]string{"file": rt.Config.File},
		}
	}
}
