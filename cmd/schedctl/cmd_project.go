package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/core/services"

	"github.com/spf13/cobra"
)

type projectOptions struct {
	file      string
	apiURL    string
	major     string
	timezone  string
	termStart string
	horizon   string
	from      string
	to        string
}

// projectResult is printed by the project command
type projectResult struct {
	Major       string                      `json:"major"`
	Occurrences []domain.CalendarOccurrence `json:"occurrences"`
	Instances   []domain.Instance           `json:"instances,omitempty"`
}

func newProjectCmd(opts *globalOptions) *cobra.Command {
	p := &projectOptions{}

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project schedule rows into calendar events",
		Long: `Reads schedule rows from a JSON file or the scheduling backend and prints
the calendar events of one major. With --to, dated instances up to and
including that day are printed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.clock()
			if err != nil {
				return err
			}
			result, err := p.run(cmd.Context(), now, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&p.file, "file", "f", "", "JSON file holding an array of schedule rows")
	flags.StringVar(&p.apiURL, "api", "", "scheduling backend base URL")
	flags.StringVarP(&p.major, "major", "m", "", "major to project")
	flags.StringVar(&p.timezone, "tz", "UTC", "IANA timezone rows are expressed in")
	flags.StringVar(&p.termStart, "term-start", "", "anchor events to the week of this YYYY-MM-DD date")
	flags.StringVar(&p.horizon, "horizon", services.DefaultHorizon.Format(time.RFC3339), "last instant events repeat until (RFC3339)")
	flags.StringVar(&p.from, "from", "", "instance window start (YYYY-MM-DD, default now)")
	flags.StringVar(&p.to, "to", "", "last day of the instance window, inclusive (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("major")
	cmd.MarkFlagsMutuallyExclusive("file", "api")
	cmd.MarkFlagsOneRequired("file", "api")

	return cmd
}

func (p *projectOptions) run(ctx context.Context, now func() time.Time, opts *globalOptions) (*projectResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := p.projectorConfig()
	if err != nil {
		return nil, err
	}

	rows, err := p.rows(ctx)
	if err != nil {
		return nil, err
	}

	projector := services.NewScheduleProjector(cfg, now, opts.logger())
	occurrences := projector.Project(rows, p.major)
	result := &projectResult{Major: p.major, Occurrences: occurrences}
	if result.Occurrences == nil {
		result.Occurrences = []domain.CalendarOccurrence{}
	}

	if p.to == "" {
		return result, nil
	}

	from := now()
	if p.from != "" {
		if from, err = time.ParseInLocation(dateLayout, p.from, cfg.Location); err != nil {
			return nil, fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
		}
	}
	to, err := time.ParseInLocation(dateLayout, p.to, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("--to must be YYYY-MM-DD: %w", err)
	}
	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)

	expander := services.NewRecurrenceExpander(cfg.Location)
	for _, occ := range occurrences {
		instances, err := expander.Expand(occ, from, to)
		if err != nil {
			return nil, fmt.Errorf("expand occurrence %s: %w", occ.ID, err)
		}
		result.Instances = append(result.Instances, instances...)
	}
	return result, nil
}

const dateLayout = "2006-01-02"

func (p *projectOptions) projectorConfig() (services.ProjectorConfig, error) {
	cfg := services.DefaultProjectorConfig()

	loc, err := time.LoadLocation(p.timezone)
	if err != nil {
		return cfg, fmt.Errorf("unknown timezone %q: %w", p.timezone, err)
	}
	cfg.Location = loc

	if cfg.Horizon, err = time.Parse(time.RFC3339, p.horizon); err != nil {
		return cfg, fmt.Errorf("--horizon must be RFC3339: %w", err)
	}

	if p.termStart != "" {
		if cfg.TermStart, err = time.ParseInLocation(dateLayout, p.termStart, loc); err != nil {
			return cfg, fmt.Errorf("--term-start must be YYYY-MM-DD: %w", err)
		}
	}
	return cfg, nil
}

func (p *projectOptions) rows(ctx context.Context) ([]domain.ScheduleRow, error) {
	if p.apiURL != "" {
		return services.NewAPIScheduleSource(p.apiURL, nil).FetchRows(ctx)
	}
	if p.file == "" {
		return nil, errors.New("one of --file or --api is required")
	}

	data, err := os.ReadFile(p.file)
	if err != nil {
		return nil, err
	}
	var rows []domain.ScheduleRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.file, err)
	}
	return rows, nil
}
