package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"runlog/internal/analysis"
	"runlog/internal/auth"
	"runlog/internal/service"
	"runlog/internal/units"
)

const dateLayout = "2006-01-02"

// refDate parses -date, defaulting to today in the configured timezone
func (a *app) refDate(s string) (time.Time, error) {
	if s == "" {
		return a.cfg.Today(), nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func (a *app) status(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	date := fs.String("date", "", "reference date (YYYY-MM-DD), defaults to today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ref, err := a.refDate(*date)
	if err != nil {
		return err
	}

	d, err := a.query.Dashboard(ctx, ref)
	if err != nil {
		return err
	}

	snap := d.Status.Snapshot
	fmt.Fprintf(a.out, "%s\n\n", d.Date.Format("Monday, Jan 2 2006"))
	fmt.Fprintf(a.out, "Status     %s\n", snap.Label)
	fmt.Fprintf(a.out, "           %s\n", snap.Rationale)
	fmt.Fprintf(a.out, "Acute      %.0f (7 days)\n", snap.Acute)
	fmt.Fprintf(a.out, "Chronic    %.0f per week (%.0f over 28 days)\n", snap.ChronicWeekly, snap.Chronic)
	fmt.Fprintf(a.out, "Ratio      %.2f\n", snap.Ratio)
	if total := snap.Buckets.Total(); total > 0 {
		fmt.Fprintf(a.out, "Focus      low %.0f%%  high %.0f%%  anaerobic %.0f%%\n",
			100*snap.Buckets.Low/total, 100*snap.Buckets.High/total, 100*snap.Buckets.Anaerobic/total)
	}
	fmt.Fprintf(a.out, "           %s\n\n", snap.Feedback.Message)

	s := d.Fitness.Summary
	fmt.Fprintf(a.out, "Fitness    CTL %.1f  ATL %.1f  TSB %.1f\n", s.Latest.CTL, s.Latest.ATL, s.Latest.TSB)
	fmt.Fprintf(a.out, "Form       %s, %s\n", s.Form, s.Trend)
	fmt.Fprintf(a.out, "           %s\n\n", analysis.FormDescription(s.Latest.TSB))

	r := d.Readiness
	switch {
	case r.Today == nil:
		fmt.Fprintln(a.out, "Readiness  no reading for this day")
	case r.Assessment == nil:
		fmt.Fprintf(a.out, "Readiness  RHR %d, not enough history for a baseline\n", r.Today.RHR)
	default:
		ra := r.Assessment
		fmt.Fprintf(a.out, "Readiness  %s: %s (%s baseline, RHR %+.0f)\n", ra.Tier, ra.Recommendation, ra.Baseline, ra.RHRDelta)
		fmt.Fprintf(a.out, "           %s\n", ra.TargetLoad)
		fmt.Fprintf(a.out, "           %s\n", ra.Message)
	}

	fmt.Fprintf(a.out, "\nLast 7 days: %d sessions, %s, %s, load %.0f\n",
		d.WeekSessions, units.FormatDuration(d.WeekMinutes), a.units.FormatDistance(d.WeekDistance), d.WeekLoad)
	return nil
}

func (a *app) logSession(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	var in service.SessionInput
	fs.StringVar(&in.Date, "date", "", "session date (YYYY-MM-DD), defaults to today")
	fs.StringVar(&in.Time, "time", "", "start time (HH:MM)")
	fs.StringVar(&in.Type, "type", "Run", "Run, Walk, Ultimate, Ride, Gym or Other")
	fs.StringVar(&in.Name, "name", "", "session name, defaults to the type")
	fs.StringVar(&in.Duration, "duration", "", "duration in minutes, MM:SS or HH:MM:SS")
	fs.IntVar(&in.AvgHR, "hr", 0, "average heart rate")
	fs.IntVar(&in.RPE, "rpe", 0, "perceived effort 1-10")
	for i := range in.ZoneMinutes {
		fs.Float64Var(&in.ZoneMinutes[i], fmt.Sprintf("z%d", i+1), 0, fmt.Sprintf("minutes in zone %d", i+1))
	}
	fs.Float64Var(&in.DistanceKm, "distance", 0, "distance in km")
	fs.StringVar(&in.Notes, "notes", "", "free text notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in.Date == "" {
		in.Date = a.cfg.Today().Format(dateLayout)
	}

	s, err := a.entry.LogSession(ctx, in)
	if err != nil {
		return printValidation(err)
	}

	v, err := a.query.Session(ctx, s.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %s on %s: %s, load %.0f (%s), training effect %.1f %s\n",
		s.Name, s.StartTime.Format(dateLayout), units.FormatDuration(s.DurationMinutes),
		v.Load.Load, v.Load.Source, v.Effect.Value, v.Effect.Label)
	return nil
}

func (a *app) logHealth(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	var in service.HealthInput
	fs.StringVar(&in.Date, "date", "", "reading date (YYYY-MM-DD), defaults to today")
	fs.IntVar(&in.RHR, "rhr", 0, "morning resting heart rate")
	fs.Float64Var(&in.HRV, "hrv", 0, "heart rate variability in ms")
	fs.Float64Var(&in.SleepHours, "sleep", 0, "hours slept")
	fs.Float64Var(&in.VO2Max, "vo2max", 0, "VO2max estimate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in.Date == "" {
		in.Date = a.cfg.Today().Format(dateLayout)
	}

	h, err := a.entry.LogHealth(ctx, in)
	if err != nil {
		return printValidation(err)
	}
	fmt.Fprintf(a.out, "Logged RHR %d for %s\n", h.RHR, h.Date.Format(dateLayout))

	r, err := a.query.Readiness(ctx, h.Date)
	if err != nil {
		return err
	}
	if r.Assessment != nil {
		fmt.Fprintf(a.out, "%s: %s. %s\n", r.Assessment.Tier, r.Assessment.Recommendation, r.Assessment.TargetLoad)
	}
	return nil
}

func (a *app) importFIT(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("import needs at least one FIT file")
	}

	svc := service.NewImportService(a.db, a.cfg.Profile(), a.loc, a.log)
	result, err := svc.ImportFIT(ctx, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Imported %d new, %d updated\n", result.Created, result.Updated)
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "  ", e)
	}
	if len(result.Errors) > 0 && result.Created+result.Updated == 0 {
		return errors.New("no files imported")
	}
	return nil
}

func (a *app) sync(ctx context.Context) error {
	svc, err := a.syncService(ctx)
	if err != nil {
		return err
	}

	progress := make(chan service.SyncProgress, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			if p.Phase == service.PhaseStreams {
				fmt.Fprintf(a.out, "\r[%d/%d] %-40.40s", p.Completed+1, p.Total, p.CurrentActivity)
			}
		}
	}()

	result, err := svc.SyncAll(ctx, progress)
	<-done
	if result != nil && result.ActivitiesFetched > 0 {
		fmt.Fprintln(a.out)
	}
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Fprintf(a.out, "Fetched %d activities: %d new, %d updated, %d heart rate streams\n",
		result.ActivitiesFetched, result.SessionsCreated, result.SessionsUpdated, result.StreamsFetched)
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "  ", e)
	}
	return nil
}

func (a *app) authenticate(ctx context.Context) error {
	if err := a.cfg.ValidateStrava(); err != nil {
		return err
	}

	token, err := auth.Authenticate(ctx, a.oauthConfig(), a.out)
	if err != nil {
		return err
	}

	stored := auth.ToStoreAuth(token)
	if err := a.db.SaveAuth(ctx, stored); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	fmt.Fprintf(a.out, "Connected Strava athlete %d\n", stored.AthleteID)
	return nil
}

// printValidation expands field errors into one line per field
func printValidation(err error) error {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	for _, f := range verr.Fields {
		fmt.Fprintf(os.Stderr, "  %s\n", f.String())
	}
	return service.ErrValidation
}
