package service

const (
	// BaselineLookbackDays is the window of health logs averaged into the
	// rolling RHR/HRV baseline when the profile carries no monthly average
	BaselineLookbackDays = 30

	// HealthHistoryDays is the default span of the health history view
	HealthHistoryDays = 30

	// Pagination limits
	RecentSessionsLimit = 10
	DefaultPageSize     = 50

	// Strava sync
	SyncLookbackDays = 90 // first sync fetches this far back

	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = dateLayout + " " + timeLayout
)

// ChartWeeks is the number of weeks in the weekly load chart
const ChartWeeks = 12
