package models

// Materialized views backing the cross-session analytics summary.
const (
	AnalyticsTeamMeetingsView = "session_team_meetings_mv"
	AnalyticsTeamJuryView     = "session_team_jury_mv"
	AnalyticsTeamWaitingView  = "session_team_waiting_mv"
	AnalyticsTeamRoomsView    = "session_team_rooms_mv"
)

// AnalyticsViews lists every view refreshed after a plan is saved.
var AnalyticsViews = []string{
	AnalyticsTeamMeetingsView,
	AnalyticsTeamJuryView,
	AnalyticsTeamWaitingView,
	AnalyticsTeamRoomsView,
}
