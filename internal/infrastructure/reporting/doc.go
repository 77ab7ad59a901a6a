// Package reporting emits scheduled analytics summaries.
//
// A Reporter runs on a cron schedule and logs one structured line per
// tick combining session analytics with the metrics snapshot. The line
// is the operational heartbeat of the service: it shows funnel health
// without anyone having to open the dashboard.
package reporting
