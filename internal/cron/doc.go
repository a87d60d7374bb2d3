// Package cron builds, validates and interprets the 5-field schedule
// expressions stored for jobs.
//
// Stored expressions keep minute and hour as the literal "H": both are
// resolved per job from a stable hash of the job ID, so schedules spread
// across the day instead of stampeding, while staying identical across
// restarts. The day grammar carries the usual extensions (lists, L, L-n,
// nW, nL, n#k); adhocore/gronx does tick computation on the resolved
// expression.
package cron
