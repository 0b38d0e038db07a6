package application

import "expvar"

// runCounters counts finished runs by status; served by the debug module.
var runCounters = expvar.NewMap("job_runs")
