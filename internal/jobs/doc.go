// Package jobs runs fire-and-forget background work and collects its
// completions.
//
// A Group hands out increasing job ids. Finished jobs queue their Result
// until the owner drains them; Drain blocks until every job started so far
// has reported, handing results over in the order the jobs completed.
// There is no retry and no cancellation of individual jobs.
package jobs
