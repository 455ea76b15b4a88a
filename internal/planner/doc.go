// Package planner turns the ordered picture list into a Plan: one frame job
// per picture and one pair job per adjacent pair. The pipeline executes the
// plan; --dry-run only prints it.
package planner
