// Package analysis summarizes recorded trajectories.
//
//   - [Summarize]: apex, speeds and interpolated impact point
//   - [Series]: one named field of every sample
//   - [MaxAbsDiff]: largest difference between two runs in one field
//   - [GeneratePhasePortrait]: one field against another, with an ASCII renderer
//
// # Impact
//
// Impact is found between the last sample above ground and the first at or
// below it, so its time and range fall between samples:
//
//	sum := analysis.Summarize(result.States)
//	if sum.Impacted {
//	    fmt.Printf("landed at x=%.1f after %.2fs\n", sum.ImpactRange, sum.ImpactTime)
//	}
package analysis
