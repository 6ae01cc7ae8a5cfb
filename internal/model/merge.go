package model

import "slices"

// MergeReports combines the reports of the shards of one run. Shards share
// the plan, so per-subject metadata is taken from the first report that
// names the subject (identification and path) while outcome counts are
// summed. The verdict is recomputed from the merged counts.
func MergeReports(runID string, reports ...Report) Report {
	merged := Report{RunID: runID}

	type subjectKey struct {
		identification string
		path           Path
	}

	index := make(map[subjectKey]int)

	for i, report := range reports {
		if i == 0 || report.StartedAt.Before(merged.StartedAt) {
			merged.StartedAt = report.StartedAt
		}

		merged.Runtime = max(merged.Runtime, report.Runtime)
		merged.SubjectCount = max(merged.SubjectCount, report.SubjectCount)
		merged.TestCount = max(merged.TestCount, report.TestCount)
		merged.MutationCount += report.MutationCount
		merged.Pending += report.Pending
		merged.Totals = merged.Totals.merge(report.Totals)
		merged.Uncovered = appendUnique(merged.Uncovered, report.Uncovered...)
		merged.NeutralFailures = appendUnique(merged.NeutralFailures, report.NeutralFailures...)
		merged.Mutations = append(merged.Mutations, report.Mutations...)

		for _, subject := range report.Subjects {
			key := subjectKey{identification: subject.Identification, path: subject.Path}

			position, ok := index[key]
			if !ok {
				index[key] = len(merged.Subjects)
				merged.Subjects = append(merged.Subjects, subject)

				continue
			}

			existing := &merged.Subjects[position]
			existing.Totals = existing.Totals.merge(subject.Totals)
			existing.Uncovered = existing.Uncovered || subject.Uncovered
			existing.NeutralFailure = existing.NeutralFailure || subject.NeutralFailure
		}
	}

	merged.KillRatio = merged.Totals.KillRatio()
	merged.Success = len(reports) > 0 &&
		merged.Totals.Alive == 0 &&
		len(merged.Uncovered) == 0 &&
		len(merged.NeutralFailures) == 0 &&
		merged.Pending == 0 &&
		merged.TestCount > 0

	return merged
}

func (t Totals) merge(other Totals) Totals {
	return Totals{
		Killed:  t.Killed + other.Killed,
		Alive:   t.Alive + other.Alive,
		Timeout: t.Timeout + other.Timeout,
		Error:   t.Error + other.Error,
	}
}

func appendUnique(dst []string, values ...string) []string {
	for _, value := range values {
		if !slices.Contains(dst, value) {
			dst = append(dst, value)
		}
	}

	return dst
}
