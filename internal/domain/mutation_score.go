package domain

import (
	"time"

	m "gooze.dev/pkg/mutiny/internal/model"
)

// PlannedSubject is a matched subject with its covering tests and the
// mutations generated for it.
type PlannedSubject struct {
	Subject   m.Subject
	Tests     []string
	Mutations []m.Mutation
}

// Covered reports whether any test can kill the subject's mutations.
func (p PlannedSubject) Covered() bool {
	return len(p.Tests) > 0
}

// EvilCount is the number of scored mutations of the subject.
func (p PlannedSubject) EvilCount() int {
	count := 0

	for _, mutation := range p.Mutations {
		if mutation.Scored() {
			count++
		}
	}

	return count
}

// Plan is everything known about a run before scheduling.
type Plan struct {
	Root     m.Path
	Subjects []PlannedSubject
	Tests    []m.Test
	Warnings []string
}

// MutationCount is the number of scored mutations across subjects.
func (p Plan) MutationCount() int {
	count := 0
	for _, subject := range p.Subjects {
		count += subject.EvilCount()
	}

	return count
}

// Aggregate folds the result slots of units into the verdict. Units must be
// in subject order; a nil slot is a unit that never ran. The fold does not
// depend on completion order.
func Aggregate(plan Plan, units []Unit, results []*m.MutationResult, runtime time.Duration) m.EnvResult {
	env := m.EnvResult{
		SubjectCount: len(plan.Subjects),
		TestCount:    len(plan.Tests),
		Runtime:      runtime,
	}

	index := make(map[*m.Subject]int, len(plan.Subjects))

	for i := range plan.Subjects {
		planned := &plan.Subjects[i]
		id := planned.Subject.Identification()

		index[&planned.Subject] = i
		for _, mutation := range planned.Mutations {
			index[mutation.Subject] = i
		}

		env.Subjects = append(env.Subjects, m.SubjectResult{
			Identification: id,
			Path:           planned.Subject.Path,
			Kind:           planned.Subject.Kind,
			Tests:          len(planned.Tests),
			Mutations:      planned.EvilCount(),
			Uncovered:      !planned.Covered(),
		})

		if !planned.Covered() {
			env.Uncovered = append(env.Uncovered, id)
		}
	}

	for i, unit := range units {
		mutation := unit.Mutation
		if mutation.Scored() {
			env.MutationCount++
		}

		result := results[i]
		if result == nil {
			if mutation.Scored() {
				env.Pending++
			}

			continue
		}

		env.Results = append(env.Results, *result)

		position, ok := index[mutation.Subject]
		if !ok {
			continue
		}

		subject := &env.Subjects[position]

		if !mutation.Scored() {
			if result.Outcome != m.Alive {
				subject.NeutralFailure = true
				env.NeutralFailures = append(env.NeutralFailures, subject.Identification)
			}

			continue
		}

		subject.Totals.Add(result.Outcome)
		env.Totals.Add(result.Outcome)
	}

	env.Success = env.Totals.Alive == 0 &&
		len(env.Uncovered) == 0 &&
		len(env.NeutralFailures) == 0 &&
		env.Pending == 0 &&
		env.TestCount > 0

	return env
}
