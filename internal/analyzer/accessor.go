package analyzer

import (
	"sort"

	"github.com/ppiankov/puppetspectre/internal/models"
)

// Resources returns the resource statuses of a report in document order.
func Resources(report *models.Report) models.ResourceStatuses {
	if report == nil {
		return nil
	}
	return report.ResourceStatuses
}

// ResourcesByEvalTime returns the resources that carry a valid evaluation
// time, fastest first. Resources with equal times keep document order.
func ResourcesByEvalTime(report *models.Report) models.ResourceStatuses {
	resources := Resources(report)
	timed := make(models.ResourceStatuses, 0, len(resources))
	for _, named := range resources {
		if named.Status.EvaluationTime.Valid {
			timed = append(timed, named)
		}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].Status.EvaluationTime.Seconds < timed[j].Status.EvaluationTime.Seconds
	})
	return timed
}

// ResourcesOfType returns the resources whose resource_type equals typ.
func ResourcesOfType(report *models.Report, typ string) models.ResourceStatuses {
	var matched models.ResourceStatuses
	for _, named := range Resources(report) {
		if named.Status.ResourceType == typ {
			matched = append(matched, named)
		}
	}
	return matched
}

// timingErrors lists the resources whose evaluation time is not a number.
func timingErrors(report *models.Report, source string) []error {
	var errs []error
	for _, named := range Resources(report) {
		if named.Status.Invalid != "" {
			errs = append(errs, &models.ParseError{
				Source: source,
				Item:   "resource " + named.ID,
				Reason: named.Status.Invalid,
			})
			continue
		}
		if named.Status.EvaluationTime.Malformed() {
			errs = append(errs, &models.ParseError{
				Source: source,
				Item:   "evaluation time of " + named.ID,
				Reason: "not a number: " + named.Status.EvaluationTime.Raw,
			})
		}
	}
	return errs
}
