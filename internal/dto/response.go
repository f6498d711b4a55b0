package dto

import (
	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

type OutcomeResponse struct {
	Container  string `json:"container"`
	SourceKey  string `json:"source_key"`
	Status     string `json:"status"`
	DerivedKey string `json:"derived_key,omitempty"`
	Step       string `json:"step,omitempty"`
	Error      string `json:"error,omitempty"`
}

type BatchReport struct {
	BatchID   string             `json:"batch_id"`
	Fatal     bool               `json:"fatal"`
	Error     string             `json:"error,omitempty"`
	Succeeded int                `json:"succeeded"`
	Skipped   int                `json:"skipped"`
	Outcomes  []*OutcomeResponse `json:"outcomes"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func MapOutcomeToResponse(o domain.Outcome) *OutcomeResponse {
	resp := &OutcomeResponse{
		Container:  o.Record.Container,
		SourceKey:  o.Record.SourceKey,
		Status:     string(o.Status),
		DerivedKey: o.DerivedKey,
	}
	if o.Err != nil {
		resp.Error = o.Err.Error()
		if step, ok := domain.StepOf(o.Err); ok {
			resp.Step = string(step)
		}
	}
	return resp
}

func MapBatchToReport(r *domain.BatchResult) *BatchReport {
	if r == nil {
		return nil
	}

	outcomes := make([]*OutcomeResponse, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		outcomes = append(outcomes, MapOutcomeToResponse(o))
	}

	report := &BatchReport{
		BatchID:   r.BatchID,
		Fatal:     r.Fatal,
		Succeeded: r.Succeeded(),
		Skipped:   r.Skipped(),
		Outcomes:  outcomes,
	}
	if r.Err != nil {
		report.Error = r.Err.Error()
	}
	return report
}
