package extractleadmetadata

import (
	"context"
	"encoding/json"
	"strings"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/common/metrics"
	"lead-qualifier/internal/common/validation"
	"lead-qualifier/internal/extraction"
	"lead-qualifier/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "extract-lead-metadata"
)

var schema = validation.MustCompile(inputSchema)

type IndustryLookup interface {
	Get(id string) (models.IndustryConfig, error)
}

type Handler struct {
	config     *Config
	industries IndustryLookup
	extractor  extraction.Extractor
	errors     *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, industries IndustryLookup, extractor extraction.Extractor, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		industries: industries,
		extractor:  extractor,
		errors:     errors.NewErrorHandler(scoped),
		logger:     scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := decodeInput([]byte(job.Variables))
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func decodeInput(variables []byte) (*Input, error) {
	result, err := schema.ValidateBytes(variables)
	if err != nil {
		return nil, errors.NewInvalidPayloadError(err)
	}
	if !result.Valid {
		return nil, errors.NewValidationError(result.Summary())
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, errors.NewInvalidPayloadError(err)
	}
	return &input, nil
}

// Execute extracts from input.Text and merges the result over input.Metadata.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	industryID := strings.TrimSpace(input.IndustryID)
	if industryID == "" {
		industryID = h.config.DefaultIndustry
	}
	industry, err := h.industries.Get(industryID)
	if err != nil {
		return nil, err
	}

	update, err := h.extractor.Extract(input.Text, industry, input.History)
	if err != nil {
		return nil, errors.NewExtractionFailedError(err)
	}

	return &Output{
		Metadata: input.Metadata.Merge(update),
		Update:   update,
		Found:    foundFields(update, extraction.Fields(industry.ID)),
	}, nil
}

func foundFields(update models.Metadata, fields []string) []string {
	present := map[string]bool{
		"intent":        update.Intent != nil,
		"budget":        update.Budget != nil,
		"timeline":      update.Timeline != nil,
		"location":      update.Location != nil,
		"propertyType":  update.PropertyType != nil,
		"purpose":       update.Purpose != nil,
		"companySize":   update.CompanySize != nil,
		"decisionMaker": update.DecisionMaker != nil,
	}
	out := []string{}
	for _, f := range fields {
		if present[f] {
			out = append(out, f)
		}
	}
	return out
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, errors.NewInternalError(err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"found":  output.Found,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandard(err).Code)).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}
