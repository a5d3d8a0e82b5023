package camunda

import (
	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Manager opens one job worker per enabled task type and closes them together.
type Manager struct {
	client  zbc.Client
	workers map[string]worker.JobWorker
	logger  logger.Logger
}

func NewManager(client zbc.Client, log logger.Logger) *Manager {
	return &Manager{
		client:  client,
		workers: make(map[string]worker.JobWorker),
		logger:  log.WithFields(map[string]interface{}{"component": "camunda"}),
	}
}

func (m *Manager) Register(taskType string, wcfg config.WorkerConfig, handler JobHandler) {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	m.workers[taskType] = m.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
}

func (m *Manager) Stop() {
	for taskType, w := range m.workers {
		w.Close()
		w.AwaitClose()
		m.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
}
