package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/agendafacil/api-agendamento/internal/models"
)

// Logger grava eventos operacionais (mensageria, calendário, workflows)
// na tabela event_logs, consultável pela API.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	userID *uint,
	level string,
	source string,
	message string,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.EventLog{
		UserID:   userID,
		Level:    level,
		Source:   source,
		Message:  message,
		Metadata: metaJSON,
	}

	return l.db.Create(&entry).Error
}
