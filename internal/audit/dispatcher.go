package audit

import "github.com/rs/zerolog/log"

type Event struct {
	UserID   *uint
	Level    string
	Source   string
	Message  string
	Metadata any
}

// Dispatcher desacopla a gravação do event log do caminho da requisição.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		level := ev.Level
		if level == "" {
			level = "info"
		}
		if err := d.logger.Log(ev.UserID, level, ev.Source, ev.Message, ev.Metadata); err != nil {
			log.Error().Err(err).Str("source", ev.Source).Msg("event log error")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// fila cheia: descartamos o evento, nunca bloqueamos a API
		log.Warn().Str("source", ev.Source).Msg("event log queue full, dropping event")
	}
}
