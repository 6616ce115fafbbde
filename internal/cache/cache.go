package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/agendafacil/api-agendamento/internal/config"
	"github.com/agendafacil/api-agendamento/internal/models"
)

func NewRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// SlotCache guarda a grade de slots por schedule para a consulta pública de
// disponibilidade. Qualquer mutação do ledger invalida a chave inteira;
// cache indisponível nunca derruba a leitura (fallback para o banco).
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSlotCache(rdb *redis.Client) *SlotCache {
	return &SlotCache{
		rdb: rdb,
		ttl: 60 * time.Second,
	}
}

func slotKey(scheduleID uint) string {
	return fmt.Sprintf("slots:%d", scheduleID)
}

func (c *SlotCache) Get(ctx context.Context, scheduleID uint) ([]models.TimeSlot, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, slotKey(scheduleID)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []models.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, scheduleID uint, slots []models.TimeSlot) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, slotKey(scheduleID), data, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Uint("schedule_id", scheduleID).Msg("slot cache set falhou")
	}
}

func (c *SlotCache) Invalidate(ctx context.Context, scheduleID uint) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, slotKey(scheduleID)).Err(); err != nil {
		log.Debug().Err(err).Uint("schedule_id", scheduleID).Msg("slot cache invalidate falhou")
	}
}
