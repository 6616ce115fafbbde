package handlers

import (
	"time"

	"github.com/agendafacil/api-agendamento/internal/models"
	"github.com/agendafacil/api-agendamento/internal/timezone"
)

// --------------------------------------------------
// Timezone centralizado por conta
// --------------------------------------------------

// resolve o timezone oficial da conta
func locationFromUser(user *models.User) *time.Location {
	if user != nil {
		return timezone.Location(user.Timezone)
	}
	return time.UTC
}

func parseDateInUser(user *models.User, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromUser(user),
	)
}
