package gcal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/agendafacil/api-agendamento/internal/config"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// Client sincroniza agendamentos com o Google Calendar da conta conectada.
// O refresh token fica no User; cada chamada monta um TokenSource próprio.
type Client struct {
	oauthCfg *oauth2.Config
}

func NewClient(cfg config.GoogleConfig) *Client {
	return &Client{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarEventsScope},
		},
	}
}

func (c *Client) Enabled() bool {
	return c.oauthCfg.ClientID != "" && c.oauthCfg.ClientSecret != ""
}

// AuthURL devolve a URL de consentimento; access_type=offline força o
// refresh token na primeira autorização.
func (c *Client) AuthURL(state string) string {
	return c.oauthCfg.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.oauthCfg.Exchange(ctx, code)
}

func (c *Client) service(ctx context.Context, refreshToken string) (*calendar.Service, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("gcal: conta sem refresh token")
	}

	ts := c.oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return calendar.NewService(ctx, option.WithTokenSource(ts))
}

func calendarID(sch *models.Schedule) string {
	if sch != nil && sch.GoogleCalendarID != "" {
		return sch.GoogleCalendarID
	}
	return "primary"
}

func buildEvent(ap *models.Appointment, sch *models.Schedule, tz string) *calendar.Event {
	summary := ap.Client.Name
	if sch != nil && sch.Title != "" {
		summary = fmt.Sprintf("%s - %s", sch.Title, ap.Client.Name)
	}

	var location string
	if sch != nil {
		location = sch.LocationDetails
	}

	return &calendar.Event{
		Summary:     summary,
		Description: ap.Notes,
		Location:    location,
		Start: &calendar.EventDateTime{
			DateTime: ap.StartTime.Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: ap.EndTime.Format(time.RFC3339),
			TimeZone: tz,
		},
		Attendees: []*calendar.EventAttendee{
			{Email: ap.Client.Email, DisplayName: ap.Client.Name},
		},
	}
}

func (c *Client) InsertEvent(
	ctx context.Context,
	user *models.User,
	sch *models.Schedule,
	ap *models.Appointment,
) (string, error) {

	svc, err := c.service(ctx, user.GoogleCalendarRefreshToken)
	if err != nil {
		return "", err
	}

	ev, err := svc.Events.
		Insert(calendarID(sch), buildEvent(ap, sch, user.Timezone)).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return ev.Id, nil
}

func (c *Client) UpdateEvent(
	ctx context.Context,
	user *models.User,
	sch *models.Schedule,
	ap *models.Appointment,
) error {

	if ap.GoogleEventID == "" {
		return nil
	}

	svc, err := c.service(ctx, user.GoogleCalendarRefreshToken)
	if err != nil {
		return err
	}

	_, err = svc.Events.
		Update(calendarID(sch), ap.GoogleEventID, buildEvent(ap, sch, user.Timezone)).
		Context(ctx).
		Do()
	return err
}

func (c *Client) DeleteEvent(
	ctx context.Context,
	user *models.User,
	sch *models.Schedule,
	ap *models.Appointment,
) error {

	if ap.GoogleEventID == "" {
		return nil
	}

	svc, err := c.service(ctx, user.GoogleCalendarRefreshToken)
	if err != nil {
		return err
	}

	return svc.Events.
		Delete(calendarID(sch), ap.GoogleEventID).
		Context(ctx).
		Do()
}
