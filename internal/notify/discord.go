package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"tourneyhub/internal/model"
)

// Notifier announces review decisions. Implementations are best-effort:
// callers log failures and never surface them to the requester.
type Notifier interface {
	TeamApproved(ctx context.Context, team *model.Team) error
	TeamRejected(ctx context.Context, team *model.Team, reason string) error
}

// Noop is the Notifier used when no webhook is configured.
type Noop struct{}

func (Noop) TeamApproved(ctx context.Context, team *model.Team) error { return nil }

func (Noop) TeamRejected(ctx context.Context, team *model.Team, reason string) error { return nil }

// Discord posts decision announcements to a Discord channel webhook.
type Discord struct {
	session      *discordgo.Session
	webhookID    string
	webhookToken string
}

var _ Notifier = (*Discord)(nil)

// NewDiscord creates a webhook-backed notifier. Webhook execution needs no
// bot token, so the session is created unauthenticated.
func NewDiscord(webhookID, webhookToken string) (*Discord, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Discord{
		session:      session,
		webhookID:    webhookID,
		webhookToken: webhookToken,
	}, nil
}

func (d *Discord) TeamApproved(ctx context.Context, team *model.Team) error {
	return d.execute(ctx, &discordgo.MessageEmbed{
		Title:       "Team approved",
		Description: fmt.Sprintf("**%s** has been approved for the tournament.", team.TeamName),
		Color:       0x2ecc71,
	})
}

func (d *Discord) TeamRejected(ctx context.Context, team *model.Team, reason string) error {
	description := fmt.Sprintf("**%s** was rejected.", team.TeamName)
	if reason != "" {
		description += " Reason: " + reason
	}
	return d.execute(ctx, &discordgo.MessageEmbed{
		Title:       "Team rejected",
		Description: description,
		Color:       0xe74c3c,
	})
}

func (d *Discord) execute(ctx context.Context, embed *discordgo.MessageEmbed) error {
	_, err := d.session.WebhookExecute(d.webhookID, d.webhookToken, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("execute webhook: %w", err)
	}
	return nil
}
