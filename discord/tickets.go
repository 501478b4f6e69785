package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/metrics"
	"github.com/patchwerk/discord-riddle-bot/tickets"
)

// Button custom IDs of the ticket workflow.
const (
	buttonTicketOpen  = "ticket_open"
	buttonTicketClaim = "ticket_claim"
	buttonTicketClose = "ticket_close"
)

// ticketPanel posts the persistent message members click to open a ticket.
func (c Client) ticketPanel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("ticket_panel").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("ticket_panel").Observe(time.Since(start).Seconds())
	}()

	if !c.authorizeInteraction(i) {
		c.denied(s, i, "ticket_panel")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "🎫 Need help? Open a support ticket and a staff member will be with you.",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Open a ticket",
							Style:    discordgo.PrimaryButton,
							CustomID: buttonTicketOpen,
						},
					},
				},
			},
		},
	})
	if err != nil {
		c.logger.Error("error posting ticket panel", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("ticket_panel").Inc()
		return
	}
	metrics.DiscordMessageSent.Add(1)
}

// handleComponent dispatches button clicks.
func (c Client) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.MessageComponentData().CustomID {
	case buttonTicketOpen:
		c.ticketOpen(s, i)
	case buttonTicketClaim:
		c.ticketClaim(s, i)
	case buttonTicketClose:
		c.ticketClose(s, i)
	}
}

func (c Client) ticketOpen(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, username, ok := interactionUser(i)
	if !ok {
		return
	}

	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:  "ticket-" + username,
		Type:  discordgo.ChannelTypeGuildText,
		Topic: "Support ticket for " + username,
	})
	if err != nil {
		c.logger.Error("error creating ticket channel", "error", err.Error(), "user", userID)
		c.respondEphemeral(s, i, "ticket_open", "Could not create a ticket channel. Please try again later.")
		return
	}

	ticket, err := c.tickets.Open(userID, channel.ID)
	if err != nil {
		if errors.Is(err, tickets.ErrAlreadyOpen) {
			// drop the channel we just made; the ticket was refused
			if _, derr := s.ChannelDelete(channel.ID); derr != nil {
				c.logger.Error("error deleting surplus ticket channel", "error", derr.Error(), "channelID", channel.ID)
			}
			c.respondEphemeral(s, i, "ticket_open", "You already have an open ticket.")
			return
		}
		c.logger.Error("error opening ticket", "error", err.Error(), "user", userID)
		c.respondEphemeral(s, i, "ticket_open", "Could not open the ticket. Please try again later.")
		return
	}

	metrics.TicketEvents.WithLabelValues("open").Inc()
	_, err = s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>, describe your issue here. Staff can claim or close this ticket below.", userID),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Claim",
						Style:    discordgo.SecondaryButton,
						CustomID: buttonTicketClaim,
					},
					discordgo.Button{
						Label:    "Close",
						Style:    discordgo.DangerButton,
						CustomID: buttonTicketClose,
					},
				},
			},
		},
	})
	if err != nil {
		c.logger.Error("error sending ticket intro", "error", err.Error(), "ticket", ticket.ID)
	} else {
		metrics.DiscordMessageSent.Add(1)
	}

	c.respondEphemeral(s, i, "ticket_open", fmt.Sprintf("🎫 Your ticket is open: <#%s>", channel.ID))
}

func (c Client) ticketClaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !c.hasStaffRights(i) {
		c.respondEphemeral(s, i, "ticket_claim", "Only staff can claim tickets.")
		return
	}
	userID, username, ok := interactionUser(i)
	if !ok {
		return
	}

	ticket, found := c.tickets.ByChannel(i.ChannelID)
	if !found {
		c.respondEphemeral(s, i, "ticket_claim", "This channel is not a live ticket.")
		return
	}

	if _, err := c.tickets.Claim(ticket.ID, userID); err != nil {
		switch {
		case errors.Is(err, tickets.ErrAlreadyClaimed):
			c.respondEphemeral(s, i, "ticket_claim", "This ticket is already claimed.")
		case errors.Is(err, tickets.ErrClosed):
			c.respondEphemeral(s, i, "ticket_claim", "This ticket is already closed.")
		default:
			c.logger.Error("error claiming ticket", "error", err.Error(), "ticket", ticket.ID)
			c.respondEphemeral(s, i, "ticket_claim", "Could not claim the ticket.")
		}
		return
	}

	metrics.TicketEvents.WithLabelValues("claim").Inc()
	c.respond(s, i, "ticket_claim", fmt.Sprintf("🙋 %s has claimed this ticket.", username))
}

func (c Client) ticketClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !c.hasStaffRights(i) {
		c.respondEphemeral(s, i, "ticket_close", "Only staff can close tickets.")
		return
	}

	ticket, found := c.tickets.ByChannel(i.ChannelID)
	if !found {
		c.respondEphemeral(s, i, "ticket_close", "This channel is not a live ticket.")
		return
	}

	transcript := c.fetchTranscript(s, i.ChannelID)
	path, err := c.tickets.Close(ticket.ID, transcript)
	if err != nil {
		if errors.Is(err, tickets.ErrClosed) {
			c.respondEphemeral(s, i, "ticket_close", "This ticket is already closed.")
			return
		}
		c.logger.Error("error closing ticket", "error", err.Error(), "ticket", ticket.ID)
		c.respondEphemeral(s, i, "ticket_close", "Could not close the ticket.")
		return
	}

	metrics.TicketEvents.WithLabelValues("close").Inc()
	c.logger.Info("ticket transcript written", "ticket", ticket.ID, "path", path)
	c.respond(s, i, "ticket_close", "📁 Ticket closed and transcripted. This channel will be removed.")

	if _, err := s.ChannelDelete(i.ChannelID); err != nil {
		c.logger.Error("error deleting ticket channel", "error", err.Error(), "channelID", i.ChannelID)
	}
}

// hasStaffRights mirrors the admin check for ticket staff actions.
func (c Client) hasStaffRights(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return c.hasAdminRights(i.Member.Permissions, i.Member.Roles)
}

// fetchTranscript pulls the channel history oldest-first as "author: text"
// lines.
func (c Client) fetchTranscript(s *discordgo.Session, channelID string) []string {
	messages, err := s.ChannelMessages(channelID, 100, "", "", "")
	if err != nil {
		c.logger.Error("error fetching ticket history", "error", err.Error(), "channelID", channelID)
		return nil
	}

	lines := make([]string, 0, len(messages))
	// the API returns newest first
	for idx := len(messages) - 1; idx >= 0; idx-- {
		m := messages[idx]
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", m.Timestamp.Format(time.RFC3339), m.Author.Username, m.Content))
	}
	return lines
}
