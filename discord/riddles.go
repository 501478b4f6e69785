package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/metrics"
	"github.com/patchwerk/discord-riddle-bot/riddle"
)

func (c Client) postRiddle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("riddle").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("riddle").Observe(time.Since(start).Seconds())
	}()

	if !c.policy.Allowed(i.ChannelID) {
		c.respondEphemeral(s, i, "riddle", "Riddles are not enabled in this channel.")
		return
	}

	question, err := c.rounds.Post()
	if err != nil {
		if errors.Is(err, riddle.ErrEmptyBank) {
			c.respond(s, i, "riddle", "No riddles available. Ask an admin to add some with /addriddle.")
			return
		}
		c.logger.Error("error posting riddle", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("riddle").Inc()
		c.respondEphemeral(s, i, "riddle", "Failed to post a riddle. Please try again later.")
		return
	}

	metrics.RiddlesPosted.Add(1)
	c.respond(s, i, "riddle", "🧩 **Riddle:** "+question)
}

func (c Client) addRiddle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("addriddle").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("addriddle").Observe(time.Since(start).Seconds())
	}()

	if !c.authorizeInteraction(i) {
		c.denied(s, i, "addriddle")
		return
	}

	var question, answer string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "question":
			question = opt.StringValue()
		case "answer":
			answer = opt.StringValue()
		}
	}

	if err := c.bank.Add(question, answer); err != nil {
		if errors.Is(err, riddle.ErrValidation) {
			c.respondEphemeral(s, i, "addriddle", "Both the riddle and the answer must contain real words.")
			return
		}
		c.logger.Error("error adding riddle", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("addriddle").Inc()
		c.respondEphemeral(s, i, "addriddle", "The riddle could not be saved. It will be lost on restart.")
		return
	}

	c.respondEphemeral(s, i, "addriddle", fmt.Sprintf("🧠 Riddle added! The bank now holds %d.", c.bank.Len()))
}

func (c Client) deleteRiddle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("deleteriddle").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("deleteriddle").Observe(time.Since(start).Seconds())
	}()

	if !c.authorizeInteraction(i) {
		c.denied(s, i, "deleteriddle")
		return
	}

	var question string
	index := -1
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "question":
			question = opt.StringValue()
		case "index":
			index = int(opt.IntValue())
		}
	}

	var err error
	switch {
	case question != "":
		err = c.bank.Remove(question)
	case index > 0:
		err = c.bank.RemoveAt(index - 1)
	default:
		c.respondEphemeral(s, i, "deleteriddle", "Give either the riddle text or its position.")
		return
	}

	if err != nil {
		if errors.Is(err, riddle.ErrNotFound) {
			c.respondEphemeral(s, i, "deleteriddle", "No such riddle.")
			return
		}
		c.logger.Error("error deleting riddle", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("deleteriddle").Inc()
		c.respondEphemeral(s, i, "deleteriddle", "The deletion could not be persisted.")
		return
	}

	c.respondEphemeral(s, i, "deleteriddle", "🗑️ Riddle deleted.")
}

func (c Client) stopRiddle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("stopriddle").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("stopriddle").Observe(time.Since(start).Seconds())
	}()

	if !c.authorizeInteraction(i) {
		c.denied(s, i, "stopriddle")
		return
	}

	if c.rounds.Stop() {
		c.respond(s, i, "stopriddle", "The current riddle has been withdrawn.")
		return
	}
	c.respondEphemeral(s, i, "stopriddle", "There is no active riddle.")
}

func (c Client) resetRiddles(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("resetriddles").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("resetriddles").Observe(time.Since(start).Seconds())
	}()

	if !c.authorizeInteraction(i) {
		c.denied(s, i, "resetriddles")
		return
	}

	if err := c.bank.ResetSolved(); err != nil {
		c.logger.Error("error resetting solved riddles", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("resetriddles").Inc()
		c.respondEphemeral(s, i, "resetriddles", "The reset could not be persisted.")
		return
	}
	c.respondEphemeral(s, i, "resetriddles", fmt.Sprintf("♻️ %d riddles are selectable again.", c.bank.Available()))
}

func (c Client) listen(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("listen").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("listen").Observe(time.Since(start).Seconds())
	}()

	if !c.authorizeInteraction(i) {
		c.denied(s, i, "listen")
		return
	}

	if err := c.policy.Listen(i.ChannelID); err != nil {
		c.logger.Error("error updating channel policy", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("listen").Inc()
	}
	c.respondEphemeral(s, i, "listen", "👂 Riddles are now enabled in this channel.")
}

func (c Client) ignore(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("ignore").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("ignore").Observe(time.Since(start).Seconds())
	}()

	if !c.authorizeInteraction(i) {
		c.denied(s, i, "ignore")
		return
	}

	if err := c.policy.Ignore(i.ChannelID); err != nil {
		c.logger.Error("error updating channel policy", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("ignore").Inc()
	}
	c.respondEphemeral(s, i, "ignore", "🙉 Riddles are now silenced in this channel.")
}

// DailyTick is the scheduled daily boundary: the unsolved riddle is revealed
// and the next one goes up in the configured post channel.
func (c Client) DailyTick() {
	channelID := c.cfg.PostChannelID
	if channelID == "" {
		c.logger.Debug("no post channel configured, skipping daily tick")
		return
	}

	res := c.rounds.Expire()
	if res.WasActive {
		metrics.RiddlesExpired.Add(1)
		c.send(channelID, "⌛ Nobody solved yesterday's riddle. The answer was: **"+res.Answer+"**")
	}
	if res.Exhausted {
		metrics.BankExhausted.Add(1)
		c.send(channelID, "The riddle bank is empty. Ask an admin to add more with /addriddle.")
		return
	}
	metrics.RiddlesPosted.Add(1)
	c.send(channelID, "🧩 **Riddle of the day:** "+res.NextQuestion)
}

// send posts to a channel, logging instead of failing.
func (c Client) send(channelID, content string) {
	_, err := c.Session.ChannelMessageSend(channelID, content)
	if err != nil {
		c.logger.Error("error sending message to channel", "error", err.Error(), "channelID", channelID)
		return
	}
	metrics.DiscordMessageSent.Add(1)
}
