package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/metrics"
)

// AddCommands declares the slash-command surface. The legacy !-prefix
// equivalents are handled in messages.go.
func AddCommands() []*discordgo.ApplicationCommand {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "help",
			Description: "Get help with the bot",
		},
		{
			Name:        "riddle",
			Description: "Post a riddle in this channel",
		},
		{
			Name:        "addriddle",
			Description: "Add a riddle to the bank (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "question",
					Description: "The riddle text",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "answer",
					Description: "The answer",
					Required:    true,
				},
			},
		},
		{
			Name:        "deleteriddle",
			Description: "Delete a riddle from the bank (admin)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "question",
					Description: "The exact riddle text to delete",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "index",
					Description: "One-based position in the bank to delete",
					Required:    false,
				},
			},
		},
		{
			Name:        "stopriddle",
			Description: "Clear the active riddle without revealing the answer (admin)",
		},
		{
			Name:        "resetriddles",
			Description: "Return solved riddles to the selectable pool (admin)",
		},
		{
			Name:        "leaderboard",
			Description: "Show the top riddle solvers",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "How many entries to show (default 10)",
					Required:    false,
				},
			},
		},
		{
			Name:        "score",
			Description: "Show your score",
		},
		{
			Name:        "listen",
			Description: "Let the bot run riddles in this channel (admin)",
		},
		{
			Name:        "ignore",
			Description: "Silence the bot's riddles in this channel (admin)",
		},
		{
			Name:        "wordgame",
			Description: "The word-guessing side game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a game with a hidden word (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "word",
							Description: "The word to guess",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "letter",
					Description: "Guess a letter",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "letter",
							Description: "A single letter",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "guess",
					Description: "Guess the whole word",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "word",
							Description: "Your guess",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the current state of the game",
				},
			},
		},
		{
			Name:        "ticket_panel",
			Description: "Post the support-ticket panel in this channel (admin)",
		},
	}
	return commands
}

// MakeCommandHandlers returns a map of command names to their respective functions
func (c Client) MakeCommandHandlers() map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"help":         c.help,
		"riddle":       c.postRiddle,
		"addriddle":    c.addRiddle,
		"deleteriddle": c.deleteRiddle,
		"stopriddle":   c.stopRiddle,
		"resetriddles": c.resetRiddles,
		"leaderboard":  c.leaderboard,
		"score":        c.score,
		"listen":       c.listen,
		"ignore":       c.ignore,
		"wordgame":     c.wordGame,
		"ticket_panel": c.ticketPanel,
	}
}

// respond sends the command's reply in the originating context.
func (c Client) respond(s *discordgo.Session, i *discordgo.InteractionCreate, name, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		c.logger.Error("error responding to command", "command", name, "error", err.Error())
		metrics.CommandErrors.WithLabelValues(name).Inc()
		return
	}
	metrics.DiscordMessageSent.Add(1)
}

// respondEphemeral replies so only the invoking user sees it.
func (c Client) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, name, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		c.logger.Error("error responding to command", "command", name, "error", err.Error())
		metrics.CommandErrors.WithLabelValues(name).Inc()
		return
	}
	metrics.DiscordMessageSent.Add(1)
}

// denied is the uniform refusal for unauthorized admin commands.
func (c Client) denied(s *discordgo.Session, i *discordgo.InteractionCreate, name string) {
	c.respondEphemeral(s, i, name, "You are not allowed to do that here.")
}
