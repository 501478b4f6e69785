package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/metrics"
	"github.com/patchwerk/discord-riddle-bot/wordgame"
)

func (c Client) wordGame(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("wordgame").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("wordgame").Observe(time.Since(start).Seconds())
	}()

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		c.respondEphemeral(s, i, "wordgame", "Use /wordgame start, letter, guess or show.")
		return
	}
	sub := opts[0]

	switch sub.Name {
	case "start":
		c.wordGameStart(s, i, sub)
	case "letter":
		c.wordGameLetter(s, i, sub)
	case "guess":
		c.wordGameGuess(s, i, sub)
	default:
		c.wordGameShow(s, i)
	}
}

func (c Client) wordGameStart(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	if !c.authorizeInteraction(i) {
		c.denied(s, i, "wordgame")
		return
	}

	word := sub.Options[0].StringValue()
	if err := c.words.Start(word); err != nil {
		switch {
		case errors.Is(err, wordgame.ErrGameRunning):
			c.respondEphemeral(s, i, "wordgame", "A game is already running: "+c.words.Masked())
		case errors.Is(err, wordgame.ErrBadWord):
			c.respondEphemeral(s, i, "wordgame", "The word must contain letters.")
		default:
			c.logger.Error("error starting word game", "error", err.Error())
			metrics.CommandErrors.WithLabelValues("wordgame").Inc()
			c.respondEphemeral(s, i, "wordgame", "The game could not be saved; it may not survive a restart.")
		}
		return
	}

	metrics.WordGameResults.WithLabelValues("started").Inc()
	// the reply deliberately hides the word; only the mask is public
	c.respond(s, i, "wordgame", fmt.Sprintf("🔤 A new word game has started: `%s` (%d wrong guesses allowed)", c.words.Masked(), wordgame.DefaultAttempts))
}

func (c Client) wordGameLetter(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	letter := sub.Options[0].StringValue()
	res, err := c.words.GuessLetter(letter)
	if err != nil {
		c.respondWordGameError(s, i, err)
		return
	}
	c.respondWordGameResult(s, i, res)
}

func (c Client) wordGameGuess(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	word := sub.Options[0].StringValue()
	res, err := c.words.GuessWord(word)
	if err != nil {
		c.respondWordGameError(s, i, err)
		return
	}
	c.respondWordGameResult(s, i, res)
}

func (c Client) wordGameShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !c.words.Running() {
		c.respondEphemeral(s, i, "wordgame", "No word game is running.")
		return
	}
	c.respond(s, i, "wordgame", "🔤 Current word: `"+c.words.Masked()+"`")
}

func (c Client) respondWordGameError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, wordgame.ErrNoGame):
		c.respondEphemeral(s, i, "wordgame", "No word game is running. An admin can start one with /wordgame start.")
	case errors.Is(err, wordgame.ErrBadWord):
		c.respondEphemeral(s, i, "wordgame", "Guess a single letter, or the whole word with /wordgame guess.")
	default:
		c.logger.Error("word game error", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("wordgame").Inc()
		c.respondEphemeral(s, i, "wordgame", "Something went wrong; the game state may not be saved.")
	}
}

func (c Client) respondWordGameResult(s *discordgo.Session, i *discordgo.InteractionCreate, res wordgame.Result) {
	switch {
	case res.Won:
		metrics.WordGameResults.WithLabelValues("won").Inc()
		userID, username, ok := interactionUser(i)
		if !ok {
			c.respond(s, i, "wordgame", fmt.Sprintf("🎉 Solved! The word was **%s**.", res.Revealed))
			return
		}
		newScore, err := c.board.Increment(userID)
		if err != nil {
			c.logger.Error("failed to persist scoreboard", "error", err.Error(), "user", userID)
		}
		c.respond(s, i, "wordgame", fmt.Sprintf("🎉 %s got it: **%s**! They now have %d point(s).", username, res.Revealed, newScore))
	case res.Lost:
		metrics.WordGameResults.WithLabelValues("lost").Inc()
		c.respond(s, i, "wordgame", fmt.Sprintf("💀 Out of attempts! The word was **%s**.", res.Revealed))
	case res.Correct:
		c.respond(s, i, "wordgame", fmt.Sprintf("✅ `%s` (%d wrong guesses left)", res.Masked, res.AttemptsRemaining))
	default:
		c.respond(s, i, "wordgame", fmt.Sprintf("❌ `%s` (%d wrong guesses left)", res.Masked, res.AttemptsRemaining))
	}
}
