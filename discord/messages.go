package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/database"
	"github.com/patchwerk/discord-riddle-bot/metrics"
	"github.com/patchwerk/discord-riddle-bot/riddle"
)

// handleMessage routes every inbound channel message: prefix commands first,
// then a pending add-riddle dialog, and everything else is a guess.
func (c Client) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	metrics.DiscordMessageReceived.Add(1)

	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	if strings.HasPrefix(content, c.cfg.CommandPrefix) {
		c.handlePrefixCommand(s, m, strings.TrimPrefix(content, c.cfg.CommandPrefix))
		return
	}

	outcome, question, answer := c.dialogs.Advance(m.Author.ID, m.ChannelID, content, time.Now())
	switch outcome {
	case dialogPromptAnswer:
		c.send(m.ChannelID, "Got the question. Now send the answer.")
		return
	case dialogComplete:
		c.finishAddDialog(m.ChannelID, question, answer)
		return
	case dialogExpired:
		c.send(m.ChannelID, "⏳ Add-riddle dialog timed out. Nothing was saved.")
		return
	}

	c.evaluateGuess(s, m, content)
}

// handlePrefixCommand mirrors the slash commands for servers that prefer
// typed commands. cmd arrives with the prefix already stripped.
func (c Client) handlePrefixCommand(s *discordgo.Session, m *discordgo.MessageCreate, cmd string) {
	name, args := splitCommand(cmd)
	if name == "" {
		return
	}

	start := time.Now()
	metrics.CommandTotal.WithLabelValues(name).Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	switch name {
	case "help":
		c.send(m.ChannelID, helpMessage)
	case "riddle":
		c.postRiddleMessage(m)
	case "addriddle":
		if !c.authorizeMessage(s, m) {
			c.send(m.ChannelID, "You are not allowed to do that here.")
			return
		}
		if question, answer, ok := splitRiddlePair(args); ok {
			c.finishAddDialog(m.ChannelID, question, answer)
			return
		}
		c.dialogs.Begin(m.Author.ID, m.ChannelID, time.Now())
		c.send(m.ChannelID, fmt.Sprintf("📝 <@%s>, send the riddle question. You have %d seconds per step; %scancel aborts.",
			m.Author.ID, int(c.cfg.DialogTimeout.Seconds()), c.cfg.CommandPrefix))
	case "delriddle", "deleteriddle":
		if !c.authorizeMessage(s, m) {
			c.send(m.ChannelID, "You are not allowed to do that here.")
			return
		}
		c.deleteRiddleMessage(m, args)
	case "stopriddle":
		if !c.authorizeMessage(s, m) {
			c.send(m.ChannelID, "You are not allowed to do that here.")
			return
		}
		if c.rounds.Stop() {
			c.send(m.ChannelID, "The current riddle has been withdrawn.")
		} else {
			c.send(m.ChannelID, "There is no active riddle.")
		}
	case "leaderboard", "scoreboard":
		n := defaultLeaderboardSize
		if v, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && v > 0 {
			n = v
		}
		c.send(m.ChannelID, formatLeaderboard(c.board.TopN(n)))
	case "score":
		c.send(m.ChannelID, fmt.Sprintf("<@%s>, you have %d point(s).", m.Author.ID, c.board.Score(m.Author.ID)))
	case "listen":
		if !c.authorizeMessage(s, m) {
			return
		}
		if err := c.policy.Listen(m.ChannelID); err != nil {
			c.logger.Error("error updating channel policy", "error", err.Error())
			metrics.CommandErrors.WithLabelValues(name).Inc()
		}
		c.send(m.ChannelID, "👂 Riddles are now enabled in this channel.")
	case "ignore":
		if !c.authorizeMessage(s, m) {
			return
		}
		if err := c.policy.Ignore(m.ChannelID); err != nil {
			c.logger.Error("error updating channel policy", "error", err.Error())
			metrics.CommandErrors.WithLabelValues(name).Inc()
		}
		c.send(m.ChannelID, "🙉 Riddles are now silenced in this channel.")
	case "cancel":
		if c.dialogs.Cancel(m.Author.ID) {
			c.send(m.ChannelID, "Add-riddle dialog cancelled.")
		}
	}
}

func (c Client) postRiddleMessage(m *discordgo.MessageCreate) {
	if !c.policy.Allowed(m.ChannelID) {
		return
	}
	question, err := c.rounds.Post()
	if err != nil {
		if errors.Is(err, riddle.ErrEmptyBank) {
			c.send(m.ChannelID, "No riddles available. Ask an admin to add some with /addriddle.")
			return
		}
		c.logger.Error("error posting riddle", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("riddle").Inc()
		return
	}
	metrics.RiddlesPosted.Add(1)
	c.send(m.ChannelID, "🧩 **Riddle:** "+question)
}

func (c Client) deleteRiddleMessage(m *discordgo.MessageCreate, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		c.send(m.ChannelID, "Give either the riddle text or its position.")
		return
	}

	var err error
	if index, convErr := strconv.Atoi(args); convErr == nil && index > 0 {
		err = c.bank.RemoveAt(index - 1)
	} else {
		err = c.bank.Remove(args)
	}
	if err != nil {
		if errors.Is(err, riddle.ErrNotFound) {
			c.send(m.ChannelID, "No such riddle.")
			return
		}
		c.logger.Error("error deleting riddle", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("deleteriddle").Inc()
		c.send(m.ChannelID, "The deletion could not be persisted.")
		return
	}
	c.send(m.ChannelID, "🗑️ Riddle deleted.")
}

// finishAddDialog commits a collected question/answer pair to the bank.
func (c Client) finishAddDialog(channelID, question, answer string) {
	if err := c.bank.Add(question, answer); err != nil {
		if errors.Is(err, riddle.ErrValidation) {
			c.send(channelID, "Both the riddle and the answer must contain real words. Nothing was saved.")
			return
		}
		c.logger.Error("error adding riddle", "error", err.Error())
		metrics.CommandErrors.WithLabelValues("addriddle").Inc()
		c.send(channelID, "The riddle could not be saved. It will be lost on restart.")
		return
	}
	c.send(channelID, fmt.Sprintf("🧠 Riddle added! The bank now holds %d.", c.bank.Len()))
}

// evaluateGuess is the hot path: every plain message in a listened channel
// while a riddle is up gets graded.
func (c Client) evaluateGuess(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	if !c.policy.Allowed(m.ChannelID) {
		return
	}
	question, active := c.rounds.Current()
	if !active {
		return
	}

	res := c.rounds.Evaluate(m.Author.ID, text, time.Now())
	switch res.Outcome {
	case riddle.OutcomeNoRound:
		return
	case riddle.OutcomeCooldown:
		metrics.GuessesOnCooldown.Add(1)
		c.send(m.ChannelID, fmt.Sprintf("<@%s>, wait %s before guessing again.", m.Author.ID, formatWait(res.Wait)))
	case riddle.OutcomeIncorrect:
		metrics.GuessesGraded.Add(1)
		metrics.GuessOutcomes.WithLabelValues("incorrect").Inc()
		c.react(s, m, "❌")
		c.archiveGuess(m, question, text, false)
	case riddle.OutcomeCorrect:
		metrics.GuessesGraded.Add(1)
		metrics.RiddlesSolved.Add(1)
		metrics.GuessOutcomes.WithLabelValues("correct").Inc()
		c.react(s, m, "✅")
		c.send(m.ChannelID, fmt.Sprintf("🎉 Correct, <@%s>! You now have %d point(s).", m.Author.ID, res.NewScore))
		if res.Exhausted {
			metrics.BankExhausted.Add(1)
			c.send(m.ChannelID, "That was the last riddle in the bank. Ask an admin to add more with /addriddle.")
		} else {
			metrics.RiddlesPosted.Add(1)
			c.send(m.ChannelID, "🧩 **Riddle:** "+res.NextQuestion)
		}
		c.archiveGuess(m, question, text, true)
		c.archiveSolve(m, question, text, res.NewScore)
	}
}

func (c Client) react(s *discordgo.Session, m *discordgo.MessageCreate, emoji string) {
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
		c.logger.Error("error adding reaction", "error", err.Error(), "channelID", m.ChannelID)
	}
}

func (c Client) archiveGuess(m *discordgo.MessageCreate, question, guess string, correct bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.archive.InsertGuess(ctx, database.GuessRecord{
		UserID:    m.Author.ID,
		ChannelID: m.ChannelID,
		Question:  question,
		Guess:     guess,
		Correct:   correct,
	})
	if err != nil {
		c.logger.Error("error archiving guess", "error", err.Error(), "user", m.Author.ID)
	}
}

func (c Client) archiveSolve(m *discordgo.MessageCreate, question, guess string, newScore int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.archive.InsertSolve(ctx, database.SolveRecord{
		UserID:   m.Author.ID,
		Question: question,
		Answer:   guess,
		NewScore: newScore,
	})
	if err != nil {
		c.logger.Error("error archiving solve", "error", err.Error(), "user", m.Author.ID)
	}
}

// splitCommand separates "delriddle 3" into the command name and its
// argument tail.
func splitCommand(cmd string) (name, args string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return "", ""
	}
	parts := strings.SplitN(cmd, " ", 2)
	name = strings.ToLower(parts[0])
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return name, args
}

// splitRiddlePair parses the single-line "question | answer" add form.
func splitRiddlePair(args string) (question, answer string, ok bool) {
	before, after, found := strings.Cut(args, "|")
	if !found {
		return "", "", false
	}
	question = strings.TrimSpace(before)
	answer = strings.TrimSpace(after)
	return question, answer, question != "" && answer != ""
}

// formatWait renders a remaining cooldown as "4m 58s", rounding up so the
// user is never told zero while still blocked.
func formatWait(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
