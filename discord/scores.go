package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/metrics"
	"github.com/patchwerk/discord-riddle-bot/riddle"
)

const defaultLeaderboardSize = 10

func (c Client) leaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("leaderboard").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("leaderboard").Observe(time.Since(start).Seconds())
	}()

	n := defaultLeaderboardSize
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" && opt.IntValue() > 0 {
			n = int(opt.IntValue())
		}
	}

	c.respond(s, i, "leaderboard", formatLeaderboard(c.board.TopN(n)))
}

func (c Client) score(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("score").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("score").Observe(time.Since(start).Seconds())
	}()

	userID, username, ok := interactionUser(i)
	if !ok {
		c.respondEphemeral(s, i, "score", "Could not work out who you are.")
		return
	}

	points := c.board.Score(userID)
	c.respondEphemeral(s, i, "score", fmt.Sprintf("%s, you have %d point(s).", username, points))
}

// formatLeaderboard renders the top-N view as a numbered list.
func formatLeaderboard(entries []riddle.ScoreEntry) string {
	if len(entries) == 0 {
		return "No scores yet!"
	}

	var b strings.Builder
	b.WriteString("🏆 **Leaderboard**:\n")
	for idx, e := range entries {
		fmt.Fprintf(&b, "%d. <@%s>: %d\n", idx+1, e.User, e.Score)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
