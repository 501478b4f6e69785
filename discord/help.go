package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/metrics"
)

// helpMessage is sent in response to /help and !help.
const helpMessage = `🧩 **Riddle bot commands**
**/riddle** — post a fresh riddle in this channel
**/addriddle** — add a riddle (or run ` + "`!addriddle`" + ` to be walked through it)
**/deleteriddle** — remove a riddle by its question or its index
**/stopriddle** — stop the current round without revealing the answer
**/resetriddles** — make every riddle selectable again
**/leaderboard** — show the top solvers
**/score** — show your own score
**/listen** ` + "`/ignore`" + ` — control which channels the bot grades guesses in
**/wordgame** — the letter-guessing side game (start, letter, guess, show)
Just type your answer in a channel the bot listens to. Correct guesses score a point; wrong ones put you on a short cooldown.`

func (c Client) help(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.CommandTotal.WithLabelValues("help").Inc()
	defer func() {
		metrics.CommandDuration.WithLabelValues("help").Observe(time.Since(start).Seconds())
	}()

	c.respondEphemeral(s, i, "help", helpMessage)
}
