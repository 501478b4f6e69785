package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/patchwerk/discord-riddle-bot/config"
	"github.com/patchwerk/discord-riddle-bot/database"
	"github.com/patchwerk/discord-riddle-bot/logging"
	"github.com/patchwerk/discord-riddle-bot/riddle"
	"github.com/patchwerk/discord-riddle-bot/tickets"
	"github.com/patchwerk/discord-riddle-bot/wordgame"
)

// Client wires discordgo events onto the bot's domain components.
type Client struct {
	Session *discordgo.Session

	cfg     config.Config
	rounds  *riddle.Manager
	bank    *riddle.Bank
	board   *riddle.Scoreboard
	policy  *riddle.ChannelPolicy
	words   *wordgame.Game
	tickets *tickets.Manager
	archive database.GuessArchiver
	dialogs *dialogTracker
	logger  *logging.Logger
}

// Deps collects the domain components the client operates.
type Deps struct {
	Rounds  *riddle.Manager
	Bank    *riddle.Bank
	Board   *riddle.Scoreboard
	Policy  *riddle.ChannelPolicy
	Words   *wordgame.Game
	Tickets *tickets.Manager
	Archive database.GuessArchiver
	Logger  *logging.Logger
}

// Setup opens the Discord session, registers the slash commands and attaches
// the event handlers.
func Setup(ctx context.Context, cfg config.Config, deps Deps) (Client, error) {
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Archive == nil {
		deps.Archive = database.NoopArchiver{}
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return Client{}, fmt.Errorf("error creating discord session: %w", err)
	}
	session.Identify.Intents |= discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	c := Client{
		Session: session,
		cfg:     cfg,
		rounds:  deps.Rounds,
		bank:    deps.Bank,
		board:   deps.Board,
		policy:  deps.Policy,
		words:   deps.Words,
		tickets: deps.Tickets,
		archive: deps.Archive,
		dialogs: newDialogTracker(cfg.DialogTimeout),
		logger:  deps.Logger,
	}

	// opens websocket connection
	err = session.Open()
	if err != nil {
		return Client{}, fmt.Errorf("error opening connection to discord: %w", err)
	}
	for _, v := range AddCommands() {
		_, err := session.ApplicationCommandCreate(session.State.User.ID, "", v)
		if err != nil {
			return Client{}, fmt.Errorf("error creating command: %w", err)
		}
	}

	commandHandlers := c.MakeCommandHandlers()
	// after the commands are registered we can add the handlers
	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if h, ok := commandHandlers[i.ApplicationCommandData().Name]; ok {
				h(s, i)
			}
		case discordgo.InteractionMessageComponent:
			c.handleComponent(s, i)
		}
	})
	session.AddHandler(c.handleMessage)

	go c.sweepDialogs(ctx)

	return c, nil
}

// user renders a stable identifier for scoreboard and archive rows.
func interactionUser(i *discordgo.InteractionCreate) (id, name string, ok bool) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID, i.Member.User.Username, true
	}
	if i.User != nil {
		return i.User.ID, i.User.Username, true
	}
	return "", "", false
}
